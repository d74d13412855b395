package main

import "testing"

func TestSubcommandsRegistered(t *testing.T) {
	want := []string{
		"serve", "listen", "stop", "cancel", "find", "say", "tag",
		"status", "watch", "configure", "doctor", "version", "shutdown",
	}
	have := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		have[c.Name()] = true
	}
	for _, name := range want {
		if !have[name] {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

func TestTagNamesMatchFilterTags(t *testing.T) {
	names := tagNames()
	if len(names) != 4 {
		t.Fatalf("tagNames() = %v, want 4 entries", names)
	}
	for _, n := range names {
		if n == "" {
			t.Error("empty tag name")
		}
	}
}
