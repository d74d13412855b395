package provider

import "testing"

func TestRegistry(t *testing.T) {
	openai := Get("openai")
	if openai == nil {
		t.Fatal("openai provider not registered")
	}
	if openai.Role != Oracle {
		t.Errorf("openai role = %v, want oracle", openai.Role)
	}
	if openai.DefaultID != "gpt-4o-mini" {
		t.Errorf("openai default = %q, want gpt-4o-mini", openai.DefaultID)
	}

	deepgram := Get("deepgram")
	if deepgram == nil {
		t.Fatal("deepgram provider not registered")
	}
	if deepgram.Role != Capture {
		t.Errorf("deepgram role = %v, want capture", deepgram.Role)
	}

	if Get("groq") != nil {
		t.Error("unknown provider should return nil")
	}
}

func TestEnvVarForProvider(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"openai", "OPENAI_API_KEY"},
		{"deepgram", "DEEPGRAM_API_KEY"},
		{"unknown", ""},
	}
	for _, tt := range tests {
		if got := EnvVarForProvider(tt.name); got != tt.want {
			t.Errorf("EnvVarForProvider(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestValidAPIKey(t *testing.T) {
	openai := Get("openai")
	if openai.ValidAPIKey("invalid") {
		t.Error("openai key without sk- prefix should be invalid")
	}
	if !openai.ValidAPIKey("sk-abc123") {
		t.Error("sk- prefixed key should be valid")
	}

	deepgram := Get("deepgram")
	if deepgram.ValidAPIKey("") {
		t.Error("empty deepgram key should be invalid")
	}
	if !deepgram.ValidAPIKey("anything") {
		t.Error("non-empty deepgram key should be valid")
	}
}

func TestByRole(t *testing.T) {
	capture := ByRole(Capture)
	if len(capture) != 1 || capture[0].Name != "deepgram" {
		t.Errorf("ByRole(Capture) = %v, want [deepgram]", capture)
	}
}
