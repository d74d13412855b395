// Package provider is the registry of external services hausvoice talks to:
// which role each one plays, where its API key comes from, and which models
// it offers. Config resolution and the configure wizard both read from here.
package provider

import "strings"

// Role is the function a provider fills in the pipeline.
type Role string

const (
	Capture Role = "capture" // live speech to transcript chunks
	Oracle  Role = "oracle"  // transcript fragments to criteria updates
)

// Model describes one selectable model of a provider.
type Model struct {
	ID          string
	Name        string
	Description string
}

// Provider describes one external service.
type Provider struct {
	Name        string
	DisplayName string
	Role        Role
	EnvVar      string // environment variable holding the API key
	APIKeyURL   string // where to create a key
	Models      []Model
	DefaultID   string

	validateKey func(string) bool
}

// ValidAPIKey reports whether key has the provider's expected shape. This is
// a format check only, not an authorization check.
func (p *Provider) ValidAPIKey(key string) bool {
	if p.validateKey == nil {
		return key != ""
	}
	return p.validateKey(key)
}

var registry = map[string]*Provider{}

func init() {
	register(&Provider{
		Name:        "openai",
		DisplayName: "OpenAI",
		Role:        Oracle,
		EnvVar:      "OPENAI_API_KEY",
		APIKeyURL:   "https://platform.openai.com/api-keys",
		DefaultID:   "gpt-4o-mini",
		Models: []Model{
			{ID: "gpt-4o-mini", Name: "GPT-4o Mini", Description: "Fast and affordable, recommended"},
			{ID: "gpt-4o", Name: "GPT-4o", Description: "Most capable extraction quality"},
			{ID: "gpt-4.1-mini", Name: "GPT-4.1 Mini", Description: "Newer small model"},
		},
		validateKey: func(key string) bool { return strings.HasPrefix(key, "sk-") },
	})
	register(&Provider{
		Name:        "deepgram",
		DisplayName: "Deepgram",
		Role:        Capture,
		EnvVar:      "DEEPGRAM_API_KEY",
		APIKeyURL:   "https://console.deepgram.com",
		DefaultID:   "nova-3",
		Models: []Model{
			{ID: "nova-3", Name: "Nova 3", Description: "Latest live transcription model, recommended"},
			{ID: "nova-2", Name: "Nova 2", Description: "Previous generation"},
		},
	})
}

func register(p *Provider) {
	registry[p.Name] = p
}

// Get returns a provider by name, or nil if not registered.
func Get(name string) *Provider {
	return registry[name]
}

// EnvVarForProvider returns the environment variable name for a provider's
// API key, or "" for unknown providers.
func EnvVarForProvider(name string) string {
	if p := Get(name); p != nil {
		return p.EnvVar
	}
	return ""
}

// ByRole returns the providers filling a role, in registration-stable order.
func ByRole(role Role) []*Provider {
	var out []*Provider
	for _, name := range []string{"openai", "deepgram"} {
		if p := registry[name]; p != nil && p.Role == role {
			out = append(out, p)
		}
	}
	return out
}
