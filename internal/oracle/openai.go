package oracle

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/danmarauda/hausvoice/internal/filter"
)

// OpenAIExtractor implements Extractor using OpenAI's chat completions API
// with a JSON response format.
type OpenAIExtractor struct {
	client *openai.Client
	config Config
}

// NewOpenAIExtractor creates a new OpenAI extraction adapter.
func NewOpenAIExtractor(cfg Config) *OpenAIExtractor {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	return &OpenAIExtractor{
		client: openai.NewClientWithConfig(clientCfg),
		config: cfg,
	}
}

func (e *OpenAIExtractor) Extract(ctx context.Context, fragment string, current filter.Criteria) (filter.Update, error) {
	currentJSON, err := json.Marshal(current)
	if err != nil {
		return filter.Update{}, fmt.Errorf("marshal current criteria: %w", err)
	}

	model := e.config.Model
	if model == "" {
		model = "gpt-4o-mini"
	}
	temperature := e.config.Temperature
	if temperature == 0 {
		temperature = 0.2 // low temperature for consistent extraction
	}

	req := openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt()},
			{Role: openai.ChatMessageRoleUser, Content: fmt.Sprintf(
				"Current search criteria: %s. New user query: %q.", currentJSON, fragment)},
		},
		Temperature: temperature,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}

	start := time.Now()
	resp, err := e.client.CreateChatCompletion(ctx, req)
	duration := time.Since(start)
	if err != nil {
		return filter.Update{}, fmt.Errorf("openai chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return filter.Update{}, fmt.Errorf("openai chat completion: no response choices")
	}

	update, err := decodeUpdate([]byte(resp.Choices[0].Message.Content))
	if err != nil {
		return filter.Update{}, fmt.Errorf("decode extraction response: %w", err)
	}
	log.Printf("openai-extractor: extracted in %v from %q", duration, fragment)
	return update, nil
}

// systemPrompt describes the extraction task and the response schema. Field
// descriptions mirror the closed enums so out-of-schema values are rare; the
// decode boundary still drops anything invalid.
func systemPrompt() string {
	var b strings.Builder
	b.WriteString(`You are an intelligent assistant for a real estate website called HAUS. Extract search parameters from the user's spoken query and respond with a single JSON object.

For each parameter you recognize, emit a key with an object {"value": ..., "sourceText": [...]} where sourceText lists the exact words from the user's query that justify the value. Omit keys entirely when the query carries no new information for them; never emit null values.

Keys and value types:
- "location": string. City, state, suburb or neighborhood.
- "locationRadiusKm": number. Search radius around the location, kilometres.
- "propertyType": string, one of: `)
	writeEnum(&b, func() []string {
		var out []string
		for _, pt := range filter.PropertyTypes {
			out = append(out, string(pt))
		}
		return out
	}())
	b.WriteString(`. Standardize variations: 'home'/'villa' -> 'House'; 'studio' -> 'Apartment'; 'condominium' -> 'Condo'; 'townhome' -> 'Townhouse'; 'penthouse' -> 'Loft'.
- "listingType": string, one of: `)
	writeEnum(&b, func() []string {
		var out []string
		for _, lt := range filter.ListingTypes {
			out = append(out, string(lt))
		}
		return out
	}())
	b.WriteString(`. Infer 'For Sale' from words like 'buy', 'purchase', 'sell'; infer 'For Rent' from 'rent'; 'For Lease' from 'lease'.
- "priceMin", "priceMax": non-negative numbers.
- "bedroomsMin", "bathroomsMin": non-negative integers.
- "sizeMin", "sizeMax": non-negative numbers, square metres.
- "style": string. Architectural style, free text.
- "amenities": array of strings, each one of: `)
	writeEnum(&b, func() []string {
		var out []string
		for _, a := range filter.Amenities {
			out = append(out, string(a))
		}
		return out
	}())
	b.WriteString(`.

Only return values that are explicitly mentioned or can be clearly inferred from the user's latest query. Do not guess or fill in missing information.`)
	return b.String()
}

func writeEnum(b *strings.Builder, values []string) {
	for i, v := range values {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString("'")
		b.WriteString(v)
		b.WriteString("'")
	}
}
