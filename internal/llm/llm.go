// Package llm provides the text-generation clients used by the content
// specialist. The Anthropic client talks to the API directly or through
// AWS Bedrock; the Offline generator produces deterministic output for
// air-gapped runs and tests.
package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// Generator produces model text for a system prompt and user prompt.
type Generator interface {
	Generate(ctx context.Context, system, prompt string) (string, error)
}

// ExtractObject unmarshals the first JSON object found in s into v.
// Model responses often wrap the object in prose or code fences, so
// everything outside the outermost braces is ignored.
func ExtractObject(s string, v any) error {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end == -1 || end < start {
		return fmt.Errorf("no JSON object in response")
	}
	if err := json.Unmarshal([]byte(s[start:end+1]), v); err != nil {
		return fmt.Errorf("parse model response: %w", err)
	}
	return nil
}

// ExtractArray unmarshals the first JSON array found in s into v.
func ExtractArray(s string, v any) error {
	start := strings.Index(s, "[")
	end := strings.LastIndex(s, "]")
	if start == -1 || end == -1 || end < start {
		return fmt.Errorf("no JSON array in response")
	}
	if err := json.Unmarshal([]byte(s[start:end+1]), v); err != nil {
		return fmt.Errorf("parse model response: %w", err)
	}
	return nil
}
