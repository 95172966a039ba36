package main

import (
	"strings"
	"testing"
)

func TestNewAnthropicModel(t *testing.T) {
	tests := []struct {
		name     string
		apiKey   string
		settings RankerSettings
		wantErr  bool
	}{
		{
			name:     "valid api key",
			apiKey:   "test-api-key-123",
			settings: RankerSettings{Model: "claude-3-5-haiku-20241022", MaxTokens: 16},
			wantErr:  false,
		},
		{
			name:     "empty api key",
			apiKey:   "",
			settings: RankerSettings{Model: "claude-3-5-haiku-20241022"},
			wantErr:  true,
		},
		{
			name:     "missing model",
			apiKey:   "test-api-key-123",
			settings: RankerSettings{},
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			model, err := NewAnthropicModel(tt.apiKey, "system", tt.settings)

			if (err != nil) != tt.wantErr {
				t.Errorf("NewAnthropicModel() error = %v, wantErr %v", err, tt.wantErr)
				return
			}

			if !tt.wantErr {
				if model == nil {
					t.Fatal("NewAnthropicModel() returned nil model")
				}
				if model.apiKey != tt.apiKey {
					t.Error("NewAnthropicModel() apiKey not set correctly")
				}
				if model.settings.Model != tt.settings.Model {
					t.Error("NewAnthropicModel() settings not set correctly")
				}
			}
		})
	}
}

func TestNewScoringPromptValidation(t *testing.T) {
	tests := []struct {
		name          string
		template      string
		expectError   bool
		errorContains string
	}{
		{
			name:        "valid template",
			template:    "Title: {{.Title}}. Reader wants: {{.Preference}}.",
			expectError: false,
		},
		{
			name:          "template missing title variable",
			template:      "Reader wants: {{.Preference}}.",
			expectError:   true,
			errorContains: "must contain {{.Title}} variable",
		},
		{
			name:          "template missing preference variable",
			template:      "Title: {{.Title}}.",
			expectError:   true,
			errorContains: "must contain {{.Preference}} variable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewScoringPrompt(tt.template)

			if tt.expectError {
				if err == nil {
					t.Fatal("NewScoringPrompt() expected error, got nil")
				}
				if !strings.Contains(err.Error(), tt.errorContains) {
					t.Errorf("NewScoringPrompt() error = %q, want it to contain %q", err.Error(), tt.errorContains)
				}
				return
			}
			if err != nil {
				t.Errorf("NewScoringPrompt() unexpected error: %v", err)
			}
		})
	}
}

func TestScoringPromptRender(t *testing.T) {
	prompt, err := NewScoringPrompt(defaultUserPrompt)
	if err != nil {
		t.Fatalf("embedded user prompt is invalid: %v", err)
	}

	result := prompt.Render("Markets rally on rate cut", "economics and central banks")

	expected := []string{
		"Here is an article title: Markets rally on rate cut.",
		"based on this user input: economics and central banks.",
		"Print only a single number.",
	}
	for _, want := range expected {
		if !strings.Contains(result, want) {
			t.Errorf("Render() missing %q\nActual prompt:\n%s", want, result)
		}
	}

	if strings.Contains(result, "{{.") {
		t.Errorf("Render() left template variables in prompt: %s", result)
	}
	if result != strings.TrimSpace(result) {
		t.Error("Render() should trim surrounding whitespace")
	}
}

func TestParseRank(t *testing.T) {
	tests := []struct {
		name     string
		response string
		want     float64
		wantNil  bool
	}{
		{"integer", "7", 7.0, false},
		{"decimal", "7.5", 7.5, false},
		{"word", "seven", 0, true},
		{"surrounding whitespace", "  9\n", 9.0, false},
		{"number inside sentence", "I would rate it 8", 0, true},
		{"empty", "", 0, true},
		{"nan", "NaN", 0, true},
		{"infinity", "Inf", 0, true},
		{"negative", "-1", -1.0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rank, err := ParseRank(tt.response)

			if tt.wantNil {
				if rank != nil {
					t.Errorf("ParseRank(%q) = %v, want nil", tt.response, *rank)
				}
				if err == nil {
					t.Errorf("ParseRank(%q) expected error, got nil", tt.response)
				}
				return
			}

			if err != nil {
				t.Fatalf("ParseRank(%q) unexpected error: %v", tt.response, err)
			}
			if *rank != tt.want {
				t.Errorf("ParseRank(%q) = %v, want %v", tt.response, *rank, tt.want)
			}
		})
	}
}
