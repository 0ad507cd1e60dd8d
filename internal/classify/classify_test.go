package classify

import (
	"context"
	"errors"
	"strings"
	"testing"
)

// mockTextGenerator is a mock implementation of llm.TextGenerator.
type mockTextGenerator struct {
	response    string
	shouldError bool
	lastPrompt  string
}

func (m *mockTextGenerator) GenerateContent(ctx context.Context, prompt string) (string, error) {
	m.lastPrompt = prompt
	if m.shouldError {
		return "", errors.New("LLM error")
	}
	return m.response, nil
}

func TestLLMClassifier(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mock := &mockTextGenerator{
			response: `{"name": "Tomaten", "category": "produce", "quantity": 3, "unit": null}`,
		}

		result, err := NewLLMClassifier(mock).Classify(ctx, "3 tomaten")
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if result.Name != "Tomaten" {
			t.Errorf("Expected name 'Tomaten', got '%s'", result.Name)
		}
		if result.Category != "produce" {
			t.Errorf("Expected category 'produce', got '%s'", result.Category)
		}
		if result.Quantity == nil || *result.Quantity != 3 {
			t.Errorf("Expected quantity 3, got %v", result.Quantity)
		}
		if result.Unit != "" {
			t.Errorf("Expected no unit, got '%s'", result.Unit)
		}
	})

	t.Run("PromptContainsRawTextAndCategories", func(t *testing.T) {
		mock := &mockTextGenerator{response: `{"name": "Milch", "category": "dairy"}`}

		if _, err := NewLLMClassifier(mock).Classify(ctx, "500ml Milch"); err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if !strings.Contains(mock.lastPrompt, "500ml Milch") {
			t.Error("Expected prompt to contain the raw input")
		}
		if !strings.Contains(mock.lastPrompt, "produce") || !strings.Contains(mock.lastPrompt, "other") {
			t.Error("Expected prompt to list the route categories")
		}
	})

	t.Run("EmptyNameFallsBackToRawText", func(t *testing.T) {
		mock := &mockTextGenerator{response: `{"name": "", "category": "other"}`}

		result, err := NewLLMClassifier(mock).Classify(ctx, " Dingsbums ")
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if result.Name != "Dingsbums" {
			t.Errorf("Expected raw text fallback 'Dingsbums', got '%s'", result.Name)
		}
	})

	t.Run("LLMError", func(t *testing.T) {
		mock := &mockTextGenerator{shouldError: true}

		_, err := NewLLMClassifier(mock).Classify(ctx, "Milch")
		if err == nil {
			t.Fatal("Expected an error from the LLM client, got nil")
		}
		if !strings.HasPrefix(err.Error(), "failed to get LLM response") {
			t.Errorf("Expected wrapped LLM error, got: %v", err)
		}
	})

	t.Run("InvalidJSON", func(t *testing.T) {
		mock := &mockTextGenerator{response: "this is not json"}

		_, err := NewLLMClassifier(mock).Classify(ctx, "Milch")
		if err == nil {
			t.Fatal("Expected an error for invalid JSON, got nil")
		}
		if !strings.HasPrefix(err.Error(), "failed to unmarshal LLM response") {
			t.Errorf("Expected a JSON unmarshaling error, got: %v", err)
		}
	})
}

func TestDisabled(t *testing.T) {
	_, err := Disabled{}.Classify(context.Background(), "Milch")
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("Expected ErrUnavailable, got %v", err)
	}
}
