package classify

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"text/template"

	"smart-shopping-list/internal/category"
	"smart-shopping-list/internal/llm"
)

//go:embed classifier_prompt.md
var classifierPrompt string

// LLMClassifier classifies raw chunks by prompting a text generation model.
type LLMClassifier struct {
	textGen llm.TextGenerator
}

// NewLLMClassifier creates a classifier backed by the given model.
func NewLLMClassifier(textGen llm.TextGenerator) *LLMClassifier {
	return &LLMClassifier{textGen: textGen}
}

// Classify prompts the model with the raw text and parses its JSON reply.
func (c *LLMClassifier) Classify(ctx context.Context, rawText string) (Classification, error) {
	prompt, err := buildClassifierPrompt(rawText)
	if err != nil {
		return Classification{}, err
	}

	llmResp, err := c.textGen.GenerateContent(ctx, prompt)
	if err != nil {
		return Classification{}, fmt.Errorf("failed to get LLM response: %w", err)
	}

	var result Classification
	if err := json.Unmarshal([]byte(llmResp), &result); err != nil {
		return Classification{}, fmt.Errorf("failed to unmarshal LLM response: %w. Response: %s", err, llmResp)
	}

	if strings.TrimSpace(result.Name) == "" {
		// The model occasionally returns an empty name for gibberish
		// input; keep the raw text so the item is never blanked.
		result.Name = strings.TrimSpace(rawText)
	}

	return result, nil
}

func buildClassifierPrompt(rawText string) (string, error) {
	tmpl, err := template.New("classifier").Parse(classifierPrompt)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	err = tmpl.Execute(&buf, struct {
		RawText    string
		Categories string
	}{
		RawText:    rawText,
		Categories: strings.Join(category.RouteOrder, ", "),
	})
	if err != nil {
		return "", err
	}

	return buf.String(), nil
}
