// Package webimport turns a pasted URL into shopping list chunks by
// scraping the page and letting the LLM pick out the ingredient or item
// lines.
package webimport

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"smart-shopping-list/internal/llm"

	"github.com/PuerkitoBio/goquery"
)

// Importer fetches pages and extracts their item lines.
type Importer struct {
	textGen    llm.TextGenerator
	httpClient *http.Client
}

// extractedItems is the structure the AI returns.
type extractedItems struct {
	Items []string `json:"items"`
}

// NewImporter creates a new Importer instance.
func NewImporter(textGen llm.TextGenerator) *Importer {
	return &Importer{
		textGen:    textGen,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// FetchItems fetches the URL and extracts one raw chunk per item line,
// e.g. "500 g Mehl". The chunks still go through normal classification;
// this only finds them on the page.
func (i *Importer) FetchItems(ctx context.Context, url string) ([]string, error) {
	if i.textGen == nil {
		return nil, fmt.Errorf("no LLM provider configured for import")
	}

	content, err := i.fetchAndCleanHTML(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch content: %w", err)
	}

	prompt := fmt.Sprintf(`
You are a shopping list extraction expert. Extract the ingredient or shopping
item lines from the following page content. Keep quantities and units exactly
as written, one item per entry. Ignore instructions, navigation and comments.
Return the result strictly as a JSON object with this structure:
{
  "items": ["500 g Mehl", "3 Eier", ...]
}

Page Content:
%s
`, content)

	llmResponse, err := i.textGen.GenerateContent(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("ai extraction failed: %w", err)
	}

	var extracted extractedItems
	if err := json.Unmarshal([]byte(llmResponse), &extracted); err != nil {
		return nil, fmt.Errorf("failed to parse AI response: %w. Response: %s", err, llmResponse)
	}

	if len(extracted.Items) == 0 {
		return nil, fmt.Errorf("no items found on page")
	}

	return extracted.Items, nil
}

func (i *Importer) fetchAndCleanHTML(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return "", err
	}

	resp, err := i.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to fetch URL: status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", err
	}

	// Remove noise to save LLM tokens
	doc.Find("script, style, nav, footer, iframe, ads, .ads, #ads").Each(func(i int, s *goquery.Selection) {
		s.Remove()
	})

	return doc.Find("body").Text(), nil
}
