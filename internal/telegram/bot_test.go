package telegram

import (
	"errors"
	"strings"
	"testing"

	"smart-shopping-list/internal/list"
)

func TestSplitCommand(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantCmd string
		wantArg string
	}{
		{"bare command", "/list", "/list", ""},
		{"with argument", "/check 3", "/check", "3"},
		{"with bot suffix", "/check@MyShoppingBot 3", "/check", "3"},
		{"multi word argument", "/newlist Wochenende Einkauf", "/newlist", "Wochenende Einkauf"},
		{"uppercase command", "/LIST", "/list", ""},
		{"newline separator", "/newlist\nParty", "/newlist", "Party"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, arg := splitCommand(tt.input)
			if cmd != tt.wantCmd || arg != tt.wantArg {
				t.Errorf("splitCommand(%q) = (%q, %q), want (%q, %q)", tt.input, cmd, arg, tt.wantCmd, tt.wantArg)
			}
		})
	}
}

func qty(v float64) *float64 { return &v }

func TestFormatViewMarkdown(t *testing.T) {
	view := list.View{
		ListName: "Einkaufsliste",
		Groups: []list.Group{
			{Category: "produce", Items: []list.Item{
				{Text: "Tomaten", Status: list.StatusDone, Quantity: qty(3)},
			}},
			{Category: "dairy", Items: []list.Item{
				{Text: "Milch", Status: list.StatusDone},
				{Text: "irgendwas", Status: list.StatusAnalyzing},
				{Text: "???", Status: list.StatusError},
			}},
		},
		Checked: []list.Item{
			{Text: "Brot", Checked: true, Status: list.StatusDone},
		},
	}

	got := formatViewMarkdown(view)

	for _, want := range []string{
		"*Einkaufsliste*",
		"_produce_",
		"_dairy_",
		"1. 3x Tomaten",
		"2. Milch",
		"3. ⏳ irgendwas",
		"4. ⚠️ ???",
		"5. ✅ Brot",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("rendered view missing %q:\n%s", want, got)
		}
	}

	if strings.Contains(got, "empty") {
		t.Errorf("non-empty view should not render the empty hint:\n%s", got)
	}
}

func TestFormatViewMarkdownEmptyList(t *testing.T) {
	got := formatViewMarkdown(list.View{ListName: "Einkaufsliste"})
	if !strings.Contains(got, "empty") {
		t.Errorf("empty view should invite the user to add items:\n%s", got)
	}
}

func TestFormatViewMarkdownSaveWarningShown(t *testing.T) {
	view := list.View{
		ListName: "Einkaufsliste",
		Groups: []list.Group{
			{Category: "other", Items: []list.Item{{Text: "Milch", Status: list.StatusDone}}},
		},
		SaveErr: errors.New("disk full"),
	}

	got := formatViewMarkdown(view)
	if !strings.Contains(got, "could not be saved") {
		t.Errorf("view with save error should warn the user:\n%s", got)
	}
}
