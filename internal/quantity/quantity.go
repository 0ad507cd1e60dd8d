package quantity

import (
	"strconv"
	"strings"
)

// Quantity is a parsed amount/unit pair. Either field may be absent:
// a nil Amount means the input carried no leading number, an empty Unit
// means no unit token followed it.
type Quantity struct {
	Amount *float64
	Unit   string
}

// Parse extracts a leading numeric token (decimal comma or dot accepted)
// and an optional trailing unit from free text, e.g. "500g", "3",
// "2.5 l", "2,5l". Input that does not start with a number is treated as
// a bare unit/descriptor, never an error.
func Parse(input string) Quantity {
	s := strings.TrimSpace(input)
	if s == "" {
		return Quantity{}
	}

	i := 0
	seenDigit := false
	seenSep := false
scan:
	for i < len(s) {
		c := s[i]
		switch {
		case c >= '0' && c <= '9':
			seenDigit = true
			i++
		case (c == '.' || c == ',') && seenDigit && !seenSep:
			seenSep = true
			i++
		default:
			break scan
		}
	}
	if !seenDigit {
		return Quantity{Unit: s}
	}

	numTok := strings.ReplaceAll(s[:i], ",", ".")
	numTok = strings.TrimSuffix(numTok, ".")
	amount, err := strconv.ParseFloat(numTok, 64)
	if err != nil {
		return Quantity{Unit: s}
	}

	return Quantity{
		Amount: &amount,
		Unit:   strings.TrimSpace(s[i:]),
	}
}

// Format renders a quantity for display: "2.5 l", "3", "Packung" or "".
func Format(q Quantity) string {
	switch {
	case q.Amount != nil && q.Unit != "":
		return formatAmount(*q.Amount) + " " + q.Unit
	case q.Amount != nil:
		return formatAmount(*q.Amount)
	default:
		return q.Unit
	}
}

// FormatForExport renders a full item line for plain-text export.
// A bare multiplier (amount without unit) reads as "3x Tomaten"; any
// other quantity is prefixed verbatim, e.g. "500 g Mehl".
func FormatForExport(q Quantity, text string) string {
	if q.Amount != nil && q.Unit == "" {
		return formatAmount(*q.Amount) + "x " + text
	}
	qf := Format(q)
	if qf == "" {
		return text
	}
	return strings.TrimSpace(qf + " " + text)
}

func formatAmount(a float64) string {
	return strconv.FormatFloat(a, 'f', -1, 64)
}
