package verification

import "strings"

const identifierLength = 7

// ocrSubstitutions maps glyphs the OCR engine commonly confuses with digits.
// Best-effort heuristic applied uniformly before stripping non-digits.
var ocrSubstitutions = map[rune]rune{
	'O': '0', 'o': '0', 'Q': '0', 'D': '0',
	'I': '1', 'l': '1', 'i': '1', '|': '1',
	'Z': '2', 'z': '2',
	'A': '4',
	'S': '5', 's': '5',
	'G': '6',
	'T': '7',
	'B': '8',
	'g': '9', 'q': '9',
}

// NormalizeDigits applies the confusion substitutions and strips every
// remaining non-digit character.
func NormalizeDigits(text string) string {
	var sb strings.Builder
	for _, r := range text {
		if sub, ok := ocrSubstitutions[r]; ok {
			r = sub
		}
		if r >= '0' && r <= '9' {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// Reconcile turns raw recognized text into zero-or-one validated student
// identifier by cross-referencing the registry's known-identifier set.
// Matching runs in strict priority order and returns on the first success:
// exact containment, then a left-to-right 7-wide sliding window, then the
// first 7 digits as a last resort. A miss is a normal negative outcome.
func Reconcile(text string, validIDs []string) (string, bool) {
	digits := NormalizeDigits(text)
	if digits == "" {
		return "", false
	}

	for _, id := range validIDs {
		if len(id) == identifierLength && strings.Contains(digits, id) {
			return id, true
		}
	}

	if len(digits) < identifierLength {
		return "", false
	}

	valid := make(map[string]struct{}, len(validIDs))
	for _, id := range validIDs {
		valid[id] = struct{}{}
	}
	for i := 0; i+identifierLength <= len(digits); i++ {
		window := digits[i : i+identifierLength]
		if _, ok := valid[window]; ok {
			return window, true
		}
	}

	prefix := digits[:identifierLength]
	if _, ok := valid[prefix]; ok {
		return prefix, true
	}

	return "", false
}
