package conversation

import (
	"strings"
	"unicode"
)

// Street-address suffixes. A capitalized word right before one of these is
// part of an address ("789 Pine Ave"), not a person's name.
var addressSuffixes = map[string]bool{
	"ave": true, "avenue": true,
	"st": true, "street": true,
	"rd": true, "road": true,
	"blvd": true, "boulevard": true,
	"dr": true, "drive": true,
	"way": true,
	"ln": true, "lane": true,
	"ct": true, "court": true,
	"pl": true, "place": true,
}

var affirmations = map[string]bool{
	"yes": true, "y": true, "yep": true, "yeah": true,
	"ok": true, "okay": true, "sure": true, "correct": true,
	"si": true, "sí": true, "claro": true, "dale": true,
}

var ordinalWords = map[string]int{
	"first": 0, "1st": 0,
	"second": 1, "2nd": 1,
	"third": 2, "3rd": 2,
	"fourth": 3, "4th": 3,
	"fifth": 4, "5th": 4,
}

func trimWord(word string) string {
	return strings.TrimFunc(word, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func isAddressSuffix(word string) bool {
	return addressSuffixes[strings.ToLower(trimWord(word))]
}

func isNumber(word string) bool {
	word = trimWord(word)
	if word == "" {
		return false
	}

	for _, r := range word {
		if !unicode.IsDigit(r) {
			return false
		}
	}

	return true
}

func isCapitalized(word string) bool {
	word = trimWord(word)
	if word == "" {
		return false
	}

	runes := []rune(word)

	return unicode.IsUpper(runes[0])
}

// addressMask marks the words of text that belong to a street address:
// the suffix itself, the street name before it and a leading house number.
func addressMask(words []string) []bool {
	mask := make([]bool, len(words))

	for i, word := range words {
		if !isAddressSuffix(word) {
			continue
		}

		mask[i] = true
		if i > 0 {
			mask[i-1] = true
		}
		if i > 1 && isNumber(words[i-2]) {
			mask[i-2] = true
		}
	}

	for i, word := range words {
		if isNumber(word) {
			mask[i] = true
		}
	}

	return mask
}

// NameTokens returns the words of text that may belong to a person's name,
// with street-address fragments and bare numbers removed.
func NameTokens(text string) []string {
	words := strings.Fields(text)
	mask := addressMask(words)

	result := make([]string, 0, len(words))
	for i, word := range words {
		if mask[i] {
			continue
		}

		if cleaned := trimWord(word); cleaned != "" {
			result = append(result, cleaned)
		}
	}

	return result
}

// ExtractNameCandidate looks for a "First Last" capitalized pair outside of
// address fragments. A one- or two-word message is treated as a bare name
// reply if capitalized ("Sarah Williams", "Sarah").
func ExtractNameCandidate(text string) string {
	words := strings.Fields(text)
	mask := addressMask(words)

	for i := 0; i+1 < len(words); i++ {
		if mask[i] || mask[i+1] {
			continue
		}

		if isCapitalized(words[i]) && isCapitalized(words[i+1]) {
			return trimWord(words[i]) + " " + trimWord(words[i+1])
		}
	}

	if len(words) <= 2 {
		tokens := NameTokens(text)
		if len(tokens) == len(words) && len(tokens) > 0 {
			capitalized := true
			for _, token := range tokens {
				if !isCapitalized(token) {
					capitalized = false
					break
				}
			}

			if capitalized {
				return strings.Join(tokens, " ")
			}
		}
	}

	return ""
}

// IsAffirmation reports whether text is a bare yes-style reply.
func IsAffirmation(text string) bool {
	return affirmations[strings.ToLower(trimWord(text))]
}

// IsSelectAll reports whether text picks every offered candidate.
func IsSelectAll(text string) bool {
	lowered := strings.ToLower(strings.TrimSpace(text))

	for _, word := range strings.Fields(lowered) {
		cleaned := trimWord(word)
		if cleaned == "both" || cleaned == "all" {
			return true
		}
	}

	return false
}

// OrdinalIndex parses an ordinal reference ("first", "the second one")
// into a zero-based index.
func OrdinalIndex(text string) (int, bool) {
	for _, word := range strings.Fields(strings.ToLower(text)) {
		if index, ok := ordinalWords[trimWord(word)]; ok {
			return index, true
		}
	}

	return 0, false
}

// RefersToLast reports whether text points at the most recent item.
func RefersToLast(text string) bool {
	lowered := strings.ToLower(text)

	for _, marker := range []string{"last", "latest", "most recent"} {
		if strings.Contains(lowered, marker) {
			return true
		}
	}

	return false
}
