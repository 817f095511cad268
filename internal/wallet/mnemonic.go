// Package wallet provides the local signing wallet: BIP39 mnemonic
// validation and BIP44 key derivation for the session signer.
package wallet

import (
	"math"
	"regexp"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/tyler-smith/go-bip39"

	stakeerr "github.com/turkyfun/stakectl/pkg/errors"
)

// whitespaceRegex matches one or more whitespace characters.
var whitespaceRegex = regexp.MustCompile(`\s+`)

// ValidateMnemonic checks if a mnemonic phrase is valid according to BIP39.
// It verifies word count, word validity, and checksum.
func ValidateMnemonic(mnemonic string) error {
	if mnemonic == "" {
		return stakeerr.ErrInvalidMnemonic
	}

	normalized := NormalizeMnemonic(mnemonic)

	// BIP39 only supports 12 or 24-word mnemonics; cheap check before the
	// checksum validation
	words := strings.Fields(normalized)
	if len(words) != 12 && len(words) != 24 {
		return stakeerr.WithDetails(stakeerr.ErrInvalidMnemonic, map[string]string{
			"reason": "word count must be 12 or 24",
		})
	}

	if !bip39.IsMnemonicValid(normalized) {
		if hint := FormatTypoSuggestions(DetectTypos(normalized)); hint != "" {
			return stakeerr.WithSuggestion(stakeerr.ErrInvalidMnemonic, hint)
		}
		return stakeerr.ErrInvalidMnemonic
	}

	return nil
}

// NormalizeMnemonic lowercases the phrase and collapses whitespace runs to
// single spaces.
func NormalizeMnemonic(input string) string {
	input = strings.ToLower(input)
	input = whitespaceRegex.ReplaceAllString(input, " ")
	return strings.TrimSpace(input)
}

// MnemonicToSeed converts a BIP39 mnemonic phrase to a 64-byte seed.
// The passphrase is optional. The returned seed should be zeroed after use.
func MnemonicToSeed(mnemonic, passphrase string) ([]byte, error) {
	normalized := NormalizeMnemonic(mnemonic)
	if !bip39.IsMnemonicValid(normalized) {
		return nil, stakeerr.ErrInvalidMnemonic
	}
	return bip39.NewSeed(normalized, passphrase), nil
}

// IsValidWord checks if a word is in the BIP39 English word list.
func IsValidWord(word string) bool {
	word = strings.ToLower(word)
	for _, w := range bip39.GetWordList() {
		if w == word {
			return true
		}
	}
	return false
}

// MaxTypoDistance is the maximum Levenshtein distance to consider a
// suggestion. Words further away are too different to suggest.
const MaxTypoDistance = 2

// TypoInfo describes a word that is not in the BIP39 word list and its
// closest suggestion.
type TypoInfo struct {
	// Index is the word position in the mnemonic (0-based).
	Index int
	// Word is the original (possibly misspelled) word.
	Word string
	// Suggestion is the closest BIP39 word, or empty if none is close enough.
	Suggestion string
}

// SuggestWord finds the closest BIP39 word to the input using Levenshtein
// distance. Returns empty string if no word is within MaxTypoDistance.
func SuggestWord(input string) string {
	input = strings.ToLower(input)

	minDist := math.MaxInt
	var suggestion string

	for _, word := range bip39.GetWordList() {
		dist := levenshtein.ComputeDistance(input, word)
		if dist < minDist {
			minDist = dist
			suggestion = word
		}
		if dist == 0 {
			return word
		}
	}

	if minDist <= MaxTypoDistance {
		return suggestion
	}
	return ""
}

// DetectTypos scans a mnemonic phrase for words outside the BIP39 word list
// and suggests corrections.
func DetectTypos(mnemonic string) []TypoInfo {
	if mnemonic == "" {
		return nil
	}

	words := strings.Fields(NormalizeMnemonic(mnemonic))
	var typos []TypoInfo

	for i, word := range words {
		if !IsValidWord(word) {
			typos = append(typos, TypoInfo{
				Index:      i,
				Word:       word,
				Suggestion: SuggestWord(word),
			})
		}
	}

	return typos
}

// FormatTypoSuggestions formats typo information into human-readable
// suggestions, one per line.
func FormatTypoSuggestions(typos []TypoInfo) string {
	if len(typos) == 0 {
		return ""
	}

	var b strings.Builder
	for i, typo := range typos {
		if i > 0 {
			b.WriteByte('\n')
		}
		// Word position is 1-indexed for human readability
		b.WriteString("word ")
		b.WriteString(itoa(typo.Index + 1))
		b.WriteString(": '")
		b.WriteString(typo.Word)
		b.WriteByte('\'')
		if typo.Suggestion != "" {
			b.WriteString(" - did you mean '")
			b.WriteString(typo.Suggestion)
			b.WriteString("'?")
		} else {
			b.WriteString(" is not a valid BIP39 word")
		}
	}
	return b.String()
}

// itoa converts a non-negative int to string without importing strconv.
func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var digits []byte
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	return string(digits)
}
