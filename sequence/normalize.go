package sequence

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/teranos/plaszyme/errors"
)

// MinLength is the shortest sequence accepted as a query.
const MinLength = 10

var (
	// ErrEmptyInput is returned for blank input.
	ErrEmptyInput = errors.New("empty sequence")

	// ErrTooShort is returned when fewer than MinLength residues remain after cleaning.
	ErrTooShort = errors.New("sequence too short")

	// ErrInvalidFormat is returned when characters outside the amino-acid alphabet survive cleaning.
	ErrInvalidFormat = errors.New("invalid protein sequence format")
)

// Sequence is a cleaned, validated, uppercase residue string.
type Sequence string

// Len returns the number of residues.
func (s Sequence) Len() int { return len(s) }

// String returns the residues.
func (s Sequence) String() string { return string(s) }

// Clean drops FASTA header lines and blank lines, concatenates the rest,
// strips all whitespace and uppercases ASCII letters. Other runes pass
// through unchanged so validation rejects them. It does not validate.
func Clean(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || line[0] == '>' {
			continue
		}
		for _, r := range line {
			if unicode.IsSpace(r) {
				continue
			}
			if 'a' <= r && r <= 'z' {
				r -= 'a' - 'A'
			}
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Normalize cleans raw input and validates it as a protein sequence.
// Length is checked before the alphabet, so "AC1" reports ErrTooShort.
func Normalize(raw string) (Sequence, error) {
	if strings.TrimSpace(raw) == "" {
		return "", errors.WithHint(ErrEmptyInput, "please provide a protein sequence")
	}

	cleaned := Clean(raw)

	if len(cleaned) < MinLength {
		return "", errors.WithHintf(
			errors.Wrapf(ErrTooShort, "%d residues", len(cleaned)),
			"at least %d amino acids required", MinLength)
	}

	pos := 0
	for i, r := range cleaned {
		pos++
		if r >= utf8.RuneSelf || !IsResidue(cleaned[i]) {
			return "", errors.WithHint(
				errors.Wrapf(ErrInvalidFormat, "unexpected %q at position %d", r, pos),
				"only the 20 standard amino-acid letters and X are allowed")
		}
	}

	return Sequence(cleaned), nil
}
