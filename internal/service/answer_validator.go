package service

import (
	"strings"
	"unicode"
)

// DefaultNumericLine is the line whose answers are digit sequences.
const DefaultNumericLine = 8

type AnswerValidator interface {
	Validate(line int, answerSpec string, submitted string) bool
}

type answerValidator struct {
	numericLine int
}

func NewAnswerValidator(numericLine int) AnswerValidator {
	return &answerValidator{numericLine: numericLine}
}

// Validate compares the normalised submission against every accepted variant
// in the pipe-delimited answer spec. Only exact matches count.
func (v *answerValidator) Validate(line int, answerSpec string, submitted string) bool {
	var got string
	if line == v.numericLine {
		got = digitsOnly(submitted)
	} else {
		got = normalizeText(submitted)
	}
	if got == "" {
		return false
	}
	for _, variant := range AcceptedVariants(answerSpec) {
		if variant == got {
			return true
		}
	}
	return false
}

// AcceptedVariants splits a stored answer spec into normalised variants.
func AcceptedVariants(answerSpec string) []string {
	var variants []string
	for _, part := range strings.Split(answerSpec, "|") {
		if v := normalizeText(part); v != "" {
			variants = append(variants, v)
		}
	}
	return variants
}

func normalizeText(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
