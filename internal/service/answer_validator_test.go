package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidate(t *testing.T) {
	v := NewAnswerValidator(DefaultNumericLine)

	tests := []struct {
		name      string
		line      int
		answer    string
		submitted string
		want      bool
	}{
		{"numeric with prefix", 8, "146", "Ответ: 146", true},
		{"numeric spaced digits", 8, "146", "1 4 6", true},
		{"numeric shorter expected answer", 8, "14", "146", false},
		{"numeric second variant", 8, "146|164", "164", true},
		{"numeric no digits", 8, "146", "не знаю", false},
		{"text case insensitive", 1, "онегин|евгений онегин", "Онегин", true},
		{"text second variant", 1, "онегин|евгений онегин", "  Евгений Онегин ", true},
		{"text translation rejected", 1, "онегин|евгений онегин", "eugene onegin", false},
		{"text punctuation kept", 2, "онегин", "онегин.", false},
		{"text word order kept", 2, "евгений онегин", "онегин евгений", false},
		{"variants stored with spaces", 3, " Метафора | эпитет ", "эпитет", true},
		{"empty submission", 3, "метафора", "   ", false},
		{"digits on text line are literal", 6, "146", "ответ 146", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, v.Validate(tt.line, tt.answer, tt.submitted))
		})
	}
}

func TestAcceptedVariants(t *testing.T) {
	assert.Equal(t, []string{"онегин", "евгений онегин"}, AcceptedVariants("Онегин| Евгений Онегин |"))
	assert.Empty(t, AcceptedVariants(" | "))
}
