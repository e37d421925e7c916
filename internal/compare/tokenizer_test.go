package compare

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "page header with punctuation",
			text: "Page 1: Hello, World!",
			want: []string{"Page", "1", "Hello", "World"},
		},
		{
			name: "empty input",
			text: "",
			want: nil,
		},
		{
			name: "whitespace only",
			text: "   \n\t  ",
			want: nil,
		},
		{
			name: "punctuation only",
			text: "... !? ---",
			want: nil,
		},
		{
			name: "underscore joins tokens",
			text: "invoice_total: 42",
			want: []string{"invoice_total", "42"},
		},
		{
			name: "non-latin scripts",
			text: "請求書 No.123 合計",
			want: []string{"請求書", "No", "123", "合計"},
		},
		{
			name: "no case folding",
			text: "OCR ocr Ocr",
			want: []string{"OCR", "ocr", "Ocr"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Tokenize(tt.text))
		})
	}
}

func TestTokenizeDeterministic(t *testing.T) {
	text := "Page 2 of 300 — invoice #A-17, total ¥12,500"
	first := Tokenize(text)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Tokenize(text))
	}
}
