package textutil

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanOCRText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "empty",
			in:   "",
			want: "",
		},
		{
			name: "fullwidth folds to halfwidth",
			in:   "合計：１２５００円",
			want: "合計:12500円",
		},
		{
			name: "whitespace collapses",
			in:   "hello    world\t\tagain",
			want: "hello world again",
		},
		{
			name: "blank line runs collapse",
			in:   "para one\n\n\n\n\npara two",
			want: "para one\n\npara two",
		},
		{
			name: "control characters stripped",
			in:   "inv\x00oice\x07 total",
			want: "invoice total",
		},
		{
			name: "lines trimmed",
			in:   "  leading\ntrailing  \n",
			want: "leading\ntrailing",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanOCRText(tt.in))
		})
	}
}

func TestChunkTextShortInput(t *testing.T) {
	chunks := ChunkText("short text", 1000, 200)
	assert.Equal(t, []string{"short text"}, chunks)
	assert.Nil(t, ChunkText("", 1000, 200))
}

func TestChunkTextCoversInput(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 120; i++ {
		sb.WriteString("This is sentence number one of the scanned document. ")
	}
	text := strings.TrimSpace(sb.String())

	chunks := ChunkText(text, 1000, 200)
	require.Greater(t, len(chunks), 1)

	for i, chunk := range chunks {
		n := len([]rune(chunk))
		assert.LessOrEqual(t, n, 1000, "chunk %d too long", i)
		assert.NotEmpty(t, chunk)
	}

	// Overlapping chunks still cover the whole input.
	assert.True(t, strings.HasPrefix(text, chunks[0][:40]))
	last := chunks[len(chunks)-1]
	assert.True(t, strings.HasSuffix(text, last[len(last)-40:]))
}

func TestChunkTextPrefersParagraphBreaks(t *testing.T) {
	para := strings.Repeat("word ", 120)
	text := strings.TrimSpace(para) + "\n\n" + strings.TrimSpace(para)

	chunks := ChunkText(text, 700, 0)
	require.GreaterOrEqual(t, len(chunks), 2)
	assert.False(t, strings.Contains(chunks[0], "\n\n"))
}

func TestChunkTextAlwaysAdvances(t *testing.T) {
	// No whitespace at all forces hard cuts; the splitter must not loop.
	text := strings.Repeat("x", 5000)
	chunks := ChunkText(text, 1000, 999)
	require.NotEmpty(t, chunks)
	total := 0
	for _, c := range chunks {
		total += len(c)
	}
	assert.GreaterOrEqual(t, total, 5000)
}

func TestExtractKeywords(t *testing.T) {
	text := "Invoice invoice INVOICE total total tax a an of"
	got := ExtractKeywords(text, 2, 3)
	assert.Equal(t, []string{"invoice", "total"}, got)

	assert.Nil(t, ExtractKeywords("", 5, 3))
	assert.Nil(t, ExtractKeywords("a b c", 5, 3))
}

func TestExtractKeywordsStableOrder(t *testing.T) {
	text := "alpha beta gamma alpha beta gamma"
	first := ExtractKeywords(text, 3, 3)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, ExtractKeywords(text, 3, 3))
	}
	assert.Equal(t, []string{"alpha", "beta", "gamma"}, first)
}
