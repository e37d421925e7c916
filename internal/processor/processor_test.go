package processor

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/scandex/ocrcompare-worker/internal/ocr"
)

func TestDetectMimeTypeFromMagicBytes(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want string
	}{
		{"pdf", []byte("%PDF-1.7 ..."), "application/pdf"},
		{"png", []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0x00}, "image/png"},
		{"jpeg", []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00}, "image/jpeg"},
		{"gif", []byte("GIF89a......"), "image/gif"},
		{"tiff little endian", []byte{0x49, 0x49, 0x2A, 0x00, 0x01}, "image/tiff"},
		{"tiff big endian", []byte{0x4D, 0x4D, 0x00, 0x2A, 0x01}, "image/tiff"},
		{"bmp", []byte("BM....."), "image/bmp"},
		{"webp", append([]byte("RIFF\x00\x00\x00\x00WEBP"), 0x00), "image/webp"},
		{"unknown", []byte("hello plain text"), ""},
		{"too short", []byte{0x89}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, detectMimeTypeFromMagicBytes(tt.data))
		})
	}
}

func TestReconcile(t *testing.T) {
	left := &ocr.Result{Engine: ocr.EngineTesseract, Text: "local", Confidence: 0.6}
	right := &ocr.Result{Engine: ocr.EngineVision, Text: "remote", Confidence: 0.9}

	t.Run("higher confidence wins", func(t *testing.T) {
		assert.Equal(t, right, reconcile(left, right, ""))
	})

	t.Run("tie goes to left", func(t *testing.T) {
		tied := &ocr.Result{Engine: ocr.EngineVision, Confidence: 0.6}
		assert.Equal(t, left, reconcile(left, tied, ""))
	})

	t.Run("explicit preference overrides confidence", func(t *testing.T) {
		assert.Equal(t, left, reconcile(left, right, "tesseract"))
		assert.Equal(t, right, reconcile(left, right, "vision"))
	})

	t.Run("unknown preference falls back to confidence", func(t *testing.T) {
		assert.Equal(t, right, reconcile(left, right, "easyocr"))
	})
}

func TestPreferredEngine(t *testing.T) {
	assert.Equal(t, "", preferredEngine(nil))
	assert.Equal(t, "", preferredEngine(map[string]interface{}{}))
	assert.Equal(t, "", preferredEngine(map[string]interface{}{"preferEngine": 42}))
	assert.Equal(t, "vision", preferredEngine(map[string]interface{}{"preferEngine": "vision"}))
}

func TestValidateInput(t *testing.T) {
	p := &DocumentProcessor{config: &ProcessorConfig{MaxFileSize: 100}}

	t.Run("supported image", func(t *testing.T) {
		err := p.validateInput(&ProcessRequest{JobID: "j1", MimeType: "image/png"}, make([]byte, 50))
		assert.NoError(t, err)
	})

	t.Run("supported pdf", func(t *testing.T) {
		err := p.validateInput(&ProcessRequest{JobID: "j1", MimeType: "application/pdf"}, make([]byte, 50))
		assert.NoError(t, err)
	})

	t.Run("oversized file", func(t *testing.T) {
		err := p.validateInput(&ProcessRequest{JobID: "j1", MimeType: "image/png"}, make([]byte, 101))
		assert.ErrorContains(t, err, "FILE_TOO_LARGE")
	})

	t.Run("unsupported format", func(t *testing.T) {
		err := p.validateInput(&ProcessRequest{JobID: "j1", MimeType: "application/msword"}, make([]byte, 50))
		assert.ErrorContains(t, err, "UNSUPPORTED_FORMAT")
	})
}

func TestBuildChunksTagsPages(t *testing.T) {
	p := &DocumentProcessor{config: &ProcessorConfig{ChunkSize: 40, ChunkOverlap: 0}}

	pages := []ocr.Page{
		{PageNumber: 1, Text: "first page words here for testing today"},
		{PageNumber: 2, Text: "second page words here for testing also"},
	}
	cleaned := pages[0].Text + "\n\n" + pages[1].Text

	chunks := p.buildChunks(cleaned, pages)
	assert.GreaterOrEqual(t, len(chunks), 2)
	assert.Equal(t, 1, chunks[0].PageNumber)
	assert.Equal(t, 2, chunks[len(chunks)-1].PageNumber)
	for _, c := range chunks {
		assert.NotEmpty(t, c.Content)
	}
}
