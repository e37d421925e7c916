package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeConfidence(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want float64
	}{
		{"negative clamps to zero", -0.5, 0.0},
		{"above one clamps to one", 1.2, 1.0},
		{"excess precision rounds", 0.9632000000000001, 0.9632},
		{"rounds half up", 0.12345, 0.1235},
		{"zero passes through", 0.0, 0.0},
		{"one passes through", 1.0, 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, sanitizeConfidence(tt.in), 1e-9)
		})
	}
}
