package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestTruncateText(t *testing.T) {
	tp := NewTextProcessor(zap.NewNop())

	tests := []struct {
		name     string
		text     string
		maxChars int
		want     string
	}{
		{"shorter", "hello", 10, "hello"},
		{"exact", "hello", 5, "hello"},
		{"longer", "hello world", 5, "hello"},
		{"multibyte", "héllo wörld", 7, "héllo w"},
		{"no limit", "hello", 0, "hello"},
		{"empty", "", 3, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tp.TruncateText(tt.text, tt.maxChars))
		})
	}
}

func TestTruncateText_NoSuffix(t *testing.T) {
	tp := NewTextProcessor(zap.NewNop())

	got := tp.TruncateText(strings.Repeat("a", 1500), 1000)

	assert.Equal(t, strings.Repeat("a", 1000), got)
}

func TestSanitizeUTF8(t *testing.T) {
	tp := NewTextProcessor(zap.NewNop())

	assert.Equal(t, "valid ✓", tp.SanitizeUTF8("valid ✓"))
	assert.Equal(t, "ab", tp.SanitizeUTF8("a\xffb"))
	assert.Equal(t, "� kept", tp.SanitizeUTF8("� kept"))
}

func TestProcessText(t *testing.T) {
	tp := NewTextProcessor(zap.NewNop())

	assert.Equal(t, "abc", tp.ProcessText("a\xffbcdef", 3))
}
