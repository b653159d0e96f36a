package whitelist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestIsWhitelisted(t *testing.T) {
	checker := NewChecker([]string{" Example.com ", "bank.example", ""}, zap.NewNop())

	tests := []struct {
		from string
		want bool
	}{
		{"alice@example.com", true},
		{"Alice <ALICE@EXAMPLE.COM>", true},
		{"\"Bank\" <alerts@bank.example>", true},
		{"alice@sub.example.com", false},
		{"alice@example.org", false},
		{"not an address", false},
		{"trailing@", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.from, func(t *testing.T) {
			assert.Equal(t, tt.want, checker.IsWhitelisted(tt.from))
		})
	}
}

func TestIsWhitelisted_NoDomains(t *testing.T) {
	checker := NewChecker(nil, nil)
	assert.False(t, checker.IsWhitelisted("alice@example.com"))
}
