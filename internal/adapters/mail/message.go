package mail

import (
	"bytes"
	"fmt"
	"io"

	"github.com/jhillyerd/enmime"
	"github.com/mikey/llm-mail-triage/internal/core"
)

// ParseMessage parses an RFC 5322 message into an Email. The body is the
// plain text part, or text converted from HTML when there is none.
func ParseMessage(r io.Reader) (*core.Email, error) {
	env, err := enmime.ReadEnvelope(r)
	if err != nil {
		return nil, fmt.Errorf("parsing message: %w", err)
	}

	email := &core.Email{
		From:    env.GetHeader("From"),
		Subject: env.GetHeader("Subject"),
		Body:    env.Text,
		Headers: make(map[string][]string),
	}

	if to, err := env.AddressList("To"); err == nil {
		for _, addr := range to {
			email.To = append(email.To, addr.Address)
		}
	}

	for _, key := range env.GetHeaderKeys() {
		email.Headers[key] = env.GetHeaderValues(key)
	}

	return email, nil
}

// parseRaw parses a message fetched as raw bytes
func parseRaw(raw []byte) (*core.Email, error) {
	return ParseMessage(bytes.NewReader(raw))
}
