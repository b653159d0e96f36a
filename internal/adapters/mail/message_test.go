package mail

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMessage_PlainText(t *testing.T) {
	raw := `From: Alice <alice@example.com>
To: bob@example.com, Carol <carol@example.com>
Subject: Lunch on Friday
Content-Type: text/plain; charset=utf-8

Are you free for lunch on Friday?`

	email, err := ParseMessage(strings.NewReader(raw))

	require.NoError(t, err)
	assert.Equal(t, "Alice <alice@example.com>", email.From)
	assert.Equal(t, "Lunch on Friday", email.Subject)
	assert.Contains(t, email.Body, "Are you free for lunch on Friday?")
	assert.Equal(t, []string{"bob@example.com", "carol@example.com"}, email.To)
	assert.NotEmpty(t, email.Headers["Subject"])
}

func TestParseMessage_MultipartPrefersText(t *testing.T) {
	raw := `From: news@shop.example
To: me@example.com
Subject: =?UTF-8?B?U2FsZSDinJM=?=
MIME-Version: 1.0
Content-Type: multipart/alternative; boundary="b1"

--b1
Content-Type: text/plain; charset=utf-8

Plain sale text.

--b1
Content-Type: text/html; charset=utf-8

<html><body><p>HTML sale text.</p></body></html>

--b1--`

	email, err := ParseMessage(strings.NewReader(raw))

	require.NoError(t, err)
	assert.Equal(t, "Sale ✓", email.Subject)
	assert.Contains(t, email.Body, "Plain sale text.")
	assert.NotContains(t, email.Body, "<p>")
}

func TestParseMessage_HTMLOnly(t *testing.T) {
	raw := `From: news@shop.example
Subject: Deals
Content-Type: text/html; charset=utf-8

<html><body><h1>Big deals</h1></body></html>`

	email, err := ParseMessage(strings.NewReader(raw))

	require.NoError(t, err)
	assert.Contains(t, email.Body, "Big deals")
	assert.NotContains(t, email.Body, "<h1>")
	assert.Empty(t, email.To)
}
