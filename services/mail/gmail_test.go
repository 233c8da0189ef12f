package mail

import (
	"mime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marta/models"
)

func TestBuildMIME(t *testing.T) {
	raw := BuildMIME(models.OutgoingEmail{
		To:      "juan@acme.com",
		Subject: "Presentación de los servicios de datanalisis.io",
		Body:    "Estimado Juan:\n\nSaludos.",
	})

	assert.True(t, strings.HasPrefix(raw, "To: juan@acme.com\r\n"))
	assert.Contains(t, raw, "Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	assert.NotContains(t, raw, "Cc:")
	assert.True(t, strings.HasSuffix(raw, "\r\nEstimado Juan:\n\nSaludos."))

	// The accented subject must travel RFC 2047-encoded and decode back to
	// the original.
	subject := headerValue(t, raw, "Subject")
	assert.Contains(t, subject, "=?UTF-8?")
	decoded, err := new(mime.WordDecoder).DecodeHeader(subject)
	require.NoError(t, err)
	assert.Equal(t, "Presentación de los servicios de datanalisis.io", decoded)
}

func TestBuildMIMEHeadersAreASCII(t *testing.T) {
	raw := BuildMIME(models.OutgoingEmail{
		To:      "juan@acme.com",
		Subject: "Reunión de seguimiento, ¿mañana?",
		Body:    "cuerpo con acentos: sí",
	})

	headers, _, ok := strings.Cut(raw, "\r\n\r\n")
	require.True(t, ok)
	for _, r := range headers {
		assert.Less(t, r, rune(128), "header section must be ASCII only")
	}
}

func TestBuildMIMEThreading(t *testing.T) {
	raw := BuildMIME(models.OutgoingEmail{
		To:        "ana@cliente.com",
		CC:        "mmendez@datanalisis.io",
		Subject:   "Re: Propuesta",
		Body:      "ok",
		InReplyTo: "<abc123@mail.gmail.com>",
	})

	// Plain ASCII subjects stay readable as-is.
	assert.Contains(t, raw, "Subject: Re: Propuesta\r\n")
	assert.Contains(t, raw, "Cc: mmendez@datanalisis.io\r\n")
	assert.Contains(t, raw, "In-Reply-To: <abc123@mail.gmail.com>\r\n")
	assert.Contains(t, raw, "References: <abc123@mail.gmail.com>\r\n")
}

func TestClampPageSize(t *testing.T) {
	assert.Equal(t, int64(defaultPageSize), clampPageSize(0))
	assert.Equal(t, int64(defaultPageSize), clampPageSize(-5))
	assert.Equal(t, int64(10), clampPageSize(10))
	assert.Equal(t, int64(maxPageSize), clampPageSize(500))
}

func TestSplitAddress(t *testing.T) {
	name, email := splitAddress(`"Ana López" <ana@cliente.com>`)
	assert.Equal(t, "Ana López", name)
	assert.Equal(t, "ana@cliente.com", email)

	name, email = splitAddress("luis@cliente.com")
	assert.Equal(t, "luis@cliente.com", name)
	assert.Equal(t, "luis@cliente.com", email)

	name, email = splitAddress("<solo@cliente.com>")
	assert.Equal(t, "solo@cliente.com", name)
	assert.Equal(t, "solo@cliente.com", email)
}

func headerValue(t *testing.T, raw, name string) string {
	t.Helper()
	headers, _, ok := strings.Cut(raw, "\r\n\r\n")
	require.True(t, ok)
	for _, line := range strings.Split(headers, "\r\n") {
		if v, found := strings.CutPrefix(line, name+": "); found {
			return v
		}
	}
	t.Fatalf("header %s not found", name)
	return ""
}
