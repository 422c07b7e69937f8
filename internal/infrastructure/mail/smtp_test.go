package mail

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eduportal/academic-api/internal/core/ports"
)

func TestBuildResetMessage(t *testing.T) {
	msg := ports.ResetEmail{
		To:       "alice@example.com",
		Name:     "Alice",
		ResetURL: "http://localhost:3000/reset-password/abc123",
	}

	out, err := buildResetMessage("no-reply@example.com", msg)
	require.NoError(t, err)

	var buf bytes.Buffer
	_, err = out.WriteTo(&buf)
	require.NoError(t, err)

	raw := buf.String()
	assert.Contains(t, raw, "alice@example.com")
	assert.Contains(t, raw, "Subject: "+resetSubject)
	assert.Contains(t, raw, "reset-password/abc123")
	assert.Contains(t, raw, "text/html")
}

func TestBuildResetMessage_InvalidAddress(t *testing.T) {
	_, err := buildResetMessage("no-reply@example.com", ports.ResetEmail{To: "not an address"})
	assert.Error(t, err)
}

func TestLogMailer(t *testing.T) {
	var buf bytes.Buffer
	m := NewLogMailer(zerolog.New(&buf))

	err := m.SendPasswordReset(context.Background(), ports.ResetEmail{To: "a@x.io", ResetURL: "http://x/reset-password/t"})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `"recipient":"a@x.io"`)
	assert.Contains(t, buf.String(), "reset-password/t")
}
