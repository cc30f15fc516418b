package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureSender struct {
	last EmailMessage
	err  error
}

func (c *captureSender) Send(_ context.Context, msg EmailMessage) error {
	c.last = msg
	return c.err
}

func TestSendWelcome(t *testing.T) {
	sender := &captureSender{}
	svc := NewService(ServiceConfig{Sender: sender, AppName: "Voicehub", BaseURL: "https://app.voicehub.io"})

	require.NoError(t, svc.SendWelcome(context.Background(), "new@example.com", "Sam"))
	assert.Equal(t, "new@example.com", sender.last.To)
	assert.Equal(t, "Welcome to Voicehub", sender.last.Subject)
	assert.Contains(t, sender.last.Body, "Hi Sam")
	assert.Contains(t, sender.last.Body, "https://app.voicehub.io")
}

func TestSendWelcomePropagatesError(t *testing.T) {
	sender := &captureSender{err: errors.New("smtp down")}
	svc := NewService(ServiceConfig{Sender: sender})

	assert.Error(t, svc.SendWelcome(context.Background(), "new@example.com", ""))
}

func TestServiceDefaultsToStub(t *testing.T) {
	svc := NewService(ServiceConfig{})
	assert.NoError(t, svc.SendWelcome(context.Background(), "new@example.com", ""))
}
