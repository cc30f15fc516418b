package notify

import (
	"context"
	"fmt"

	"github.com/atf-io/voicehub-sub001/pkg/logging"
)

// Service composes user-facing notifications on top of an EmailSender.
type Service struct {
	sender  EmailSender
	appName string
	baseURL string
	logger  *logging.Logger
}

type ServiceConfig struct {
	Sender  EmailSender
	AppName string
	BaseURL string
	Logger  *logging.Logger
}

func NewService(cfg ServiceConfig) *Service {
	if cfg.Sender == nil {
		cfg.Sender = NewStubEmailSender(cfg.Logger)
	}
	if cfg.AppName == "" {
		cfg.AppName = "Voicehub"
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}
	return &Service{
		sender:  cfg.Sender,
		appName: cfg.AppName,
		baseURL: cfg.BaseURL,
		logger:  cfg.Logger,
	}
}

// SendWelcome greets a newly registered user.
func (s *Service) SendWelcome(ctx context.Context, email, name string) error {
	greeting := "Hi"
	if name != "" {
		greeting = "Hi " + name
	}
	body := fmt.Sprintf("%s,\n\nYour %s account is ready. Sign in at %s to set up your first voice agent.\n\nThe %s team",
		greeting, s.appName, s.baseURL, s.appName)

	return s.sender.Send(ctx, EmailMessage{
		To:      email,
		ToName:  name,
		Subject: fmt.Sprintf("Welcome to %s", s.appName),
		Body:    body,
	})
}
