package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mrz1836/postmark"
	"go.uber.org/zap"

	"github.com/spec-kit/marketplace-service/internal/config"
)

// ErrSendFailed wraps delivery failures reported by the provider.
var ErrSendFailed = errors.New("notify: failed to send email")

// Email is a transactional message.
type Email struct {
	To       string `json:"to"`
	Subject  string `json:"subject"`
	TextBody string `json:"text_body"`
	HTMLBody string `json:"html_body,omitempty"`
	Tag      string `json:"tag,omitempty"`
}

// Validate rejects messages the provider would bounce.
func (e Email) Validate() error {
	if strings.TrimSpace(e.To) == "" {
		return errors.New("notify: recipient is required")
	}
	if strings.TrimSpace(e.Subject) == "" {
		return errors.New("notify: subject is required")
	}
	if e.TextBody == "" && e.HTMLBody == "" {
		return errors.New("notify: body is required")
	}
	return nil
}

// Sender delivers emails.
type Sender interface {
	Send(ctx context.Context, email Email) error
}

// PostmarkAPI is the slice of the Postmark client used by PostmarkSender.
type PostmarkAPI interface {
	SendEmail(ctx context.Context, email postmark.Email) (postmark.EmailResponse, error)
}

// PostmarkSender sends through Postmark's transactional API.
type PostmarkSender struct {
	client  PostmarkAPI
	from    string
	replyTo string
}

// NewSender picks Postmark when a server token is configured and a log-only sender otherwise.
func NewSender(cfg config.EmailConfig, logger *zap.Logger) Sender {
	if cfg.PostmarkServerToken == "" {
		return NewLogSender(logger)
	}
	return NewPostmarkSender(postmark.NewClient(cfg.PostmarkServerToken, cfg.PostmarkAccountToken), cfg)
}

// NewPostmarkSender wraps an existing client.
func NewPostmarkSender(client PostmarkAPI, cfg config.EmailConfig) *PostmarkSender {
	return &PostmarkSender{client: client, from: cfg.From, replyTo: cfg.ReplyTo}
}

// Send implements Sender.
func (s *PostmarkSender) Send(ctx context.Context, email Email) error {
	if err := email.Validate(); err != nil {
		return err
	}
	resp, err := s.client.SendEmail(ctx, postmark.Email{
		From:       s.from,
		ReplyTo:    s.replyTo,
		To:         email.To,
		Subject:    email.Subject,
		Tag:        email.Tag,
		TextBody:   email.TextBody,
		HTMLBody:   email.HTMLBody,
		TrackOpens: true,
	})
	if err != nil {
		return errors.Join(ErrSendFailed, err)
	}
	if resp.ErrorCode > 0 {
		return fmt.Errorf("%w: code %d: %s", ErrSendFailed, resp.ErrorCode, resp.Message)
	}
	return nil
}

// LogSender writes emails to the log instead of delivering them.
type LogSender struct {
	logger *zap.Logger
}

// NewLogSender is used in development when no provider is configured.
func NewLogSender(logger *zap.Logger) *LogSender {
	return &LogSender{logger: logger}
}

// Send implements Sender.
func (s *LogSender) Send(_ context.Context, email Email) error {
	if err := email.Validate(); err != nil {
		return err
	}
	s.logger.Info("email",
		zap.String("to", email.To),
		zap.String("subject", email.Subject),
		zap.String("tag", email.Tag),
		zap.String("body", email.TextBody))
	return nil
}
