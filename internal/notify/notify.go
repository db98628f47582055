// Package notify sends SMS to clients.
package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/Saad-Labelenergie/CRM.2.0-sub000/internal/config"
)

var ErrInvalidPhone = errors.New("invalid phone number")

type Notifier interface {
	Send(ctx context.Context, to, body string) error
}

// New returns the Twilio notifier when enabled, a logging one otherwise.
func New(log *slog.Logger, cfg config.Twilio) Notifier {
	if !cfg.Enabled {
		return &LogNotifier{log: log}
	}
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.AccountSID,
		Password: cfg.AuthToken,
	})
	return &Twilio{api: client.Api, from: cfg.From, log: log}
}

type messageCreator interface {
	CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error)
}

type Twilio struct {
	api  messageCreator
	from string
	log  *slog.Logger
}

func (t *Twilio) Send(ctx context.Context, to, body string) error {
	const op = "notify.Twilio.Send"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	phone, err := NormalizePhone(to)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(phone)
	params.SetFrom(t.from)
	params.SetBody(body)

	resp, err := t.api.CreateMessage(params)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if resp != nil && resp.Sid != nil {
		t.log.Debug("sms sent", slog.String("to", phone), slog.String("sid", *resp.Sid))
	}
	return nil
}

// LogNotifier only logs messages. Used when no SMS provider is configured.
type LogNotifier struct {
	log *slog.Logger
}

func NewLogNotifier(log *slog.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (l *LogNotifier) Send(_ context.Context, to, body string) error {
	phone, err := NormalizePhone(to)
	if err != nil {
		return fmt.Errorf("notify.LogNotifier.Send: %w", err)
	}
	l.log.Info("sms (not sent)", slog.String("to", phone), slog.String("body", body))
	return nil
}

// NormalizePhone returns raw in E.164 form. National French numbers
// ("06 12 34 56 78") get the +33 prefix.
func NormalizePhone(raw string) (string, error) {
	s := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '.', '-', '(', ')', '\u00a0':
			return -1
		}
		return r
	}, raw)

	switch {
	case strings.HasPrefix(s, "+"):
	case strings.HasPrefix(s, "00"):
		s = "+" + s[2:]
	case len(s) == 10 && s[0] == '0':
		s = "+33" + s[1:]
	case len(s) == 9 && s[0] != '0':
		s = "+33" + s
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidPhone, raw)
	}

	digits := s[1:]
	if len(digits) < 8 || len(digits) > 15 || strings.Trim(digits, "0123456789") != "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidPhone, raw)
	}
	// +33 0x: drop the trunk zero
	if strings.HasPrefix(s, "+330") {
		s = "+33" + s[4:]
	}
	return s, nil
}
