package notification

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/BruksfildServices01/barber-booking/internal/config"
	"github.com/BruksfildServices01/barber-booking/internal/validators"
)

// Deliverer puts a message in front of the client.
type Deliverer interface {
	Deliver(ctx context.Context, to, title, body string) error
}

// ======================================================
// Twilio (WhatsApp)
// ======================================================

type TwilioDeliverer struct {
	client *twilio.RestClient
	from   string
	log    zerolog.Logger
}

func NewTwilioDeliverer(cfg config.Twilio, log zerolog.Logger) *TwilioDeliverer {
	return &TwilioDeliverer{
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: cfg.AccountSID,
			Password: cfg.AuthToken,
		}),
		from: cfg.WhatsAppNumber,
		log:  log.With().Str("component", "twilio").Logger(),
	}
}

func (d *TwilioDeliverer) Deliver(ctx context.Context, to, title, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo("whatsapp:" + E164(to))
	params.SetFrom("whatsapp:" + E164(d.from))
	params.SetBody(title + "\n" + body)

	resp, err := d.client.Api.CreateMessage(params)
	if err != nil {
		return fmt.Errorf("twilio send: %w", err)
	}

	if resp.Sid != nil {
		d.log.Info().Str("sid", *resp.Sid).Msg("whatsapp message sent")
	}
	return nil
}

// E164 formats a local WhatsApp number for Brazil. Numbers already carrying
// a country code are left alone.
func E164(phone string) string {
	phone = strings.TrimSpace(phone)
	if strings.HasPrefix(phone, "+") {
		return "+" + validators.NormalizePhone(phone)
	}
	digits := validators.NormalizePhone(phone)
	if len(digits) == validators.WhatsAppDigits {
		return "+55" + digits
	}
	return "+" + digits
}

// ======================================================
// Log only
// ======================================================

// LogDeliverer is used when no messaging provider is configured.
type LogDeliverer struct {
	log zerolog.Logger
}

func NewLogDeliverer(log zerolog.Logger) *LogDeliverer {
	return &LogDeliverer{log: log.With().Str("component", "notification").Logger()}
}

func (d *LogDeliverer) Deliver(_ context.Context, to, title, body string) error {
	d.log.Info().Str("to", to).Str("title", title).Str("body", body).Msg("notification")
	return nil
}
