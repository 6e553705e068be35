// Package messaging builds outbound WhatsApp greeting links and hands them to
// a composer. Delivery is fire-and-forget: composer failures are logged and
// never reach the caller.
package messaging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"strings"
	"unicode"

	"github.com/aceweb/agencyops/internal/domain/validation"
)

const (
	DefaultAgency      = "AceWeb"
	DefaultCountryCode = "55"

	greetingTemplate = "Olá %s, tudo bem? Sou da %s e gostaria de falar sobre o nosso projeto."
)

// Link is a ready-to-open chat composer address.
type Link struct {
	Phone   string `json:"phone"`
	Message string `json:"message"`
	URL     string `json:"url"`
}

// Greeter formats the fixed greeting for one agency.
type Greeter struct {
	Agency      string
	CountryCode string
}

// Greeting renders the greeting for name.
func (g Greeter) Greeting(name string) string {
	agency := g.Agency
	if agency == "" {
		agency = DefaultAgency
	}
	return fmt.Sprintf(greetingTemplate, strings.TrimSpace(name), agency)
}

// Link builds the wa.me address for phone. Non-digits are stripped and the
// country code is always prefixed. A phone without digits is rejected.
func (g Greeter) Link(phone, name string) (Link, error) {
	digits := strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, phone)
	if digits == "" {
		return Link{}, validation.New("phone", "no phone number on record")
	}

	country := g.CountryCode
	if country == "" {
		country = DefaultCountryCode
	}
	msg := g.Greeting(name)
	return Link{
		Phone:   country + digits,
		Message: msg,
		URL:     "https://wa.me/" + country + digits + "?text=" + strings.ReplaceAll(url.QueryEscape(msg), "+", "%20"),
	}, nil
}

// Composer receives a link for delivery.
type Composer interface {
	Compose(ctx context.Context, link Link) error
}

// LogComposer records links in the log. It is the default when no chat
// integration is configured.
type LogComposer struct {
	Logger *slog.Logger
}

// Compose logs the link.
func (c LogComposer) Compose(ctx context.Context, link Link) error {
	if c.Logger != nil {
		c.Logger.InfoContext(ctx, "greeting link ready", "phone", link.Phone, "url", link.URL)
	}
	return nil
}

// Dispatcher builds greeting links and passes them to a composer.
type Dispatcher struct {
	greeter  Greeter
	composer Composer
	logger   *slog.Logger
}

// NewDispatcher creates a dispatcher. A nil composer logs links instead.
func NewDispatcher(greeter Greeter, composer Composer, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if composer == nil {
		composer = LogComposer{Logger: logger}
	}
	return &Dispatcher{greeter: greeter, composer: composer, logger: logger}
}

// Contact returns the greeting link for a contact. Only a missing phone is an
// error; composer failures are logged.
func (d *Dispatcher) Contact(ctx context.Context, phone, name string) (Link, error) {
	link, err := d.greeter.Link(phone, name)
	if err != nil {
		return Link{}, err
	}
	if err := d.composer.Compose(ctx, link); err != nil {
		d.logger.WarnContext(ctx, "composer failed", "phone", link.Phone, "error", err)
	}
	return link, nil
}
