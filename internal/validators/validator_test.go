package validators

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Email string `json:"email" validate:"required,email,email_domain"`
	Date  string `json:"date" validate:"omitempty,datetime=2006-01-02"`
}

type fakeResolver struct {
	mx    map[string]bool
	hosts map[string]bool
}

func (r fakeResolver) LookupMX(_ context.Context, name string) ([]*net.MX, error) {
	if r.mx[name] {
		return []*net.MX{{Host: "mx." + name, Pref: 10}}, nil
	}
	return nil, errors.New("no such host")
}

func (r fakeResolver) LookupHost(_ context.Context, host string) ([]string, error) {
	if r.hosts[host] {
		return []string{"192.0.2.1"}, nil
	}
	return nil, errors.New("no such host")
}

func newFakeChecker() *MailDomainChecker {
	return &MailDomainChecker{
		resolver: fakeResolver{
			mx:    map[string]bool{"example.com": true},
			hosts: map[string]bool{"clinic.example": true},
		},
		timeout: time.Second,
	}
}

func TestValidateUsesJSONNames(t *testing.T) {
	v := New(false)

	err := v.Validate(context.Background(), &sample{Email: "not-an-email", Date: "21/10/2026"})
	require.Error(t, err)

	msgs := FormatErrors(err)
	assert.Equal(t, "email must be a valid email address", msgs["email"])
	assert.Equal(t, "date must match 2006-01-02", msgs["date"])
}

func TestValidateAcceptsGoodInput(t *testing.T) {
	v := New(false)
	assert.NoError(t, v.Validate(context.Background(), &sample{Email: "maria@nowhere.invalid", Date: "2026-10-21"}))
}

func TestEmailDomainTag(t *testing.T) {
	v := newValidator(newFakeChecker())
	ctx := context.Background()

	assert.NoError(t, v.Validate(ctx, &sample{Email: "maria@Example.com"}))
	assert.NoError(t, v.Validate(ctx, &sample{Email: "maria@clinic.example"}))

	err := v.Validate(ctx, &sample{Email: "maria@nowhere.invalid"})
	require.Error(t, err)
	assert.Equal(t, "email domain does not accept email", FormatErrors(err)["email"])
}

func TestMailDomainCheckerMalformed(t *testing.T) {
	c := newFakeChecker()
	assert.False(t, c.Check(context.Background(), "maria"))
	assert.False(t, c.Check(context.Background(), "maria@"))
}

func TestFormatErrorsIgnoresOtherErrors(t *testing.T) {
	assert.Empty(t, FormatErrors(assert.AnError))
}
