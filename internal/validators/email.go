package validators

import (
	"context"
	"net"
	"strings"
	"time"
)

type mailResolver interface {
	LookupMX(ctx context.Context, name string) ([]*net.MX, error)
	LookupHost(ctx context.Context, host string) ([]string, error)
}

// MailDomainChecker diz se o domínio do endereço recebe e-mail: registro MX
// ou, na falta dele, qualquer registro de endereço.
type MailDomainChecker struct {
	resolver mailResolver
	timeout  time.Duration
}

func NewMailDomainChecker() *MailDomainChecker {
	return &MailDomainChecker{resolver: net.DefaultResolver, timeout: 3 * time.Second}
}

func (c *MailDomainChecker) Check(ctx context.Context, email string) bool {
	domain, ok := emailDomain(email)
	if !ok {
		return false
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if mx, err := c.resolver.LookupMX(ctx, domain); err == nil && len(mx) > 0 {
		return true
	}
	if hosts, err := c.resolver.LookupHost(ctx, domain); err == nil && len(hosts) > 0 {
		return true
	}
	return false
}

func emailDomain(email string) (string, bool) {
	at := strings.LastIndex(email, "@")
	if at < 0 || at == len(email)-1 {
		return "", false
	}
	return strings.ToLower(email[at+1:]), true
}
