package db

import (
	"context"
	"sync"
	"time"
)

// TokenProvider acquires short-lived credentials that are sent as the
// PostgreSQL password (AWS RDS IAM, Azure Entra ID).
type TokenProvider interface {
	GetToken(ctx context.Context) (token string, expiresOn time.Time, err error)

	// String describes the provider for logs. It must not include secrets.
	String() string
}

// AzurePostgreSQLScope is the OAuth scope for Azure Database for PostgreSQL.
const AzurePostgreSQLScope = "https://ossrdbms-aad.database.windows.net/.default"

// tokenRefreshMargin is how long before expiry a cached token is replaced.
const tokenRefreshMargin = 2 * time.Minute

// CachingTokenProvider reuses a token across connections until it is
// within tokenRefreshMargin of expiring.
type CachingTokenProvider struct {
	inner TokenProvider
	now   func() time.Time

	mu        sync.Mutex
	token     string
	expiresOn time.Time
}

func NewCachingTokenProvider(inner TokenProvider) *CachingTokenProvider {
	return &CachingTokenProvider{inner: inner, now: time.Now}
}

func (p *CachingTokenProvider) GetToken(ctx context.Context) (string, time.Time, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.token != "" && p.now().Add(tokenRefreshMargin).Before(p.expiresOn) {
		return p.token, p.expiresOn, nil
	}

	token, expiresOn, err := p.inner.GetToken(ctx)
	if err != nil {
		return "", time.Time{}, err
	}
	p.token, p.expiresOn = token, expiresOn
	return token, expiresOn, nil
}

func (p *CachingTokenProvider) String() string {
	return "Cached(" + p.inner.String() + ")"
}
