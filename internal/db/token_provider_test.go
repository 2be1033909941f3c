package db

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingProvider struct {
	calls    int
	lifetime time.Duration
	now      func() time.Time
	err      error
}

func (p *countingProvider) GetToken(ctx context.Context) (string, time.Time, error) {
	p.calls++
	if p.err != nil {
		return "", time.Time{}, p.err
	}
	return "token", p.now().Add(p.lifetime), nil
}

func (p *countingProvider) String() string { return "counting" }

func TestCachingTokenProvider_ReusesUntilNearExpiry(t *testing.T) {
	clock := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	now := func() time.Time { return clock }
	inner := &countingProvider{lifetime: 15 * time.Minute, now: now}
	cache := NewCachingTokenProvider(inner)
	cache.now = now

	for i := 0; i < 3; i++ {
		token, _, err := cache.GetToken(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "token", token)
	}
	assert.Equal(t, 1, inner.calls)

	clock = clock.Add(14 * time.Minute)
	_, _, err := cache.GetToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, inner.calls, "token within refresh margin is replaced")
}

func TestCachingTokenProvider_ErrorsAreNotCached(t *testing.T) {
	inner := &countingProvider{err: errors.New("denied"), now: time.Now}
	cache := NewCachingTokenProvider(inner)

	_, _, err := cache.GetToken(context.Background())
	assert.Error(t, err)
	_, _, err = cache.GetToken(context.Background())
	assert.Error(t, err)
	assert.Equal(t, 2, inner.calls)
	assert.Equal(t, "Cached(counting)", cache.String())
}

func TestNewAWSIAMTokenProvider_Validation(t *testing.T) {
	_, err := NewAWSIAMTokenProvider("", "us-east-1", "u")
	assert.Error(t, err)
	_, err = NewAWSIAMTokenProvider("h:5432", "", "u")
	assert.Error(t, err)
	_, err = NewAWSIAMTokenProvider("h:5432", "us-east-1", "")
	assert.Error(t, err)

	p, err := NewAWSIAMTokenProvider("h:5432", "us-east-1", "u")
	require.NoError(t, err)
	assert.Equal(t, "AWSIAMTokenProvider(endpoint=h:5432, region=us-east-1, user=u)", p.String())
}

func TestNewAzureServicePrincipalProvider_RequiresAllFields(t *testing.T) {
	_, err := NewAzureServicePrincipalProvider("tenant", "", "secret")
	assert.Error(t, err)
}
