package service

import (
	"testing"

	"utbk-prep/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestCoinsForAccuracy(t *testing.T) {
	// Threshold is strict: exactly 60 earns nothing.
	assert.Equal(t, int64(0), CoinsForAccuracy(domain.ModeBalancedDaily, 60))
	assert.Equal(t, int64(50), CoinsForAccuracy(domain.ModeBalancedDaily, 61))
	assert.Equal(t, int64(50), CoinsForAccuracy(domain.ModeFocusDaily, 100))
	assert.Equal(t, int64(75), CoinsForAccuracy(domain.ModeMiniTryout, 80))
	assert.Equal(t, int64(100), CoinsForAccuracy(domain.ModeFullTryout, 80))
	assert.Equal(t, int64(0), CoinsForAccuracy(domain.ModeFullTryout, 0))
}

func TestXPForAccuracy(t *testing.T) {
	assert.Equal(t, int64(150), XPForAccuracy(100))
	assert.Equal(t, int64(150), XPForAccuracy(70))
	assert.Equal(t, int64(75), XPForAccuracy(69))
	assert.Equal(t, int64(75), XPForAccuracy(40))
	assert.Equal(t, int64(25), XPForAccuracy(39))
	assert.Equal(t, int64(25), XPForAccuracy(1))
	assert.Equal(t, int64(0), XPForAccuracy(0))
}

func TestBalanceCapFor(t *testing.T) {
	assert.Equal(t, int64(CoinBalanceCap), BalanceCapFor(domain.CurrencyCoins))
	assert.Equal(t, int64(XPBalanceCap), BalanceCapFor(domain.CurrencyXP))
}
