package service

import "utbk-prep/internal/domain"

// Reward policy constants. Coins are only granted above the accuracy
// threshold; XP is tiered by accuracy band. Balances are capped so a
// runaway credit loop cannot inflate a wallet without bound.
const (
	coinAccuracyThreshold = 60

	xpHighTierAccuracy = 70
	xpMidTierAccuracy  = 40

	xpHighTierAmount = 150
	xpMidTierAmount  = 75
	xpLowTierAmount  = 25

	CoinBalanceCap = 100_000
	XPBalanceCap   = 10_000_000
)

var coinRewardByMode = map[domain.AssessmentMode]int64{
	domain.ModeBalancedDaily: 50,
	domain.ModeFocusDaily:    50,
	domain.ModeMiniTryout:    75,
	domain.ModeFullTryout:    100,
}

// CoinsForAccuracy returns the coin reward for a scored submission, zero
// unless accuracy exceeds the threshold.
func CoinsForAccuracy(mode domain.AssessmentMode, accuracy int) int64 {
	if accuracy <= coinAccuracyThreshold {
		return 0
	}
	return coinRewardByMode[mode]
}

// XPForAccuracy returns the tiered XP reward for a scored submission.
func XPForAccuracy(accuracy int) int64 {
	switch {
	case accuracy >= xpHighTierAccuracy:
		return xpHighTierAmount
	case accuracy >= xpMidTierAccuracy:
		return xpMidTierAmount
	case accuracy > 0:
		return xpLowTierAmount
	default:
		return 0
	}
}

// BalanceCapFor returns the wallet cap for a currency.
func BalanceCapFor(currency domain.Currency) int64 {
	if currency == domain.CurrencyXP {
		return XPBalanceCap
	}
	return CoinBalanceCap
}
