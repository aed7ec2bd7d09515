package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSessionConfigTotalsMatchQuotas(t *testing.T) {
	for _, mode := range []AssessmentMode{ModeBalancedDaily, ModeFocusDaily, ModeMiniTryout, ModeFullTryout} {
		cfg, ok := ConfigForMode(mode)
		assert.True(t, ok, "missing config for mode %s", mode)
		assert.NoError(t, cfg.Validate(), "invalid config for mode %s", mode)
	}
}

func TestSessionConfigExpectedTotals(t *testing.T) {
	expected := map[AssessmentMode]int{
		ModeBalancedDaily: 21,
		ModeFocusDaily:    10,
		ModeMiniTryout:    70,
		ModeFullTryout:    160,
	}
	for mode, total := range expected {
		cfg, _ := ConfigForMode(mode)
		assert.Equal(t, total, cfg.TotalQuestions, "mode %s", mode)
	}
}

func TestFullTryoutRecommendedMinutesSumTo195(t *testing.T) {
	cfg, _ := ConfigForMode(ModeFullTryout)
	sum := 0
	for _, quota := range cfg.Quotas {
		sum += quota.RecommendedMinutes
	}
	assert.Equal(t, 195, sum)
}

func TestQuotasCoverAllSubtestsInDisplayOrder(t *testing.T) {
	for _, mode := range []AssessmentMode{ModeBalancedDaily, ModeMiniTryout, ModeFullTryout} {
		cfg, _ := ConfigForMode(mode)
		assert.Len(t, cfg.Quotas, len(Subtests), "mode %s", mode)
		for i, quota := range cfg.Quotas {
			assert.Equal(t, Subtests[i].Code, quota.Subtest, "mode %s position %d", mode, i)
		}
	}
}

func TestQuotasForFocusMode(t *testing.T) {
	cfg, _ := ConfigForMode(ModeFocusDaily)

	quotas, err := cfg.QuotasFor(SubtestLitIndo)
	assert.NoError(t, err)
	assert.Len(t, quotas, 1)
	assert.Equal(t, SubtestLitIndo, quotas[0].Subtest)
	assert.Equal(t, 10, quotas[0].QuestionCount)

	_, err = cfg.QuotasFor("")
	assert.Error(t, err)

	_, err = cfg.QuotasFor("TPS")
	assert.Error(t, err)
}

func TestQuotasForIgnoresFocusOutsideFocusMode(t *testing.T) {
	cfg, _ := ConfigForMode(ModeBalancedDaily)

	quotas, err := cfg.QuotasFor("TPS")
	assert.NoError(t, err)
	assert.Len(t, quotas, len(Subtests))
}

func TestIsValidMode(t *testing.T) {
	assert.True(t, IsValidMode("balanced-daily"))
	assert.True(t, IsValidMode("full-tryout"))
	assert.False(t, IsValidMode("marathon"))
	assert.False(t, IsValidMode(""))
}
