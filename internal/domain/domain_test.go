package domain

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigNotFoundIs(t *testing.T) {
	err := fmt.Errorf("load: %w", ConfigNotFoundError{Brand: "ghost"})
	assert.True(t, errors.Is(err, ErrConfigNotFound))
	assert.Equal(t, "load: config not found for brand: ghost", err.Error())
	assert.False(t, errors.Is(ErrLedgerCorrupt, ErrConfigNotFound))
}

func TestWeekLabel(t *testing.T) {
	london, err := time.LoadLocation("Europe/London")
	require.NoError(t, err)

	ts := time.Date(2025, 10, 8, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, "W41", WeekLabel(ts, london))

	// Sunday 23:30 UTC is already Monday in Tokyo.
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)
	sunday := time.Date(2025, 10, 12, 23, 30, 0, 0, time.UTC)
	assert.Equal(t, "W41", WeekLabel(sunday, time.UTC))
	assert.Equal(t, "W42", WeekLabel(sunday, tokyo))

	assert.Equal(t, "W01", WeekLabel(time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC), time.UTC))
}

func TestDefaults(t *testing.T) {
	assert.Equal(t, DefaultMaxChars, CaptionRule{}.Limit())
	assert.Equal(t, DefaultMaxCarousel, MediaPolicy{}.CarouselLimit())
	assert.Equal(t, DefaultTimezone, ProofManifest{}.Location())
}

func TestParseLedgerRecovery(t *testing.T) {
	mode, err := ParseLedgerRecovery("")
	require.NoError(t, err)
	assert.Equal(t, LedgerRecoveryReset, mode)

	mode, err = ParseLedgerRecovery("fail")
	require.NoError(t, err)
	assert.Equal(t, LedgerRecoveryFail, mode)

	_, err = ParseLedgerRecovery("ignore")
	assert.Error(t, err)
}

func TestKeys(t *testing.T) {
	cfg := BrandConfig{
		Brand:          "Amar",
		Platforms:      []string{"Instagram"},
		ForbiddenWords: []string{},
		ProofManifest:  ProofManifest{Root: "/tmp"},
	}
	assert.Equal(t, []string{"brand", "platforms", "forbidden_words", "proof_manifest"}, cfg.Keys())
}
