package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/totegamma/brandproof"
	"github.com/totegamma/brandproof/internal/domain"
)

// --- mocks ---

type mockBrandRepo struct {
	configs map[string]domain.BrandConfig
}

func (m *mockBrandRepo) Load(ctx context.Context, brand string) (domain.BrandConfig, error) {
	cfg, ok := m.configs[brandproof.NormalizeBrand(brand)]
	if !ok {
		return domain.BrandConfig{}, domain.ConfigNotFoundError{Brand: brand}
	}
	return cfg, nil
}

type writeCall struct {
	postID string
	sha    string
	ts     time.Time
}

type mockLedgerRepo struct {
	writes   []writeCall
	writeErr error
	ledger   domain.Ledger
	readErr  error
}

func (m *mockLedgerRepo) Write(ctx context.Context, cfg domain.BrandConfig, postID, sha string, ts time.Time) (string, error) {
	if m.writeErr != nil {
		return "", m.writeErr
	}
	m.writes = append(m.writes, writeCall{postID: postID, sha: sha, ts: ts})
	return cfg.ProofManifest.Root + "/W41.hash", nil
}

func (m *mockLedgerRepo) Read(ctx context.Context, cfg domain.BrandConfig, week string) (domain.Ledger, error) {
	if m.readErr != nil {
		return domain.Ledger{}, m.readErr
	}
	return m.ledger, nil
}

type mockPublisher struct {
	events []brandproof.ProofEvent
	err    error
}

func (m *mockPublisher) Publish(ctx context.Context, event brandproof.ProofEvent) error {
	m.events = append(m.events, event)
	return m.err
}

// --- fixtures ---

func intPtr(i int) *int       { return &i }
func strPtr(s string) *string { return &s }

var fixedNow = time.Date(2025, 10, 8, 9, 30, 0, 0, time.UTC)

func amarConfig() domain.BrandConfig {
	return domain.BrandConfig{
		Brand:     "Amar",
		Platforms: []string{"Instagram"},
		CaptionRules: map[string]domain.CaptionRule{
			"Instagram": {MaxChars: intPtr(2200)},
		},
		ForbiddenWords: []string{"guaranteed results"},
		HashtagBank:    map[string][]string{"Instagram": {"#BrandTech", "#BrandMarketplace"}},
		MediaPolicy: map[string]domain.MediaPolicy{
			"Instagram": {Allowed: []string{"single_image", "carousel"}, MaxCarousel: intPtr(10)},
		},
		LinkPolicy: domain.LinkPolicy{
			AllowedDomains: []string{"amar.co.uk"},
			UTMTemplate:    "utm_source={platform}&utm_medium=social&utm_campaign={brand}_{week}",
		},
		ProofManifest: domain.ProofManifest{Root: "/proofs/Amar", Timezone: "Europe/London"},
	}
}

func amarBundle() brandproof.Bundle {
	return brandproof.Bundle{
		Brand:           "Amar",
		Platform:        "Instagram",
		Caption:         "New arrivals are here",
		Hashtags:        []string{"#BrandTech"},
		MediaSuggestion: brandproof.MediaSuggestion{Type: "carousel", Count: intPtr(4)},
		Links: []brandproof.Link{
			{URL: "https://amar.co.uk/new", UTM: true},
			{URL: "https://amar.co.uk/about?ref=bio", UTM: true},
			{URL: "https://amar.co.uk/terms", UTM: false},
		},
		Week:   strPtr("W41"),
		PostID: strPtr("post-1"),
	}
}

func newTestUsecase(ledger *mockLedgerRepo, opts ...Option) *ValidateUsecase {
	brands := &mockBrandRepo{configs: map[string]domain.BrandConfig{"amar": amarConfig()}}
	opts = append([]Option{WithClock(func() time.Time { return fixedNow })}, opts...)
	return NewValidateUsecase(brands, ledger, opts...)
}

// --- tests ---

func TestValidateAccepted(t *testing.T) {
	ledger := &mockLedgerRepo{}
	uc := newTestUsecase(ledger)

	res, err := uc.Validate(context.Background(), amarBundle())
	require.NoError(t, err)

	assert.True(t, res.Valid)
	assert.Empty(t, res.Errors)
	assert.Regexp(t, "^[0-9a-f]{64}$", res.SHA256)
	assert.True(t, strings.HasSuffix(res.ProofFile, "W41.hash"))

	require.NotNil(t, res.NormalizedBundle)
	links := res.NormalizedBundle.Links
	assert.Equal(t, "https://amar.co.uk/new?utm_source=instagram&utm_medium=social&utm_campaign=amar_W41", links[0].URL)
	assert.Equal(t, "https://amar.co.uk/about?ref=bio&utm_source=instagram&utm_medium=social&utm_campaign=amar_W41", links[1].URL)
	assert.Equal(t, "https://amar.co.uk/terms", links[2].URL)

	require.Len(t, ledger.writes, 1)
	assert.Equal(t, "post-1", ledger.writes[0].postID)
	assert.Equal(t, res.SHA256, ledger.writes[0].sha)
	assert.Equal(t, fixedNow, ledger.writes[0].ts)
}

func TestValidateDoesNotMutateInput(t *testing.T) {
	uc := newTestUsecase(&mockLedgerRepo{})
	bundle := amarBundle()

	_, err := uc.Validate(context.Background(), bundle)
	require.NoError(t, err)
	assert.Equal(t, "https://amar.co.uk/new", bundle.Links[0].URL)
}

func TestValidateHashIsDeterministic(t *testing.T) {
	uc := newTestUsecase(&mockLedgerRepo{})

	first, err := uc.Validate(context.Background(), amarBundle())
	require.NoError(t, err)
	second, err := uc.Validate(context.Background(), amarBundle())
	require.NoError(t, err)
	assert.Equal(t, first.SHA256, second.SHA256)

	changed := amarBundle()
	changed.Caption = "Other caption"
	third, err := uc.Validate(context.Background(), changed)
	require.NoError(t, err)
	assert.NotEqual(t, first.SHA256, third.SHA256)
}

func TestValidateRejectedHasNoSideEffects(t *testing.T) {
	ledger := &mockLedgerRepo{}
	pub := &mockPublisher{}
	uc := newTestUsecase(ledger, WithPublisher(pub))

	bundle := amarBundle()
	bundle.Caption = strings.Repeat("x", 2190) + " Guaranteed Results!"
	bundle.Hashtags = []string{"#random"}
	bundle.MediaSuggestion.Count = intPtr(12)
	bundle.Links = append(bundle.Links, brandproof.Link{URL: "https://evil.com/x", UTM: true})

	res, err := uc.Validate(context.Background(), bundle)
	require.NoError(t, err)

	assert.False(t, res.Valid)
	assert.Equal(t, []string{
		"CAPTION_TOO_LONG:2210>2200",
		"FORBIDDEN_WORD:guaranteed results",
		"HASHTAG_NOT_ALLOWED:#random",
		"CAROUSEL_COUNT_INVALID:12>10",
		"LINK_DOMAIN_NOT_ALLOWED:evil.com",
	}, res.Errors)
	assert.Empty(t, res.SHA256)
	assert.Empty(t, res.ProofFile)
	assert.Nil(t, res.NormalizedBundle)
	assert.Empty(t, ledger.writes)
	assert.Empty(t, pub.events)
}

func TestValidateCaptionTooLong(t *testing.T) {
	uc := newTestUsecase(&mockLedgerRepo{})
	bundle := amarBundle()
	bundle.Caption = strings.Repeat("a", 2201)

	res, err := uc.Validate(context.Background(), bundle)
	require.NoError(t, err)
	assert.False(t, res.Valid)
	assert.Equal(t, []string{"CAPTION_TOO_LONG:2201>2200"}, res.Errors)
}

func TestValidateConfigNotFound(t *testing.T) {
	ledger := &mockLedgerRepo{}
	uc := newTestUsecase(ledger)
	bundle := amarBundle()
	bundle.Brand = "Ghost"

	_, err := uc.Validate(context.Background(), bundle)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConfigNotFound))
	assert.Empty(t, ledger.writes)
}

func TestValidateLedgerFailureIsFatal(t *testing.T) {
	ledger := &mockLedgerRepo{writeErr: errors.New("read-only filesystem")}
	uc := newTestUsecase(ledger)

	res, err := uc.Validate(context.Background(), amarBundle())
	require.Error(t, err)
	assert.False(t, res.Valid)
	assert.Empty(t, res.SHA256)
}

func TestValidatePublishes(t *testing.T) {
	pub := &mockPublisher{}
	uc := newTestUsecase(&mockLedgerRepo{}, WithPublisher(pub))

	res, err := uc.Validate(context.Background(), amarBundle())
	require.NoError(t, err)

	require.Len(t, pub.events, 1)
	assert.Equal(t, brandproof.ProofEvent{
		Brand:     "Amar",
		Platform:  "Instagram",
		PostID:    "post-1",
		SHA256:    res.SHA256,
		ProofFile: res.ProofFile,
		Timestamp: "2025-10-08T09:30:00Z",
	}, pub.events[0])
}

func TestValidatePublishFailureIsNotFatal(t *testing.T) {
	pub := &mockPublisher{err: errors.New("redis down")}
	uc := newTestUsecase(&mockLedgerRepo{}, WithPublisher(pub))

	res, err := uc.Validate(context.Background(), amarBundle())
	require.NoError(t, err)
	assert.True(t, res.Valid)
}

func TestValidateDefaultPostID(t *testing.T) {
	ledger := &mockLedgerRepo{}
	uc := newTestUsecase(ledger)
	bundle := amarBundle()
	bundle.PostID = nil

	_, err := uc.Validate(context.Background(), bundle)
	require.NoError(t, err)
	require.Len(t, ledger.writes, 1)
	assert.Equal(t, brandproof.DefaultPostID, ledger.writes[0].postID)
}

func TestVerify(t *testing.T) {
	ledger := &mockLedgerRepo{ledger: domain.Ledger{
		Brand: "Amar",
		Week:  "W41",
		Posts: []domain.ProofRecord{{PostID: "p", SHA256: "abc"}},
	}}
	uc := newTestUsecase(ledger)

	ok, err := uc.Verify(context.Background(), "Amar", "W41", "abc")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = uc.Verify(context.Background(), "Amar", "W41", "def")
	require.NoError(t, err)
	assert.False(t, ok)

	ledger.readErr = domain.ErrLedgerNotFound
	ok, err = uc.Verify(context.Background(), "Amar", "W40", "abc")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = uc.Verify(context.Background(), "Ghost", "W41", "abc")
	assert.True(t, errors.Is(err, domain.ErrConfigNotFound))
}
