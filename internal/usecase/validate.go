package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/totegamma/brandproof"
	"github.com/totegamma/brandproof/internal/domain"
	"github.com/totegamma/brandproof/internal/utils"
	"github.com/totegamma/brandproof/policy"
)

var tracer = otel.Tracer("usecase")

type ValidateUsecase struct {
	brands    BrandRepository
	ledger    LedgerRepository
	publisher ProofPublisher
	now       func() time.Time
}

type Option func(*ValidateUsecase)

// WithPublisher announces every accepted proof through p.
func WithPublisher(p ProofPublisher) Option {
	return func(uc *ValidateUsecase) { uc.publisher = p }
}

// WithClock replaces the clock used for proof timestamps.
func WithClock(now func() time.Time) Option {
	return func(uc *ValidateUsecase) { uc.now = now }
}

func NewValidateUsecase(brands BrandRepository, ledger LedgerRepository, opts ...Option) *ValidateUsecase {
	uc := &ValidateUsecase{
		brands: brands,
		ledger: ledger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Validate checks bundle against its brand's policy. A rejected bundle is
// reported through the result with every violated rule, never as an error.
// An accepted bundle is normalized, hashed and recorded in the ledger
// before Valid is reported.
func (uc *ValidateUsecase) Validate(ctx context.Context, bundle brandproof.Bundle) (brandproof.ValidateResult, error) {
	ctx, span := tracer.Start(ctx, "Validate.Usecase.Validate")
	defer span.End()
	span.SetAttributes(
		attribute.String("brand", bundle.Brand),
		attribute.String("platform", bundle.Platform),
	)

	cfg, err := uc.brands.Load(ctx, bundle.Brand)
	if err != nil {
		span.RecordError(err)
		return brandproof.ValidateResult{}, err
	}

	violations := policy.Evaluate(bundle, cfg)
	if len(violations) > 0 {
		span.SetAttributes(attribute.Int("violations", len(violations)))
		return brandproof.ValidateResult{Valid: false, Errors: violations}, nil
	}

	normalized := NormalizeLinks(bundle, cfg)

	sha, err := utils.ContentHash(normalized)
	if err != nil {
		span.RecordError(err)
		return brandproof.ValidateResult{}, errors.Wrap(err, "hash bundle")
	}

	ts := uc.now()
	postID := bundle.PostIDOrDefault()
	proofFile, err := uc.ledger.Write(ctx, cfg, postID, sha, ts)
	if err != nil {
		span.RecordError(err)
		return brandproof.ValidateResult{}, errors.Wrap(err, "write proof")
	}

	slog.InfoContext(
		ctx, "proof recorded",
		slog.String("brand", cfg.Brand),
		slog.String("post_id", postID),
		slog.String("sha256", sha),
		slog.String("module", "validate"),
	)

	if uc.publisher != nil {
		event := brandproof.ProofEvent{
			Brand:     cfg.Brand,
			Platform:  bundle.Platform,
			PostID:    postID,
			SHA256:    sha,
			ProofFile: proofFile,
			Timestamp: domain.FormatTimestamp(ts),
		}
		if err := uc.publisher.Publish(ctx, event); err != nil {
			slog.WarnContext(
				ctx, "failed to publish proof event",
				slog.String("error", err.Error()),
				slog.String("module", "validate"),
			)
		}
	}

	return brandproof.ValidateResult{
		Valid:            true,
		Errors:           []string{},
		SHA256:           sha,
		ProofFile:        proofFile,
		NormalizedBundle: &normalized,
	}, nil
}

func (uc *ValidateUsecase) Brand(ctx context.Context, brand string) (domain.BrandConfig, error) {
	return uc.brands.Load(ctx, brand)
}

// Ledger returns the proof ledger of brand for week.
func (uc *ValidateUsecase) Ledger(ctx context.Context, brand, week string) (domain.Ledger, error) {
	ctx, span := tracer.Start(ctx, "Validate.Usecase.Ledger")
	defer span.End()

	cfg, err := uc.brands.Load(ctx, brand)
	if err != nil {
		span.RecordError(err)
		return domain.Ledger{}, err
	}
	return uc.ledger.Read(ctx, cfg, week)
}

// Verify reports whether sha is recorded in the ledger of brand for week.
func (uc *ValidateUsecase) Verify(ctx context.Context, brand, week, sha string) (bool, error) {
	ledger, err := uc.Ledger(ctx, brand, week)
	if err != nil {
		if errors.Is(err, domain.ErrLedgerNotFound) {
			return false, nil
		}
		return false, err
	}
	return ledger.Contains(sha), nil
}
