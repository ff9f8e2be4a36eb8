package usecase

import (
	"context"
	"time"

	"github.com/totegamma/brandproof"
	"github.com/totegamma/brandproof/internal/domain"
)

// BrandRepository loads brand configuration by brand name. Implementations
// return domain.ConfigNotFoundError when nothing exists for the name.
type BrandRepository interface {
	Load(ctx context.Context, brand string) (domain.BrandConfig, error)
}

// LedgerRepository persists proof records into per-brand, per-week ledgers.
type LedgerRepository interface {
	Write(ctx context.Context, cfg domain.BrandConfig, postID, sha string, ts time.Time) (string, error)
	Read(ctx context.Context, cfg domain.BrandConfig, week string) (domain.Ledger, error)
}

// ProofPublisher announces accepted proofs to interested listeners.
type ProofPublisher interface {
	Publish(ctx context.Context, event brandproof.ProofEvent) error
}
