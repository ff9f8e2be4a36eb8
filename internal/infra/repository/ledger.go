package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"time"
	_ "time/tzdata"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/totegamma/brandproof/internal/domain"
)

var tracer = otel.Tracer("repository")

var weekPattern = regexp.MustCompile(`^W\d{2}$`)

// FileLedgerRepository keeps one JSON ledger file per brand and ISO week at
// {proof_manifest.root}/{week}.hash. Writers to the same file are
// serialized within the process.
type FileLedgerRepository struct {
	recovery domain.LedgerRecovery
	locks    *keyedMutex
}

func NewFileLedgerRepository(recovery domain.LedgerRecovery) *FileLedgerRepository {
	return &FileLedgerRepository{
		recovery: recovery,
		locks:    newKeyedMutex(),
	}
}

func (r *FileLedgerRepository) Write(ctx context.Context, cfg domain.BrandConfig, postID, sha string, ts time.Time) (string, error) {
	ctx, span := tracer.Start(ctx, "Ledger.Repository.Write")
	defer span.End()

	loc, err := time.LoadLocation(cfg.ProofManifest.Location())
	if err != nil {
		span.RecordError(err)
		return "", errors.Wrapf(err, "load timezone for %s", cfg.Brand)
	}
	week := domain.WeekLabel(ts, loc)

	root := cfg.ProofManifest.Root
	if root == "" {
		return "", errors.Errorf("proof root not configured for %s", cfg.Brand)
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		span.RecordError(err)
		return "", errors.Wrap(err, "create proof root")
	}

	path := ledgerPath(root, week)
	span.SetAttributes(attribute.String("path", path))

	unlock := r.locks.Lock(lockKey(path))
	defer unlock()

	ledger, err := r.load(ctx, path, cfg.Brand, week)
	if err != nil {
		span.RecordError(err)
		return "", err
	}

	ledger.Posts = append(ledger.Posts, domain.ProofRecord{
		PostID:    postID,
		SHA256:    sha,
		Timestamp: domain.FormatTimestamp(ts),
	})

	if err := writeLedger(path, ledger); err != nil {
		span.RecordError(err)
		return "", err
	}
	return path, nil
}

func (r *FileLedgerRepository) Read(ctx context.Context, cfg domain.BrandConfig, week string) (domain.Ledger, error) {
	if !weekPattern.MatchString(week) {
		return domain.Ledger{}, domain.ErrInvalidWeek
	}

	data, err := os.ReadFile(ledgerPath(cfg.ProofManifest.Root, week))
	if err != nil {
		if os.IsNotExist(err) {
			return domain.Ledger{}, domain.ErrLedgerNotFound
		}
		return domain.Ledger{}, errors.Wrap(err, "read ledger")
	}

	var ledger domain.Ledger
	if err := json.Unmarshal(data, &ledger); err != nil {
		return domain.Ledger{}, errors.Wrap(domain.ErrLedgerCorrupt, err.Error())
	}
	return ledger, nil
}

// load returns the current ledger at path, a fresh one when the file does
// not exist yet, and applies the recovery mode when it cannot be parsed.
func (r *FileLedgerRepository) load(ctx context.Context, path, brand, week string) (domain.Ledger, error) {
	fresh := domain.Ledger{Brand: brand, Week: week, Posts: []domain.ProofRecord{}}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fresh, nil
		}
		return r.recover(ctx, path, fresh, err)
	}

	var ledger domain.Ledger
	if err := json.Unmarshal(data, &ledger); err != nil {
		return r.recover(ctx, path, fresh, err)
	}
	if ledger.Posts == nil {
		ledger.Posts = []domain.ProofRecord{}
	}
	return ledger, nil
}

func (r *FileLedgerRepository) recover(ctx context.Context, path string, fresh domain.Ledger, cause error) (domain.Ledger, error) {
	if r.recovery == domain.LedgerRecoveryFail {
		return domain.Ledger{}, errors.Wrapf(domain.ErrLedgerCorrupt, "%s: %v", path, cause)
	}
	slog.WarnContext(
		ctx, "unreadable ledger replaced with a new one",
		slog.String("path", path),
		slog.String("error", cause.Error()),
		slog.String("module", "ledger"),
	)
	return fresh, nil
}

// writeLedger replaces the file at path through a temporary file so readers
// never observe a partial ledger.
func writeLedger(path string, ledger domain.Ledger) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(ledger); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return errors.Wrap(err, "create ledger temp file")
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return errors.Wrap(err, "chmod ledger")
	}
	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return errors.Wrap(err, "write ledger")
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return errors.Wrap(err, "sync ledger")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "close ledger")
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return errors.Wrap(err, "replace ledger")
	}
	return nil
}

func ledgerPath(root, week string) string {
	return filepath.Join(root, week+".hash")
}

func lockKey(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return abs
}
