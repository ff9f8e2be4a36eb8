package domain

import (
	"fmt"
	"time"
)

type ProofRecord struct {
	PostID    string `json:"post_id"`
	SHA256    string `json:"sha256"`
	Timestamp string `json:"timestamp"`
}

// Ledger holds the proof records of one brand for one ISO week. Records are
// only ever appended.
type Ledger struct {
	Brand string        `json:"brand"`
	Week  string        `json:"week"`
	Posts []ProofRecord `json:"posts"`
}

func (l Ledger) Contains(sha string) bool {
	for _, p := range l.Posts {
		if p.SHA256 == sha {
			return true
		}
	}
	return false
}

// LedgerRecovery selects what happens when an existing ledger file cannot
// be parsed.
type LedgerRecovery int

const (
	LedgerRecoveryReset LedgerRecovery = iota
	LedgerRecoveryFail
)

func ParseLedgerRecovery(s string) (LedgerRecovery, error) {
	switch s {
	case "", "reset":
		return LedgerRecoveryReset, nil
	case "fail":
		return LedgerRecoveryFail, nil
	default:
		return LedgerRecoveryReset, fmt.Errorf("unknown ledger recovery mode: %s", s)
	}
}

// WeekLabel renders the ISO-8601 week of t in loc as "W" plus two digits.
func WeekLabel(t time.Time, loc *time.Location) string {
	_, week := t.In(loc).ISOWeek()
	return fmt.Sprintf("W%02d", week)
}

// FormatTimestamp renders t as an RFC 3339 UTC timestamp.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
