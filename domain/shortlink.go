package domain

import (
	"context"
	"time"
)

// ShortLink is live while ExpiresAt is after now. ID never leaves the service.
type ShortLink struct {
	ID            int64
	ContentDigest []byte
	Code          string
	TargetURL     string
	ExpiresAt     time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type CreatedLink struct {
	Code string
	URL  string
}

// SweepCursor is the (ExpiresAt, ID) position of the last row of a page.
type SweepCursor struct {
	ExpiresAt time.Time
	ID        int64
}

type SweepResult struct {
	Deleted int
	Failed  int
	Batches int
}

type ShortLinkRepo interface {
	// Create returns ErrDuplicate when the code is already taken.
	Create(ctx context.Context, link *ShortLink) error
	// GetByCode returns ErrNoData when no row has the code.
	GetByCode(ctx context.Context, code string) (*ShortLink, error)
	GetLiveByDigest(ctx context.Context, digest []byte, now time.Time) ([]*ShortLink, error)
	DeleteByCode(ctx context.Context, code string) (deleted bool, err error)
	// GetExpiredPage returns up to limit rows with ExpiresAt <= maxExpirationTime
	// ordered by (ExpiresAt, ID), strictly after cursor when it is not nil.
	GetExpiredPage(ctx context.Context, maxExpirationTime time.Time, cursor *SweepCursor, limit int) ([]*SweepCursor, error)
	DeleteByIDs(ctx context.Context, ids []int64) (int64, error)
}

type DedupLockRepo interface {
	Acquire(ctx context.Context, name string, timeout time.Duration) (bool, error)
	Release(ctx context.Context, name string)
}

type IDGenerator interface {
	NextID() int64
}

type ShortLinkUseCase interface {
	CreateLink(ctx context.Context, targetURL string) (*CreatedLink, error)
	GetLink(ctx context.Context, code string) (string, error)
	DeleteLink(ctx context.Context, code string) error
}

type ExpirySweeperUseCase interface {
	RunSweepOnce(ctx context.Context) *SweepResult
}
