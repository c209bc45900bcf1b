package sweeper

import (
	"context"
	"time"

	"github.com/superj80820/url-shortener/domain"
	loggerKit "github.com/superj80820/url-shortener/kit/logger"
)

const defaultBatchSize = 500

type expirySweeperUseCase struct {
	shortLinkRepo domain.ShortLinkRepo
	logger        *loggerKit.Logger

	batchSize int
	now       func() time.Time
}

type Option func(*expirySweeperUseCase)

func WithBatchSize(batchSize int) Option {
	return func(e *expirySweeperUseCase) {
		e.batchSize = batchSize
	}
}

func WithClock(now func() time.Time) Option {
	return func(e *expirySweeperUseCase) {
		e.now = now
	}
}

func CreateExpirySweeperUseCase(shortLinkRepo domain.ShortLinkRepo, logger *loggerKit.Logger, options ...Option) domain.ExpirySweeperUseCase {
	e := &expirySweeperUseCase{
		shortLinkRepo: shortLinkRepo,
		logger:        logger,
		batchSize:     defaultBatchSize,
		now:           time.Now,
	}
	for _, option := range options {
		option(e)
	}
	if e.batchSize <= 0 {
		e.batchSize = defaultBatchSize
	}
	return e
}

// RunSweepOnce deletes rows that expired before the run started, one keyset
// page at a time. A failed delete is counted and skipped, a failed fetch ends
// the run. Rows left behind are picked up by the next run.
func (e *expirySweeperUseCase) RunSweepOnce(ctx context.Context) *domain.SweepResult {
	maxExpirationTime := e.now()
	result := new(domain.SweepResult)
	begin := time.Now()

	e.logger.Info("expiry sweep started", loggerKit.Time("max-expiration-time", maxExpirationTime), loggerKit.Int("batch-size", e.batchSize))

	var cursor *domain.SweepCursor
	for {
		page, err := e.shortLinkRepo.GetExpiredPage(ctx, maxExpirationTime, cursor, e.batchSize)
		if err != nil {
			e.logger.Error("fetch expired page failed", loggerKit.Error(err))
			break
		}
		if len(page) == 0 {
			break
		}

		cursor = page[len(page)-1]

		ids := make([]int64, len(page))
		for idx, row := range page {
			ids[idx] = row.ID
		}
		if _, err := e.shortLinkRepo.DeleteByIDs(ctx, ids); err != nil {
			e.logger.Error("delete expired batch failed",
				loggerKit.Int64("first-id", ids[0]),
				loggerKit.Int("size", len(ids)),
				loggerKit.Error(err),
			)
			result.Failed += len(ids)
		} else {
			result.Deleted += len(ids)
			result.Batches++
		}

		if len(page) < e.batchSize {
			break
		}
	}

	e.logger.Info("expiry sweep finished",
		loggerKit.Int("deleted", result.Deleted),
		loggerKit.Int("failed", result.Failed),
		loggerKit.Int("batches", result.Batches),
		loggerKit.Duration("latency", time.Since(begin)),
	)

	return result
}
