package memory

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/superj80820/url-shortener/domain"
	loggerKit "github.com/superj80820/url-shortener/kit/logger"
)

type lockEntry struct {
	sem  chan struct{}
	refs int
}

type dedupLockRepo struct {
	logger *loggerKit.Logger

	lock    sync.Mutex
	entries map[string]*lockEntry
}

// CreateDedupLockRepo only serializes callers inside one process.
func CreateDedupLockRepo(logger *loggerKit.Logger) domain.DedupLockRepo {
	return &dedupLockRepo{
		logger:  logger,
		entries: make(map[string]*lockEntry),
	}
}

func (d *dedupLockRepo) enter(name string) *lockEntry {
	d.lock.Lock()
	defer d.lock.Unlock()

	entry, ok := d.entries[name]
	if !ok {
		entry = &lockEntry{sem: make(chan struct{}, 1)}
		d.entries[name] = entry
	}
	entry.refs++
	return entry
}

func (d *dedupLockRepo) leave(name string, entry *lockEntry) {
	d.lock.Lock()
	defer d.lock.Unlock()

	entry.refs--
	if entry.refs == 0 {
		delete(d.entries, name)
	}
}

func (d *dedupLockRepo) Acquire(ctx context.Context, name string, timeout time.Duration) (bool, error) {
	entry := d.enter(name)

	select {
	case entry.sem <- struct{}{}:
		return true, nil
	default:
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case entry.sem <- struct{}{}:
		return true, nil
	case <-timer.C:
		d.leave(name, entry)
		return false, nil
	case <-ctx.Done():
		d.leave(name, entry)
		return false, errors.Wrap(ctx.Err(), "wait lock failed")
	}
}

func (d *dedupLockRepo) Release(ctx context.Context, name string) {
	d.lock.Lock()
	entry, ok := d.entries[name]
	d.lock.Unlock()
	if !ok {
		d.logger.Warn("release lock not held", loggerKit.String("name", name))
		return
	}

	select {
	case <-entry.sem:
		d.leave(name, entry)
	default:
		d.logger.Warn("release lock not held", loggerKit.String("name", name))
	}
}
