package redis

import (
	"context"
	"crypto/rand"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/superj80820/url-shortener/domain"
	loggerKit "github.com/superj80820/url-shortener/kit/logger"
	redisKit "github.com/superj80820/url-shortener/kit/redis"
	utilKit "github.com/superj80820/url-shortener/kit/util"
)

const releaseScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`

const (
	defaultLeaseTTL     = 30 * time.Second
	defaultPollInterval = 20 * time.Millisecond
)

type dedupLockRepo struct {
	cache  *redisKit.Cache
	logger *loggerKit.Logger

	leaseTTL     time.Duration
	pollInterval time.Duration

	lock sync.Mutex
	// tokens of every acquisition still to be released, oldest first. Only
	// the newest can match the key, and it is popped by the last release.
	tokens map[string][]string
}

type Option func(*dedupLockRepo)

// WithLeaseTTL bounds how long a crashed holder keeps a lock.
func WithLeaseTTL(leaseTTL time.Duration) Option {
	return func(d *dedupLockRepo) {
		d.leaseTTL = leaseTTL
	}
}

func WithPollInterval(pollInterval time.Duration) Option {
	return func(d *dedupLockRepo) {
		d.pollInterval = pollInterval
	}
}

func CreateDedupLockRepo(cache *redisKit.Cache, logger *loggerKit.Logger, options ...Option) domain.DedupLockRepo {
	d := &dedupLockRepo{
		cache:        cache,
		logger:       logger,
		leaseTTL:     defaultLeaseTTL,
		pollInterval: defaultPollInterval,
		tokens:       make(map[string][]string),
	}
	for _, option := range options {
		option(d)
	}
	return d
}

func (d *dedupLockRepo) Acquire(ctx context.Context, name string, timeout time.Duration) (bool, error) {
	token, err := utilKit.RandomBase62(22, rand.Reader)
	if err != nil {
		return false, errors.Wrap(err, "generate lock token failed")
	}

	deadline := time.Now().Add(timeout)
	ticker := time.NewTicker(d.pollInterval)
	defer ticker.Stop()

	for {
		ok, err := d.cache.SetNX(ctx, name, token, d.leaseTTL)
		if err != nil {
			return false, errors.Wrap(err, "set lock failed")
		}
		if ok {
			d.lock.Lock()
			d.tokens[name] = append(d.tokens[name], token)
			d.lock.Unlock()
			return true, nil
		}
		if !time.Now().Before(deadline) {
			return false, nil
		}

		select {
		case <-ctx.Done():
			return false, errors.Wrap(ctx.Err(), "wait lock failed")
		case <-ticker.C:
		}
	}
}

func (d *dedupLockRepo) Release(ctx context.Context, name string) {
	d.lock.Lock()
	tokens := d.tokens[name]
	var token string
	if len(tokens) > 0 {
		token = tokens[0]
		if len(tokens) == 1 {
			delete(d.tokens, name)
		} else {
			d.tokens[name] = tokens[1:]
		}
	}
	d.lock.Unlock()

	if token == "" {
		d.logger.Warn("release lock not held", loggerKit.String("name", name))
		return
	}

	deleted, err := d.cache.RunLua(context.WithoutCancel(ctx), releaseScript, []string{name}, token).Int()
	if err != nil {
		d.logger.Error("release lock failed", loggerKit.String("name", name), loggerKit.Error(err))
		return
	}
	if deleted == 0 {
		d.logger.Warn("lock lease expired before release", loggerKit.String("name", name))
	}
}
