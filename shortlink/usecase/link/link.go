package link

import (
	"context"
	"crypto/rand"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/superj80820/url-shortener/domain"
	loggerKit "github.com/superj80820/url-shortener/kit/logger"
	ormKit "github.com/superj80820/url-shortener/kit/orm"
	utilKit "github.com/superj80820/url-shortener/kit/util"
)

const lockNamePrefix = "shortlink:"

const (
	defaultCodeLength   = 8
	defaultRetry        = 3
	defaultMaxURLLength = 2048
	defaultLockTimeout  = 3 * time.Second
	defaultExpiration   = 7 * 24 * time.Hour
)

type shortLinkUseCase struct {
	shortLinkRepo domain.ShortLinkRepo
	dedupLockRepo domain.DedupLockRepo
	idGenerator   domain.IDGenerator
	logger        *loggerKit.Logger

	redirectionDomain string
	codeLength        int
	retry             int
	maxURLLength      int
	lockTimeout       time.Duration
	expiration        time.Duration
	random            io.Reader
	now               func() time.Time
}

type Option func(*shortLinkUseCase)

func WithCodeLength(codeLength int) Option {
	return func(s *shortLinkUseCase) {
		s.codeLength = codeLength
	}
}

// WithRetry sets how many codes are tried before giving up on collisions.
func WithRetry(retry int) Option {
	return func(s *shortLinkUseCase) {
		s.retry = retry
	}
}

func WithMaxURLLength(maxURLLength int) Option {
	return func(s *shortLinkUseCase) {
		s.maxURLLength = maxURLLength
	}
}

func WithLockTimeout(lockTimeout time.Duration) Option {
	return func(s *shortLinkUseCase) {
		s.lockTimeout = lockTimeout
	}
}

func WithExpiration(expiration time.Duration) Option {
	return func(s *shortLinkUseCase) {
		s.expiration = expiration
	}
}

// WithRandom replaces crypto/rand as the source of code symbols.
func WithRandom(random io.Reader) Option {
	return func(s *shortLinkUseCase) {
		s.random = random
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *shortLinkUseCase) {
		s.now = now
	}
}

func CreateShortLinkUseCase(
	shortLinkRepo domain.ShortLinkRepo,
	dedupLockRepo domain.DedupLockRepo,
	idGenerator domain.IDGenerator,
	logger *loggerKit.Logger,
	redirectionDomain string,
	options ...Option,
) domain.ShortLinkUseCase {
	s := &shortLinkUseCase{
		shortLinkRepo:     shortLinkRepo,
		dedupLockRepo:     dedupLockRepo,
		idGenerator:       idGenerator,
		logger:            logger,
		redirectionDomain: strings.TrimRight(redirectionDomain, "/"),
		codeLength:        defaultCodeLength,
		retry:             defaultRetry,
		maxURLLength:      defaultMaxURLLength,
		lockTimeout:       defaultLockTimeout,
		expiration:        defaultExpiration,
		random:            rand.Reader,
		now:               time.Now,
	}
	for _, option := range options {
		option(s)
	}
	return s
}

func (s *shortLinkUseCase) CreateLink(ctx context.Context, targetURL string) (*domain.CreatedLink, error) {
	if err := s.validateURL(targetURL); err != nil {
		return nil, err
	}

	digest := utilKit.GetSHA256Bytes(targetURL)
	lockName := lockNamePrefix + utilKit.EncodeBase62(digest)

	locked, err := s.dedupLockRepo.Acquire(ctx, lockName, s.lockTimeout)
	if err != nil || !locked {
		if ctx.Err() != nil {
			return nil, errors.Wrap(domain.ErrRequestCancelled, "wait dedup lock")
		} else if err != nil {
			return nil, errors.Wrapf(domain.ErrGenerationFailed, "acquire dedup lock failed: %v", err)
		}
		return nil, errors.Wrap(domain.ErrGenerationFailed, "dedup lock busy")
	}
	// the lock must outlive the caller's transaction so that the next holder
	// sees the committed row
	if !ormKit.AfterCompletion(ctx, func() { s.dedupLockRepo.Release(context.WithoutCancel(ctx), lockName) }) {
		defer s.dedupLockRepo.Release(ctx, lockName)
	}

	now := s.now()

	liveLinks, err := s.shortLinkRepo.GetLiveByDigest(ctx, digest, now)
	if err != nil {
		return nil, errors.Wrap(err, "get live links failed")
	}
	for _, liveLink := range liveLinks {
		if liveLink.TargetURL == targetURL {
			return s.createdLink(liveLink.Code), nil
		}
	}

	id := s.idGenerator.NextID()
	for attempt := 1; attempt <= s.retry; attempt++ {
		if ctx.Err() != nil {
			return nil, errors.Wrap(domain.ErrRequestCancelled, "create link")
		}

		code, err := utilKit.RandomBase62(s.codeLength, s.random)
		if err != nil {
			return nil, errors.Wrap(err, "generate code failed")
		}

		err = s.shortLinkRepo.Create(ctx, &domain.ShortLink{
			ID:            id,
			ContentDigest: digest,
			Code:          code,
			TargetURL:     targetURL,
			ExpiresAt:     now.Add(s.expiration),
		})
		if errors.Is(err, domain.ErrDuplicate) {
			s.logger.Debug("code collision", loggerKit.String("code", code), loggerKit.Int("attempt", attempt))
			continue
		} else if err != nil {
			return nil, errors.Wrap(err, "create link failed")
		}

		return s.createdLink(code), nil
	}

	s.logger.Warn("code retries exhausted", loggerKit.Int("retry", s.retry))
	return nil, errors.Wrapf(domain.ErrGenerationFailed, "no free code after %d attempts", s.retry)
}

func (s *shortLinkUseCase) GetLink(ctx context.Context, code string) (string, error) {
	if !utilKit.IsValidBase62(code) {
		return "", errors.Wrap(domain.ErrInvalidKey, code)
	}

	link, err := s.shortLinkRepo.GetByCode(ctx, code)
	if errors.Is(err, domain.ErrNoData) {
		return "", errors.Wrap(domain.ErrKeyNotFound, code)
	} else if err != nil {
		return "", errors.Wrap(err, "get link failed")
	}

	if !link.ExpiresAt.After(s.now()) {
		return "", errors.Wrap(domain.ErrExpiredLink, code)
	}

	return link.TargetURL, nil
}

func (s *shortLinkUseCase) DeleteLink(ctx context.Context, code string) error {
	if !utilKit.IsValidBase62(code) {
		return errors.Wrap(domain.ErrInvalidKey, code)
	}

	deleted, err := s.shortLinkRepo.DeleteByCode(ctx, code)
	if err != nil {
		return errors.Wrap(err, "delete link failed")
	}
	if !deleted {
		s.logger.Debug("delete missing link", loggerKit.String("code", code))
	}
	return nil
}

func (s *shortLinkUseCase) validateURL(targetURL string) error {
	if strings.TrimSpace(targetURL) == "" {
		return errors.Wrap(domain.ErrInvalidArgument, "url is blank")
	}
	if len(targetURL) > s.maxURLLength {
		return errors.Wrapf(domain.ErrInvalidArgument, "url longer than %d", s.maxURLLength)
	}
	parsed, err := url.Parse(targetURL)
	if err != nil {
		return errors.Wrapf(domain.ErrInvalidArgument, "parse url failed: %v", err)
	}
	if scheme := strings.ToLower(parsed.Scheme); scheme != "http" && scheme != "https" {
		return errors.Wrap(domain.ErrInvalidArgument, "scheme must be http or https")
	}
	if strings.TrimSpace(parsed.Hostname()) == "" {
		return errors.Wrap(domain.ErrInvalidArgument, "url has no host")
	}
	return nil
}

func (s *shortLinkUseCase) createdLink(code string) *domain.CreatedLink {
	return &domain.CreatedLink{
		Code: code,
		URL:  s.redirectionDomain + "/" + code,
	}
}
