package memory

import (
	"bytes"
	"context"
	"sort"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/superj80820/url-shortener/domain"
)

type shortLinkRepo struct {
	lock   sync.RWMutex
	byID   map[int64]*domain.ShortLink
	byCode map[string]int64
}

// CreateShortLinkRepo keeps links in process memory. It is meant for tests
// and single-process development runs.
func CreateShortLinkRepo() domain.ShortLinkRepo {
	return &shortLinkRepo{
		byID:   make(map[int64]*domain.ShortLink),
		byCode: make(map[string]int64),
	}
}

func copyLink(link *domain.ShortLink) *domain.ShortLink {
	copied := *link
	copied.ContentDigest = append([]byte(nil), link.ContentDigest...)
	return &copied
}

func (s *shortLinkRepo) Create(ctx context.Context, link *domain.ShortLink) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if _, ok := s.byCode[link.Code]; ok {
		return errors.Wrap(domain.ErrDuplicate, "code "+link.Code)
	}
	if _, ok := s.byID[link.ID]; ok {
		return errors.Wrap(domain.ErrDuplicate, "id")
	}

	now := time.Now().UTC()
	stored := copyLink(link)
	stored.ExpiresAt = link.ExpiresAt.UTC().Truncate(time.Millisecond)
	stored.CreatedAt = now
	stored.UpdatedAt = now

	s.byID[stored.ID] = stored
	s.byCode[stored.Code] = stored.ID
	*link = *copyLink(stored)
	return nil
}

func (s *shortLinkRepo) GetByCode(ctx context.Context, code string) (*domain.ShortLink, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	id, ok := s.byCode[code]
	if !ok {
		return nil, errors.Wrap(domain.ErrNoData, "code "+code)
	}
	return copyLink(s.byID[id]), nil
}

func (s *shortLinkRepo) GetLiveByDigest(ctx context.Context, digest []byte, now time.Time) ([]*domain.ShortLink, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	var links []*domain.ShortLink
	for _, link := range s.byID {
		if bytes.Equal(link.ContentDigest, digest) && link.ExpiresAt.After(now) {
			links = append(links, copyLink(link))
		}
	}
	sort.Slice(links, func(i, j int) bool { return links[i].ID < links[j].ID })
	return links, nil
}

func (s *shortLinkRepo) DeleteByCode(ctx context.Context, code string) (bool, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	id, ok := s.byCode[code]
	if !ok {
		return false, nil
	}
	delete(s.byCode, code)
	delete(s.byID, id)
	return true, nil
}

func (s *shortLinkRepo) GetExpiredPage(ctx context.Context, maxExpirationTime time.Time, cursor *domain.SweepCursor, limit int) ([]*domain.SweepCursor, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	var page []*domain.SweepCursor
	for _, link := range s.byID {
		if link.ExpiresAt.After(maxExpirationTime) {
			continue
		}
		if cursor != nil && !isAfterCursor(link, cursor) {
			continue
		}
		page = append(page, &domain.SweepCursor{ExpiresAt: link.ExpiresAt, ID: link.ID})
	}
	sort.Slice(page, func(i, j int) bool {
		if !page[i].ExpiresAt.Equal(page[j].ExpiresAt) {
			return page[i].ExpiresAt.Before(page[j].ExpiresAt)
		}
		return page[i].ID < page[j].ID
	})
	if len(page) > limit {
		page = page[:limit]
	}
	return page, nil
}

func isAfterCursor(link *domain.ShortLink, cursor *domain.SweepCursor) bool {
	if link.ExpiresAt.After(cursor.ExpiresAt) {
		return true
	}
	return link.ExpiresAt.Equal(cursor.ExpiresAt) && link.ID > cursor.ID
}

func (s *shortLinkRepo) DeleteByIDs(ctx context.Context, ids []int64) (int64, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	var deleted int64
	for _, id := range ids {
		link, ok := s.byID[id]
		if !ok {
			continue
		}
		delete(s.byCode, link.Code)
		delete(s.byID, id)
		deleted++
	}
	return deleted, nil
}
