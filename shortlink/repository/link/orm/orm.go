package orm

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/superj80820/url-shortener/domain"
	ormKit "github.com/superj80820/url-shortener/kit/orm"
)

type shortLinkEntity struct {
	ID            int64     `gorm:"primaryKey;autoIncrement:false;index:idx_short_link_expires_at_id,priority:2"`
	ContentDigest []byte    `gorm:"not null;index:idx_short_link_content_digest"`
	Code          string    `gorm:"size:16;not null;uniqueIndex:uk_short_link_code"`
	TargetURL     string    `gorm:"size:2048;not null"`
	ExpiresAt     time.Time `gorm:"not null;index:idx_short_link_expires_at_id,priority:1"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (shortLinkEntity) TableName() string {
	return "short_link"
}

func (s *shortLinkEntity) toDomain() *domain.ShortLink {
	return &domain.ShortLink{
		ID:            s.ID,
		ContentDigest: s.ContentDigest,
		Code:          s.Code,
		TargetURL:     s.TargetURL,
		ExpiresAt:     s.ExpiresAt.UTC(),
		CreatedAt:     s.CreatedAt.UTC(),
		UpdatedAt:     s.UpdatedAt.UTC(),
	}
}

type expiredLinkEntity struct {
	ID        int64
	ExpiresAt time.Time
}

// storeTime keeps every comparison on the same representation: UTC with
// millisecond precision, which is what DATETIME(3) holds.
func storeTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Millisecond)
}

type shortLinkRepo struct {
	db *ormKit.DB
}

func CreateShortLinkRepo(db *ormKit.DB) domain.ShortLinkRepo {
	return &shortLinkRepo{
		db: db,
	}
}

// AutoMigrate creates the short_link table for databases that are not set up
// with schema.sql.
func AutoMigrate(db *ormKit.DB) error {
	if err := db.AutoMigrate(&shortLinkEntity{}); err != nil {
		return errors.Wrap(err, "auto migrate short link failed")
	}
	return nil
}

func (s *shortLinkRepo) Create(ctx context.Context, link *domain.ShortLink) error {
	entity := shortLinkEntity{
		ID:            link.ID,
		ContentDigest: link.ContentDigest,
		Code:          link.Code,
		TargetURL:     link.TargetURL,
		ExpiresAt:     storeTime(link.ExpiresAt),
	}
	// a duplicate code aborts a postgres transaction, the savepoint keeps the
	// caller's transaction open for the next code
	err := s.db.SavePoint(ctx, "short_link_create", func(ctx context.Context) error {
		return s.db.WithContext(ctx).Create(&entity).Error
	})
	if ormKit.IsDuplicatedKey(err) {
		return errors.Wrap(domain.ErrDuplicate, "code "+link.Code)
	} else if err != nil {
		return errors.Wrap(err, "create short link failed")
	}
	*link = *entity.toDomain()
	return nil
}

func (s *shortLinkRepo) GetByCode(ctx context.Context, code string) (*domain.ShortLink, error) {
	var entity shortLinkEntity
	err := s.db.WithContext(ctx).Where("code = ?", code).First(&entity).Error
	if errors.Is(err, ormKit.ErrRecordNotFound) {
		return nil, errors.Wrap(domain.ErrNoData, "code "+code)
	} else if err != nil {
		return nil, errors.Wrap(err, "get short link failed")
	}
	return entity.toDomain(), nil
}

func (s *shortLinkRepo) GetLiveByDigest(ctx context.Context, digest []byte, now time.Time) ([]*domain.ShortLink, error) {
	var entities []*shortLinkEntity
	if err := s.db.WithContext(ctx).
		Where("content_digest = ? AND expires_at > ?", digest, storeTime(now)).
		Order("id").
		Find(&entities).Error; err != nil {
		return nil, errors.Wrap(err, "get live short links failed")
	}
	links := make([]*domain.ShortLink, len(entities))
	for idx, entity := range entities {
		links[idx] = entity.toDomain()
	}
	return links, nil
}

func (s *shortLinkRepo) DeleteByCode(ctx context.Context, code string) (bool, error) {
	result := s.db.WithContext(ctx).Where("code = ?", code).Delete(&shortLinkEntity{})
	if result.Error != nil {
		return false, errors.Wrap(result.Error, "delete short link failed")
	}
	return result.RowsAffected > 0, nil
}

func (s *shortLinkRepo) GetExpiredPage(ctx context.Context, maxExpirationTime time.Time, cursor *domain.SweepCursor, limit int) ([]*domain.SweepCursor, error) {
	query := s.db.WithContext(ctx).
		Model(&shortLinkEntity{}).
		Select("id", "expires_at").
		Where("expires_at <= ?", storeTime(maxExpirationTime))
	if cursor != nil {
		cursorTime := storeTime(cursor.ExpiresAt)
		query = query.Where("(expires_at > ? OR (expires_at = ? AND id > ?))", cursorTime, cursorTime, cursor.ID)
	}

	var entities []*expiredLinkEntity
	if err := query.
		Order("expires_at ASC").
		Order("id ASC").
		Limit(limit).
		Find(&entities).Error; err != nil {
		return nil, errors.Wrap(err, "get expired short links failed")
	}

	page := make([]*domain.SweepCursor, len(entities))
	for idx, entity := range entities {
		page[idx] = &domain.SweepCursor{
			ExpiresAt: entity.ExpiresAt.UTC(),
			ID:        entity.ID,
		}
	}
	return page, nil
}

func (s *shortLinkRepo) DeleteByIDs(ctx context.Context, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := s.db.WithContext(ctx).Where("id IN ?", ids).Delete(&shortLinkEntity{})
	if result.Error != nil {
		return 0, errors.Wrap(result.Error, "delete short links failed")
	}
	return result.RowsAffected, nil
}
