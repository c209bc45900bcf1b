package orm

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type counterEntity struct {
	ID    int64 `gorm:"primaryKey"`
	Value string
}

func (counterEntity) TableName() string {
	return "counter"
}

func createTestDB(t *testing.T) *DB {
	db, err := CreateDB(UseSQLite(filepath.Join(t.TempDir(), "orm.db")), WithMaxOpenConns(1))
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&counterEntity{}))
	t.Cleanup(func() { db.Close() })
	return db
}

func TestTransaction(t *testing.T) {
	testCases := []struct {
		scenario string
		fn       func(t *testing.T)
	}{
		{
			scenario: "after completion hook runs after commit",
			fn: func(t *testing.T) {
				db := createTestDB(t)
				ctx := context.Background()

				var visibleInHook int64 = -1
				err := db.Transaction(ctx, func(ctx context.Context) error {
					assert.True(t, AfterCompletion(ctx, func() {
						db.WithContext(context.Background()).Model(&counterEntity{}).Count(&visibleInHook)
					}))
					return db.WithContext(ctx).Create(&counterEntity{ID: 1, Value: "a"}).Error
				})
				require.NoError(t, err)
				assert.Equal(t, int64(1), visibleInHook)
			},
		},
		{
			scenario: "after completion hook runs after rollback",
			fn: func(t *testing.T) {
				db := createTestDB(t)
				ctx := context.Background()

				called := 0
				rollbackErr := errors.New("rollback")
				err := db.Transaction(ctx, func(ctx context.Context) error {
					AfterCompletion(ctx, func() { called++ })
					if err := db.WithContext(ctx).Create(&counterEntity{ID: 1, Value: "a"}).Error; err != nil {
						return err
					}
					assert.Equal(t, 0, called)
					return rollbackErr
				})
				assert.ErrorIs(t, err, rollbackErr)
				assert.Equal(t, 1, called)

				var count int64
				require.NoError(t, db.WithContext(ctx).Model(&counterEntity{}).Count(&count).Error)
				assert.Equal(t, int64(0), count)
			},
		},
		{
			scenario: "nested transaction joins the outer one",
			fn: func(t *testing.T) {
				db := createTestDB(t)
				ctx := context.Background()

				var order []string
				err := db.Transaction(ctx, func(ctx context.Context) error {
					err := db.Transaction(ctx, func(ctx context.Context) error {
						AfterCompletion(ctx, func() { order = append(order, "inner") })
						return nil
					})
					order = append(order, "outer body")
					return err
				})
				require.NoError(t, err)
				assert.Equal(t, []string{"outer body", "inner"}, order)
			},
		},
		{
			scenario: "no transaction in context",
			fn: func(t *testing.T) {
				assert.False(t, AfterCompletion(context.Background(), func() {}))
			},
		},
		{
			scenario: "failed statement rolls back to its savepoint only",
			fn: func(t *testing.T) {
				db := createTestDB(t)
				ctx := context.Background()

				err := db.Transaction(ctx, func(ctx context.Context) error {
					require.NoError(t, db.WithContext(ctx).Create(&counterEntity{ID: 1, Value: "a"}).Error)

					err := db.SavePoint(ctx, "counter_create", func(ctx context.Context) error {
						require.NoError(t, db.WithContext(ctx).Create(&counterEntity{ID: 2, Value: "b"}).Error)
						return db.WithContext(ctx).Create(&counterEntity{ID: 1, Value: "c"}).Error
					})
					assert.True(t, IsDuplicatedKey(err))

					return db.SavePoint(ctx, "counter_create", func(ctx context.Context) error {
						return db.WithContext(ctx).Create(&counterEntity{ID: 3, Value: "d"}).Error
					})
				})
				require.NoError(t, err)

				var ids []int64
				require.NoError(t, db.WithContext(ctx).Model(&counterEntity{}).Order("id").Pluck("id", &ids).Error)
				assert.Equal(t, []int64{1, 3}, ids)
			},
		},
		{
			scenario: "savepoint without transaction only runs fc",
			fn: func(t *testing.T) {
				db := createTestDB(t)
				ctx := context.Background()

				err := db.SavePoint(ctx, "counter_create", func(ctx context.Context) error {
					return db.WithContext(ctx).Create(&counterEntity{ID: 1, Value: "a"}).Error
				})
				require.NoError(t, err)

				var count int64
				require.NoError(t, db.WithContext(ctx).Model(&counterEntity{}).Count(&count).Error)
				assert.Equal(t, int64(1), count)
			},
		},
		{
			scenario: "duplicated primary key is translated",
			fn: func(t *testing.T) {
				db := createTestDB(t)
				ctx := context.Background()

				require.NoError(t, db.WithContext(ctx).Create(&counterEntity{ID: 1, Value: "a"}).Error)
				err := db.WithContext(ctx).Create(&counterEntity{ID: 1, Value: "b"}).Error
				assert.True(t, IsDuplicatedKey(err))
				assert.False(t, IsDuplicatedKey(errors.New("other")))
			},
		},
	}
	for _, testCase := range testCases {
		t.Run(testCase.scenario, testCase.fn)
	}
}
