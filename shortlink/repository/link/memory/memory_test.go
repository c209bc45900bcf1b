package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/superj80820/url-shortener/domain"
	utilKit "github.com/superj80820/url-shortener/kit/util"
)

func TestShortLinkRepo(t *testing.T) {
	base := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	link := func(id int64, code, url string, expiresAt time.Time) *domain.ShortLink {
		return &domain.ShortLink{
			ID:            id,
			ContentDigest: utilKit.GetSHA256Bytes(url),
			Code:          code,
			TargetURL:     url,
			ExpiresAt:     expiresAt,
		}
	}

	testCases := []struct {
		scenario string
		fn       func(t *testing.T)
	}{
		{
			scenario: "create get and delete",
			fn: func(t *testing.T) {
				repo := CreateShortLinkRepo()
				ctx := context.Background()

				created := link(1, "aB3Xy9Km", "https://example.com/a", base)
				require.NoError(t, repo.Create(ctx, created))
				assert.False(t, created.CreatedAt.IsZero())

				assert.ErrorIs(t, repo.Create(ctx, link(2, "aB3Xy9Km", "https://example.com/b", base)), domain.ErrDuplicate)

				got, err := repo.GetByCode(ctx, "aB3Xy9Km")
				require.NoError(t, err)
				assert.Equal(t, "https://example.com/a", got.TargetURL)

				got.ContentDigest[0] ^= 0xff
				again, err := repo.GetByCode(ctx, "aB3Xy9Km")
				require.NoError(t, err)
				assert.Equal(t, utilKit.GetSHA256Bytes("https://example.com/a"), again.ContentDigest)

				deleted, err := repo.DeleteByCode(ctx, "aB3Xy9Km")
				require.NoError(t, err)
				assert.True(t, deleted)
				deleted, err = repo.DeleteByCode(ctx, "aB3Xy9Km")
				require.NoError(t, err)
				assert.False(t, deleted)

				_, err = repo.GetByCode(ctx, "aB3Xy9Km")
				assert.ErrorIs(t, err, domain.ErrNoData)
			},
		},
		{
			scenario: "live by digest",
			fn: func(t *testing.T) {
				repo := CreateShortLinkRepo()
				ctx := context.Background()

				url := "https://example.com/a"
				require.NoError(t, repo.Create(ctx, link(1, "expired1", url, base)))
				require.NoError(t, repo.Create(ctx, link(2, "live0002", url, base.Add(time.Second))))

				links, err := repo.GetLiveByDigest(ctx, utilKit.GetSHA256Bytes(url), base)
				require.NoError(t, err)
				require.Len(t, links, 1)
				assert.Equal(t, "live0002", links[0].Code)
			},
		},
		{
			scenario: "expired pages in keyset order",
			fn: func(t *testing.T) {
				repo := CreateShortLinkRepo()
				ctx := context.Background()

				groups := []time.Time{base.Add(-3 * time.Hour), base.Add(-2 * time.Hour), base.Add(-time.Hour)}
				rows := []struct {
					id    int64
					group int
				}{{5, 0}, {2, 0}, {8, 0}, {3, 1}, {7, 1}, {1, 2}, {6, 2}, {4, 2}}
				for _, row := range rows {
					code := "code000" + string(rune('0'+row.id))
					require.NoError(t, repo.Create(ctx, link(row.id, code, "https://example.com/"+code, groups[row.group])))
				}

				var (
					cursor  *domain.SweepCursor
					visited []int64
				)
				for {
					page, err := repo.GetExpiredPage(ctx, base, cursor, 3)
					require.NoError(t, err)
					if len(page) == 0 {
						break
					}
					for _, row := range page {
						visited = append(visited, row.ID)
					}
					cursor = page[len(page)-1]
				}
				assert.Equal(t, []int64{2, 5, 8, 3, 7, 1, 4, 6}, visited)

				deleted, err := repo.DeleteByIDs(ctx, visited)
				require.NoError(t, err)
				assert.Equal(t, int64(8), deleted)
			},
		},
	}
	for _, testCase := range testCases {
		t.Run(testCase.scenario, testCase.fn)
	}
}
