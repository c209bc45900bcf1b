package mysql

import (
	"context"
	"database/sql"
	"math"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/superj80820/url-shortener/domain"
	loggerKit "github.com/superj80820/url-shortener/kit/logger"
	ormKit "github.com/superj80820/url-shortener/kit/orm"
)

// dedupLockRepo uses MySQL named locks. GET_LOCK belongs to the session that
// took it, so every held lock pins its own connection until Release.
type dedupLockRepo struct {
	db     *ormKit.DB
	logger *loggerKit.Logger

	lock  sync.Mutex
	conns map[string]*sql.Conn
}

func CreateDedupLockRepo(db *ormKit.DB, logger *loggerKit.Logger) (domain.DedupLockRepo, error) {
	if !db.IsMySQL() {
		return nil, errors.New("mysql dedup lock needs a mysql database")
	}
	return &dedupLockRepo{
		db:     db,
		logger: logger,
		conns:  make(map[string]*sql.Conn),
	}, nil
}

func (d *dedupLockRepo) Acquire(ctx context.Context, name string, timeout time.Duration) (bool, error) {
	conn, err := d.db.Conn(ctx)
	if err != nil {
		return false, errors.Wrap(err, "get lock connection failed")
	}

	var result sql.NullInt64
	if err := conn.QueryRowContext(ctx, "SELECT GET_LOCK(?, ?)", name, int(math.Ceil(timeout.Seconds()))).Scan(&result); err != nil {
		conn.Close()
		return false, errors.Wrap(err, "get lock failed")
	}
	if !result.Valid || result.Int64 != 1 {
		conn.Close()
		return false, nil
	}

	d.lock.Lock()
	d.conns[name] = conn
	d.lock.Unlock()

	return true, nil
}

func (d *dedupLockRepo) Release(ctx context.Context, name string) {
	d.lock.Lock()
	conn, ok := d.conns[name]
	delete(d.conns, name)
	d.lock.Unlock()

	if !ok {
		d.logger.Warn("release lock not held", loggerKit.String("name", name))
		return
	}
	defer conn.Close()

	var result sql.NullInt64
	if err := conn.QueryRowContext(context.WithoutCancel(ctx), "SELECT RELEASE_LOCK(?)", name).Scan(&result); err != nil {
		d.logger.Error("release lock failed", loggerKit.String("name", name), loggerKit.Error(err))
		return
	}
	if !result.Valid || result.Int64 != 1 {
		d.logger.Warn("release lock not owned by session", loggerKit.String("name", name))
	}
}
