package orm

import (
	"context"
	"database/sql"

	goMysql "github.com/go-sql-driver/mysql"
	"github.com/pkg/errors"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	ErrRecordNotFound = gorm.ErrRecordNotFound
	ErrDuplicatedKey  = gorm.ErrDuplicatedKey
)

type postgresConfig struct {
	dns string
}

type mySQLConfig struct {
	dns string
}

type sqliteConfig struct {
	fileName string
}

type DB struct {
	gormClient *gorm.DB

	dbType dbType

	mySQLConfig    *mySQLConfig
	sqliteConfig   *sqliteConfig
	postgresConfig *postgresConfig

	maxOpenConns int
}

type TX = gorm.DB

type dbType int

const (
	dbTypeUnknown dbType = iota
	dbTypeMySQL
	dbTypeSQLite
	dbTypePostgres
)

type Option func(*DB)

func UseMySQL(dns string) Option {
	return func(db *DB) {
		db.dbType = dbTypeMySQL
		db.mySQLConfig = &mySQLConfig{
			dns: dns,
		}
	}
}

func UsePostgres(dns string) Option {
	return func(db *DB) {
		db.dbType = dbTypePostgres
		db.postgresConfig = &postgresConfig{
			dns: dns,
		}
	}
}

func UseSQLite(fileName string) Option {
	return func(db *DB) {
		db.dbType = dbTypeSQLite
		db.sqliteConfig = &sqliteConfig{
			fileName: fileName,
		}
	}
}

func WithMaxOpenConns(maxOpenConns int) Option {
	return func(db *DB) {
		db.maxOpenConns = maxOpenConns
	}
}

func CreateDB(useDB Option, options ...Option) (*DB, error) {
	var gormDB DB

	useDB(&gormDB)
	for _, option := range options {
		option(&gormDB)
	}

	var dialector gorm.Dialector
	switch gormDB.dbType {
	case dbTypeMySQL:
		dialector = mysql.Open(gormDB.mySQLConfig.dns)
	case dbTypeSQLite:
		dialector = sqlite.Open(gormDB.sqliteConfig.fileName)
	case dbTypePostgres:
		dialector = postgres.Open(gormDB.postgresConfig.dns)
	default:
		return nil, errors.New("unknown db type")
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, errors.Wrap(err, "connect db failed")
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(err, "get core db failed")
	}
	if err := sqlDB.Ping(); err != nil {
		return nil, errors.Wrap(err, "ping core db failed")
	}
	if gormDB.maxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(gormDB.maxOpenConns)
	}

	gormDB.gormClient = db

	return &gormDB, nil
}

func (db *DB) IsMySQL() bool {
	return db.dbType == dbTypeMySQL
}

// WithContext returns the transaction bound to ctx by Transaction, or a new
// session on the pool when ctx carries none.
func (db *DB) WithContext(ctx context.Context) *TX {
	if txCtx, ok := ctx.Value(txContextKey{}).(*txContext); ok && txCtx.tx != nil {
		return txCtx.tx.WithContext(ctx)
	}
	return db.gormClient.WithContext(ctx)
}

// Conn pins a single pool connection. Session scoped state such as MySQL
// named locks lives and dies with it, so the caller must Close it.
func (db *DB) Conn(ctx context.Context) (*sql.Conn, error) {
	sqlDB, err := db.gormClient.DB()
	if err != nil {
		return nil, errors.Wrap(err, "get core db failed")
	}
	conn, err := sqlDB.Conn(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "get connection failed")
	}
	return conn, nil
}

func (db *DB) Exec(sql string, values ...interface{}) *TX {
	return db.gormClient.Exec(sql, values...)
}

func (db *DB) AutoMigrate(dst ...interface{}) error {
	return db.gormClient.AutoMigrate(dst...)
}

func (db *DB) Close() error {
	sqlDB, err := db.gormClient.DB()
	if err != nil {
		return errors.Wrap(err, "get core db failed")
	}
	return sqlDB.Close()
}

func IsDuplicatedKey(err error) bool {
	if errors.Is(err, ErrDuplicatedKey) {
		return true
	}
	var mysqlErr *goMysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == 1062
}
