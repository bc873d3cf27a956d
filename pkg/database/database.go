package database

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"strconv"
	"time"

	"github.com/locallibrary/locallibrary/pkg/config"
	"github.com/locallibrary/locallibrary/pkg/models"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

type key int

const ctxKey key = 0

func WithLogging(ctx context.Context) context.Context {
	return context.WithValue(ctx, ctxKey, true)
}

type logQueryHook struct {
	log logger.Logger
	all bool
}

func (*logQueryHook) BeforeQuery(ctx context.Context, _ *bun.QueryEvent) context.Context {
	return ctx
}

func (qh *logQueryHook) AfterQuery(ctx context.Context, event *bun.QueryEvent) {
	enabled, _ := ctx.Value(ctxKey).(bool)
	if !qh.all && !enabled {
		return
	}

	qh.log.Debug(event.Query, logger.Data{"duration_ms": time.Since(event.StartTime).Milliseconds()})
}

// Options controls how a connection to the catalog store is opened.
type Options struct {
	BusyTimeout time.Duration
	MaxRetries  int
	Debug       bool
}

// Open opens the SQLite database at dsn. Every connection handed out by the
// pool has foreign keys enforced and a busy timeout set, and the pool is
// limited to one connection so writes are serialized.
func Open(dsn string, opts Options) (*bun.DB, error) {
	drv := sqliteshim.Driver()
	var connector driver.Connector
	if drvCtx, ok := drv.(driver.DriverContext); ok {
		c, err := drvCtx.OpenConnector(dsn)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		connector = c
	} else {
		connector = dsnConnector{drv: drv, dsn: dsn}
	}

	pragmas := []string{
		"PRAGMA foreign_keys = ON",
	}
	if opts.BusyTimeout > 0 {
		pragmas = append(pragmas, "PRAGMA busy_timeout = "+strconv.FormatInt(opts.BusyTimeout.Milliseconds(), 10))
	}

	sqldb := sql.OpenDB(&sessionConnector{
		Connector: connector,
		pragmas:   pragmas,
		backoff:   newBackoff(opts.MaxRetries),
	})
	sqldb.SetMaxOpenConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())
	// Join model for the books <-> genres m2m relation.
	db.RegisterModel((*models.BookGenre)(nil))

	// print out all queries in debug mode
	if opts.Debug {
		db.AddQueryHook(&logQueryHook{log: logger.NewWithLevel("debug"), all: true})
	}

	return db, nil
}

func New(cfg *config.Config) (*bun.DB, error) {
	db, err := Open(cfg.DatabaseFilePath, Options{
		BusyTimeout: cfg.DatabaseBusyTimeout,
		MaxRetries:  cfg.DatabaseMaxRetries,
		Debug:       cfg.DatabaseDebug,
	})
	if err != nil {
		return nil, err
	}

	// Retry up to a few times to ensure that the database can connect.
	for i := 0; i < cfg.DatabaseConnectRetryCount; i++ {
		_, err = db.Exec("SELECT 1")
		if err != nil {
			time.Sleep(cfg.DatabaseConnectRetryDelay)
			continue
		}
		break
	}
	if err != nil {
		return nil, errors.WithStack(err)
	}

	// WAL mode allows concurrent reads during writes.
	_, err = db.Exec("PRAGMA journal_mode=WAL")
	if err != nil {
		return nil, errors.Wrap(err, "failed to enable WAL mode")
	}

	return db, nil
}
