package database

import (
	"context"
	"database/sql/driver"
	"math/rand"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/samber/lo"
)

// Messages both sqlite drivers behind sqliteshim use when another
// connection holds the lock.
var busyMarkers = []string{
	"database is locked",
	"database table is locked",
	"SQLITE_BUSY",
	"SQLITE_LOCKED",
	"(5)",
	"(6)",
}

func isBusyError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return lo.ContainsBy(busyMarkers, func(marker string) bool {
		return strings.Contains(msg, marker)
	})
}

// backoff retries busy errors with exponential delays and up to 25% jitter.
type backoff struct {
	retries int
	base    time.Duration
	max     time.Duration
}

func newBackoff(retries int) backoff {
	return backoff{retries: retries, base: 50 * time.Millisecond, max: 2 * time.Second}
}

func (b backoff) delay(attempt int) time.Duration {
	d := b.base << attempt
	if d <= 0 || d > b.max {
		return b.max
	}
	d += time.Duration(rand.Int63n(int64(d/4) + 1))
	return min(d, b.max)
}

func (b backoff) do(ctx context.Context, fn func() error) error {
	for attempt := 0; ; attempt++ {
		err := fn()
		if !isBusyError(err) || attempt >= b.retries {
			return err
		}

		if ctx.Err() != nil {
			return ctx.Err()
		}
		t := time.NewTimer(b.delay(attempt))
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
	}
}

// dsnConnector adapts a driver without OpenConnector support.
type dsnConnector struct {
	drv driver.Driver
	dsn string
}

func (c dsnConnector) Connect(context.Context) (driver.Conn, error) {
	return c.drv.Open(c.dsn)
}

func (c dsnConnector) Driver() driver.Driver {
	return c.drv
}

// sessionConnector applies connection-scoped pragmas to every new connection
// and retries busy errors on everything the connection runs.
type sessionConnector struct {
	driver.Connector
	pragmas []string
	backoff backoff
}

func (sc *sessionConnector) Connect(ctx context.Context) (driver.Conn, error) {
	raw, err := sc.Connector.Connect(ctx)
	if err != nil {
		return nil, err
	}
	conn := &busyConn{Conn: raw, backoff: sc.backoff}
	for _, pragma := range sc.pragmas {
		if err := conn.execPragma(ctx, pragma); err != nil {
			_ = raw.Close()
			return nil, errors.Wrapf(err, "failed to apply %q", pragma)
		}
	}
	return conn, nil
}

// busyConn is a driver connection whose transactions, statements and queries
// are retried while the database is locked.
type busyConn struct {
	driver.Conn
	backoff backoff
}

func (c *busyConn) execPragma(ctx context.Context, pragma string) error {
	stmt, err := c.PrepareContext(ctx, pragma)
	if err != nil {
		return err
	}
	defer stmt.Close()
	_, err = stmt.(driver.StmtExecContext).ExecContext(ctx, nil)
	return err
}

func (c *busyConn) BeginTx(ctx context.Context, opts driver.TxOptions) (tx driver.Tx, err error) {
	err = c.backoff.do(ctx, func() error {
		if b, ok := c.Conn.(driver.ConnBeginTx); ok {
			tx, err = b.BeginTx(ctx, opts)
		} else {
			tx, err = c.Conn.Begin() //nolint:staticcheck // fallback for drivers without BeginTx
		}
		return err
	})
	return tx, err
}

func (c *busyConn) PrepareContext(ctx context.Context, query string) (driver.Stmt, error) {
	var (
		stmt driver.Stmt
		err  error
	)
	if p, ok := c.Conn.(driver.ConnPrepareContext); ok {
		stmt, err = p.PrepareContext(ctx, query)
	} else {
		stmt, err = c.Conn.Prepare(query)
	}
	if err != nil {
		return nil, err
	}
	return &busyStmt{Stmt: stmt, backoff: c.backoff}, nil
}

func (c *busyConn) ExecContext(ctx context.Context, query string, args []driver.NamedValue) (res driver.Result, err error) {
	e, ok := c.Conn.(driver.ExecerContext)
	if !ok {
		return nil, driver.ErrSkip
	}
	err = c.backoff.do(ctx, func() error {
		res, err = e.ExecContext(ctx, query, args)
		return err
	})
	return res, err
}

func (c *busyConn) QueryContext(ctx context.Context, query string, args []driver.NamedValue) (rows driver.Rows, err error) {
	q, ok := c.Conn.(driver.QueryerContext)
	if !ok {
		return nil, driver.ErrSkip
	}
	err = c.backoff.do(ctx, func() error {
		rows, err = q.QueryContext(ctx, query, args)
		return err
	})
	return rows, err
}

func (c *busyConn) ResetSession(ctx context.Context) error {
	if r, ok := c.Conn.(driver.SessionResetter); ok {
		return r.ResetSession(ctx)
	}
	return nil
}

func (c *busyConn) IsValid() bool {
	if v, ok := c.Conn.(driver.Validator); ok {
		return v.IsValid()
	}
	return true
}

// busyStmt retries prepared statement execution while the database is
// locked.
type busyStmt struct {
	driver.Stmt
	backoff backoff
}

func (s *busyStmt) ExecContext(ctx context.Context, args []driver.NamedValue) (res driver.Result, err error) {
	err = s.backoff.do(ctx, func() error {
		if e, ok := s.Stmt.(driver.StmtExecContext); ok {
			res, err = e.ExecContext(ctx, args)
		} else {
			res, err = s.Stmt.Exec(namedToValues(args)) //nolint:staticcheck // fallback for legacy statements
		}
		return err
	})
	return res, err
}

func (s *busyStmt) QueryContext(ctx context.Context, args []driver.NamedValue) (rows driver.Rows, err error) {
	err = s.backoff.do(ctx, func() error {
		if q, ok := s.Stmt.(driver.StmtQueryContext); ok {
			rows, err = q.QueryContext(ctx, args)
		} else {
			rows, err = s.Stmt.Query(namedToValues(args)) //nolint:staticcheck // fallback for legacy statements
		}
		return err
	})
	return rows, err
}

func namedToValues(args []driver.NamedValue) []driver.Value {
	return lo.Map(args, func(arg driver.NamedValue, _ int) driver.Value {
		return arg.Value
	})
}
