package reports

import (
	"context"
	"time"

	"github.com/locallibrary/locallibrary/pkg/auth"
	"github.com/locallibrary/locallibrary/pkg/errcodes"
	"github.com/locallibrary/locallibrary/pkg/models"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/uptrace/bun"
)

// HomeStats are the catalog totals shown on the landing page.
type HomeStats struct {
	NumBooks              int `json:"num_books"`
	NumInstances          int `json:"num_instances"`
	NumInstancesAvailable int `json:"num_instances_available"`
	NumAuthors            int `json:"num_authors"`
	NumGenres             int `json:"num_genres"`
	// NumBooksWithThe counts titles containing "the" in any case.
	NumBooksWithThe int `json:"num_books_with_the"`
}

type LoanListOptions struct {
	Limit  *int
	Offset *int
}

type Service struct {
	db  *bun.DB
	now func() time.Time
}

func NewService(db *bun.DB) *Service {
	return &Service{db: db, now: time.Now}
}

func (svc *Service) Home(ctx context.Context) (*HomeStats, error) {
	stats := &HomeStats{}

	counts := []struct {
		dest *int
		q    *bun.SelectQuery
	}{
		{&stats.NumBooks, svc.db.NewSelect().Model((*models.Book)(nil))},
		{&stats.NumInstances, svc.db.NewSelect().Model((*models.BookInstance)(nil))},
		{&stats.NumInstancesAvailable, svc.db.NewSelect().Model((*models.BookInstance)(nil)).Where("bi.status = ?", models.StatusAvailable)},
		{&stats.NumAuthors, svc.db.NewSelect().Model((*models.Author)(nil))},
		{&stats.NumGenres, svc.db.NewSelect().Model((*models.Genre)(nil))},
		{&stats.NumBooksWithThe, svc.db.NewSelect().Model((*models.Book)(nil)).Where("LOWER(b.title) LIKE ?", "%the%")},
	}

	for _, c := range counts {
		n, err := c.q.Count(ctx)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		*c.dest = n
	}

	return stats, nil
}

// MyLoans lists the copies the caller currently has out, soonest due first.
func (svc *Service) MyLoans(ctx context.Context, caller models.Caller, opts LoanListOptions) ([]*models.BookInstance, int, error) {
	if caller.UserID == 0 {
		return nil, 0, errcodes.Unauthorized("Authentication required")
	}

	return svc.listLoans(ctx, opts, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("bi.borrower_id = ?", caller.UserID)
	})
}

// AllBorrowed lists every copy that's on loan, soonest due first. Only
// callers who can manage loans may see it.
func (svc *Service) AllBorrowed(ctx context.Context, caller models.Caller, opts LoanListOptions) ([]*models.BookInstance, int, error) {
	if err := auth.Require(caller, models.CapabilityMarkReturned); err != nil {
		return nil, 0, err
	}

	return svc.listLoans(ctx, opts, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Relation("Borrower").Where("bi.borrower_id IS NOT NULL")
	})
}

// Overdue is the part of AllBorrowed whose due date has passed.
func (svc *Service) Overdue(ctx context.Context, caller models.Caller) ([]*models.BookInstance, error) {
	loans, _, err := svc.AllBorrowed(ctx, caller, LoanListOptions{})
	if err != nil {
		return nil, err
	}

	return lo.Filter(loans, func(bi *models.BookInstance, _ int) bool {
		return bi.IsOverdue
	}), nil
}

func (svc *Service) listLoans(ctx context.Context, opts LoanListOptions, scope func(*bun.SelectQuery) *bun.SelectQuery) ([]*models.BookInstance, int, error) {
	instances := []*models.BookInstance{}

	q := svc.db.
		NewSelect().
		Model(&instances).
		Relation("Book").
		Where("bi.status = ?", models.StatusOnLoan).
		Order("bi.due_back ASC", "bi.id ASC")
	q = scope(q)

	if opts.Limit != nil {
		q = q.Limit(*opts.Limit)
	}
	if opts.Offset != nil {
		q = q.Offset(*opts.Offset)
	}

	total, err := q.ScanAndCount(ctx)
	if err != nil {
		return nil, 0, errors.WithStack(err)
	}

	today := models.DateOf(svc.now())
	lo.ForEach(instances, func(bi *models.BookInstance, _ int) {
		bi.MarkOverdue(today)
	})

	return instances, total, nil
}
