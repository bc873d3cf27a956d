package bookinstances

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/locallibrary/locallibrary/pkg/auth"
	"github.com/locallibrary/locallibrary/pkg/errcodes"
	"github.com/locallibrary/locallibrary/pkg/models"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/samber/lo"
	"github.com/uptrace/bun"
)

const (
	// MaxLoanDays is how far ahead a due date may be set, counted from today.
	MaxLoanDays = 28
	// DefaultLoanDays is the due date proposed for renewals and checkouts.
	DefaultLoanDays = 21
)

type RetrieveInstanceOptions struct {
	ID *string
}

type ListInstancesOptions struct {
	Limit      *int
	Offset     *int
	BookID     *int
	Status     *string
	BorrowerID *int

	includeTotal bool
}

type UpdateInstanceOptions struct {
	Columns []string
}

// RenewalProposal is what a librarian is shown before renewing: the copy and
// the due date that's suggested by default.
type RenewalProposal struct {
	Instance        *models.BookInstance `json:"instance"`
	ProposedDueBack models.Date          `json:"proposed_due_back"`
}

type Service struct {
	db  *bun.DB
	now func() time.Time
}

func NewService(db *bun.DB) *Service {
	return &Service{db: db, now: time.Now}
}

// Today is the current calendar date in the server's time zone.
func (svc *Service) Today() models.Date {
	return models.DateOf(svc.now())
}

// DefaultDueBack is today plus DefaultLoanDays.
func (svc *Service) DefaultDueBack() models.Date {
	return svc.Today().AddDays(DefaultLoanDays)
}

func (svc *Service) CreateInstance(ctx context.Context, instance *models.BookInstance, caller models.Caller) error {
	if err := auth.Require(caller, models.CapabilityAddBookInstance); err != nil {
		return err
	}

	if instance.Status == "" {
		instance.Status = models.StatusMaintenance
	}
	if err := validateStatusChange("", instance.Status); err != nil {
		return err
	}

	now := time.Now()
	if instance.CreatedAt.IsZero() {
		instance.CreatedAt = now
	}
	instance.UpdatedAt = instance.CreatedAt
	if instance.ID == "" {
		id, err := uuid.NewRandom()
		if err != nil {
			return errors.WithStack(err)
		}
		instance.ID = id.String()
	}

	err := svc.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		exists, err := tx.NewSelect().
			Model((*models.Book)(nil)).
			Where("b.id = ?", instance.BookID).
			Exists(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		if !exists {
			return errcodes.ValidationError(`"book_id" doesn't reference an existing book`)
		}

		_, err = tx.
			NewInsert().
			Model(instance).
			Returning("*").
			Exec(ctx)
		return errors.WithStack(err)
	})
	if err != nil {
		return errors.WithStack(err)
	}

	instance.MarkOverdue(svc.Today())
	return nil
}

func (svc *Service) RetrieveInstance(ctx context.Context, opts RetrieveInstanceOptions) (*models.BookInstance, error) {
	instance := &models.BookInstance{}

	q := svc.db.
		NewSelect().
		Model(instance).
		Relation("Book").
		Relation("Borrower")

	if opts.ID != nil {
		id, ok := normalizeID(*opts.ID)
		if !ok {
			return nil, errcodes.NotFound("Book instance")
		}
		q = q.Where("bi.id = ?", id)
	}

	err := q.Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Book instance")
		}
		return nil, errors.WithStack(err)
	}

	instance.MarkOverdue(svc.Today())
	return instance, nil
}

func (svc *Service) ListInstances(ctx context.Context, opts ListInstancesOptions) ([]*models.BookInstance, error) {
	i, _, err := svc.listInstancesWithTotal(ctx, opts)
	return i, errors.WithStack(err)
}

func (svc *Service) ListInstancesWithTotal(ctx context.Context, opts ListInstancesOptions) ([]*models.BookInstance, int, error) {
	opts.includeTotal = true
	return svc.listInstancesWithTotal(ctx, opts)
}

// listInstancesWithTotal orders by due date. Copies without one sort first.
func (svc *Service) listInstancesWithTotal(ctx context.Context, opts ListInstancesOptions) ([]*models.BookInstance, int, error) {
	instances := []*models.BookInstance{}
	var total int
	var err error

	q := svc.db.
		NewSelect().
		Model(&instances).
		Relation("Book").
		Order("bi.due_back ASC", "bi.id ASC")

	if opts.Limit != nil {
		q = q.Limit(*opts.Limit)
	}
	if opts.Offset != nil {
		q = q.Offset(*opts.Offset)
	}
	if opts.BookID != nil {
		q = q.Where("bi.book_id = ?", *opts.BookID)
	}
	if opts.Status != nil {
		q = q.Where("bi.status = ?", *opts.Status)
	}
	if opts.BorrowerID != nil {
		q = q.Where("bi.borrower_id = ?", *opts.BorrowerID)
	}

	if opts.includeTotal {
		total, err = q.ScanAndCount(ctx)
	} else {
		err = q.Scan(ctx)
	}
	if err != nil {
		return nil, 0, errors.WithStack(err)
	}

	today := svc.Today()
	lo.ForEach(instances, func(bi *models.BookInstance, _ int) {
		bi.MarkOverdue(today)
	})

	return instances, total, nil
}

// UpdateInstance changes the imprint or status of a copy. Loan state is
// changed through Checkout, Renew, and MarkReturned instead.
func (svc *Service) UpdateInstance(ctx context.Context, instance *models.BookInstance, opts UpdateInstanceOptions, caller models.Caller) error {
	if err := auth.Require(caller, models.CapabilityChangeBookInstance); err != nil {
		return err
	}
	if len(opts.Columns) == 0 {
		return nil
	}

	err := svc.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		if lo.Contains(opts.Columns, "status") {
			current, err := loadInstance(ctx, tx, instance.ID)
			if err != nil {
				return err
			}
			if err := validateStatusChange(current.Status, instance.Status); err != nil {
				return err
			}
		}

		instance.UpdatedAt = time.Now()
		columns := append(opts.Columns[:len(opts.Columns):len(opts.Columns)], "updated_at")

		res, err := tx.
			NewUpdate().
			Model(instance).
			Column(columns...).
			WherePK().
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return errcodes.NotFound("Book instance")
		}
		return nil
	})
	if err != nil {
		return errors.WithStack(err)
	}

	instance.MarkOverdue(svc.Today())
	return nil
}

// RenewalDefaults returns the copy together with the due date a renewal
// proposes when the librarian doesn't pick one.
func (svc *Service) RenewalDefaults(ctx context.Context, instanceID string, caller models.Caller) (*RenewalProposal, error) {
	instance, err := svc.RetrieveInstance(ctx, RetrieveInstanceOptions{ID: &instanceID})
	if err != nil {
		return nil, err
	}
	if err := auth.Require(caller, models.CapabilityMarkReturned); err != nil {
		return nil, err
	}

	return &RenewalProposal{
		Instance:        instance,
		ProposedDueBack: svc.DefaultDueBack(),
	}, nil
}

// Renew moves the due date of a copy. The instance has to exist, the caller
// has to be allowed to manage loans, and the new date has to fall between
// today and MaxLoanDays from now, inclusive. Those are checked in that order,
// and rawDueBack is only parsed once the caller may renew.
// Nothing but due_back changes, so renewing twice with the same date is a
// no-op the second time.
func (svc *Service) Renew(ctx context.Context, instanceID string, rawDueBack string, caller models.Caller) (*models.BookInstance, error) {
	var instance *models.BookInstance
	var dueBack models.Date
	today := svc.Today()

	err := svc.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		var err error
		instance, err = loadInstance(ctx, tx, instanceID)
		if err != nil {
			return err
		}
		if err := auth.Require(caller, models.CapabilityMarkReturned); err != nil {
			return err
		}
		if dueBack, err = parseDueBack(rawDueBack); err != nil {
			return err
		}
		if err := validateDueBack(dueBack, today, "renewal"); err != nil {
			return err
		}

		instance.DueBack = &dueBack
		instance.UpdatedAt = time.Now()
		_, err = tx.NewUpdate().
			Model(instance).
			Column("due_back", "updated_at").
			WherePK().
			Exec(ctx)
		return errors.WithStack(err)
	})
	if err != nil {
		return nil, errors.WithStack(err)
	}

	logger.FromContext(ctx).Info("book instance renewed", logger.Data{
		"book_instance_id": instance.ID,
		"due_back":         dueBack.String(),
		"user_id":          caller.UserID,
	})

	instance.MarkOverdue(today)
	return instance, nil
}

// Checkout lends an available copy to a borrower until rawDueBack, or for
// DefaultLoanDays when it's empty.
func (svc *Service) Checkout(ctx context.Context, instanceID string, borrowerID int, rawDueBack string, caller models.Caller) (*models.BookInstance, error) {
	var instance *models.BookInstance
	dueBack := svc.DefaultDueBack()
	today := svc.Today()

	err := svc.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		var err error
		instance, err = loadInstance(ctx, tx, instanceID)
		if err != nil {
			return err
		}
		if err := auth.Require(caller, models.CapabilityMarkReturned); err != nil {
			return err
		}
		if instance.Status != models.StatusAvailable {
			return errcodes.ValidationError(fmt.Sprintf("Book instance can't be checked out while its status is %q", models.StatusLabel(instance.Status)))
		}

		exists, err := tx.NewSelect().
			Model((*models.User)(nil)).
			Where("u.id = ?", borrowerID).
			Exists(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		if !exists {
			return errcodes.NotFound("User")
		}

		if rawDueBack != "" {
			if dueBack, err = parseDueBack(rawDueBack); err != nil {
				return err
			}
		}
		if err := validateDueBack(dueBack, today, "due date"); err != nil {
			return err
		}

		instance.Status = models.StatusOnLoan
		instance.BorrowerID = &borrowerID
		instance.DueBack = &dueBack
		instance.UpdatedAt = time.Now()
		_, err = tx.NewUpdate().
			Model(instance).
			Column("status", "borrower_id", "due_back", "updated_at").
			WherePK().
			Exec(ctx)
		return errors.WithStack(err)
	})
	if err != nil {
		return nil, errors.WithStack(err)
	}

	logger.FromContext(ctx).Info("book instance checked out", logger.Data{
		"book_instance_id": instance.ID,
		"borrower_id":      borrowerID,
		"due_back":         dueBack.String(),
	})

	instance.MarkOverdue(today)
	return instance, nil
}

// MarkReturned puts a copy that's on loan back on the shelf.
func (svc *Service) MarkReturned(ctx context.Context, instanceID string, caller models.Caller) (*models.BookInstance, error) {
	var instance *models.BookInstance

	err := svc.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		var err error
		instance, err = loadInstance(ctx, tx, instanceID)
		if err != nil {
			return err
		}
		if err := auth.Require(caller, models.CapabilityMarkReturned); err != nil {
			return err
		}
		if instance.Status != models.StatusOnLoan {
			return errcodes.ValidationError("Book instance isn't on loan")
		}

		instance.Status = models.StatusAvailable
		instance.BorrowerID = nil
		instance.DueBack = nil
		instance.UpdatedAt = time.Now()
		_, err = tx.NewUpdate().
			Model(instance).
			Column("status", "borrower_id", "due_back", "updated_at").
			WherePK().
			Exec(ctx)
		return errors.WithStack(err)
	})
	if err != nil {
		return nil, errors.WithStack(err)
	}

	logger.FromContext(ctx).Info("book instance returned", logger.Data{"book_instance_id": instance.ID})

	return instance, nil
}

func loadInstance(ctx context.Context, tx bun.Tx, instanceID string) (*models.BookInstance, error) {
	id, ok := normalizeID(instanceID)
	if !ok {
		return nil, errcodes.NotFound("Book instance")
	}

	instance := &models.BookInstance{}
	err := tx.NewSelect().
		Model(instance).
		Where("bi.id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Book instance")
		}
		return nil, errors.WithStack(err)
	}
	return instance, nil
}

// normalizeID returns the canonical form of a UUID. Anything that doesn't
// parse can't match a row.
func normalizeID(id string) (string, bool) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return "", false
	}
	return parsed.String(), true
}

func validateDueBack(d, today models.Date, what string) error {
	if d.Before(today) {
		return errcodes.ValidationError("Invalid date - " + what + " in past")
	}
	if d.After(today.AddDays(MaxLoanDays)) {
		return errcodes.ValidationError("Invalid date - " + what + " more than 4 weeks ahead")
	}
	return nil
}

// validateStatusChange keeps "on loan" tied to having a borrower: only the
// loan operations move a copy into or out of it.
func validateStatusChange(from, to string) error {
	if !lo.Contains(models.Statuses, to) {
		return errcodes.ValidationError(fmt.Sprintf("%q isn't a valid status", to))
	}
	if from == to {
		return nil
	}
	if to == models.StatusOnLoan {
		return errcodes.ValidationError("Use checkout to put a book instance on loan")
	}
	if from == models.StatusOnLoan {
		return errcodes.ValidationError("Use return to take a book instance off loan")
	}
	return nil
}

func parseDueBack(s string) (models.Date, error) {
	d, err := models.ParseDate(s)
	if err != nil {
		return models.Date{}, errcodes.ValidationError(`"due_back" is not a valid date`)
	}
	return d, nil
}
