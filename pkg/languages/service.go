package languages

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/locallibrary/locallibrary/pkg/errcodes"
	"github.com/locallibrary/locallibrary/pkg/models"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

type RetrieveLanguageOptions struct {
	ID   *int
	Name *string
}

type ListLanguagesOptions struct {
	Limit  *int
	Offset *int

	includeTotal bool
}

type UpdateLanguageOptions struct {
	Columns []string
}

type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db}
}

func (svc *Service) CreateLanguage(ctx context.Context, language *models.Language) error {
	now := time.Now()
	if language.CreatedAt.IsZero() {
		language.CreatedAt = now
	}
	language.UpdatedAt = language.CreatedAt

	return svc.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		if err := ensureNameFree(ctx, tx, language.Name, 0); err != nil {
			return err
		}

		_, err := tx.
			NewInsert().
			Model(language).
			Returning("*").
			Exec(ctx)
		if errcodes.IsUniqueViolation(err) {
			return duplicateName(language.Name)
		}
		return errors.WithStack(err)
	})
}

func (svc *Service) RetrieveLanguage(ctx context.Context, opts RetrieveLanguageOptions) (*models.Language, error) {
	language := &models.Language{}

	q := svc.db.
		NewSelect().
		Model(language)

	if opts.ID != nil {
		q = q.Where("l.id = ?", *opts.ID)
	}
	if opts.Name != nil {
		q = q.Where("LOWER(l.name) = LOWER(?)", *opts.Name)
	}

	err := q.Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Language")
		}
		return nil, errors.WithStack(err)
	}

	return language, nil
}

func (svc *Service) ListLanguages(ctx context.Context, opts ListLanguagesOptions) ([]*models.Language, error) {
	l, _, err := svc.listLanguagesWithTotal(ctx, opts)
	return l, errors.WithStack(err)
}

func (svc *Service) ListLanguagesWithTotal(ctx context.Context, opts ListLanguagesOptions) ([]*models.Language, int, error) {
	opts.includeTotal = true
	return svc.listLanguagesWithTotal(ctx, opts)
}

func (svc *Service) listLanguagesWithTotal(ctx context.Context, opts ListLanguagesOptions) ([]*models.Language, int, error) {
	var languages []*models.Language
	var total int
	var err error

	q := svc.db.
		NewSelect().
		Model(&languages).
		Order("l.name ASC")

	if opts.Limit != nil {
		q = q.Limit(*opts.Limit)
	}
	if opts.Offset != nil {
		q = q.Offset(*opts.Offset)
	}

	if opts.includeTotal {
		total, err = q.ScanAndCount(ctx)
	} else {
		err = q.Scan(ctx)
	}
	if err != nil {
		return nil, 0, errors.WithStack(err)
	}

	return languages, total, nil
}

func (svc *Service) UpdateLanguage(ctx context.Context, language *models.Language, opts UpdateLanguageOptions) error {
	if len(opts.Columns) == 0 {
		return nil
	}

	language.UpdatedAt = time.Now()
	columns := append(opts.Columns[:len(opts.Columns):len(opts.Columns)], "updated_at")

	return svc.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		if err := ensureNameFree(ctx, tx, language.Name, language.ID); err != nil {
			return err
		}

		res, err := tx.
			NewUpdate().
			Model(language).
			Column(columns...).
			WherePK().
			Exec(ctx)
		if err != nil {
			if errcodes.IsUniqueViolation(err) {
				return duplicateName(language.Name)
			}
			return errors.WithStack(err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return errcodes.NotFound("Language")
		}
		return nil
	})
}

// DeleteLanguage deletes a language. Books written in it are kept with their
// language cleared.
func (svc *Service) DeleteLanguage(ctx context.Context, languageID int) error {
	return svc.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewUpdate().
			Model((*models.Book)(nil)).
			Set("language_id = NULL").
			Where("language_id = ?", languageID).
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}

		res, err := tx.NewDelete().
			Model((*models.Language)(nil)).
			Where("id = ?", languageID).
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return errcodes.NotFound("Language")
		}
		return nil
	})
}

func ensureNameFree(ctx context.Context, db bun.IDB, name string, exceptID int) error {
	q := db.NewSelect().
		Model((*models.Language)(nil)).
		Where("LOWER(l.name) = LOWER(?)", name)
	if exceptID != 0 {
		q = q.Where("l.id != ?", exceptID)
	}
	exists, err := q.Exists(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	if exists {
		return duplicateName(name)
	}
	return nil
}

func duplicateName(name string) error {
	return errcodes.Conflict(fmt.Sprintf("A language named %q already exists.", name))
}
