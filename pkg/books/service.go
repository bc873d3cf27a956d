package books

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/locallibrary/locallibrary/pkg/errcodes"
	"github.com/locallibrary/locallibrary/pkg/models"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/samber/lo"
	"github.com/uptrace/bun"
)

type RetrieveBookOptions struct {
	ID   *int
	ISBN *string
}

type ListBooksOptions struct {
	Limit      *int
	Offset     *int
	AuthorID   *int
	GenreID    *int
	LanguageID *int
	Search     *string

	includeTotal bool
}

type UpdateBookOptions struct {
	Columns []string
	// GenreIDs replaces the book's genres when non-nil. An empty slice clears
	// them.
	GenreIDs *[]int
}

type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db}
}

// CreateBook inserts the book and links it to the given genres. The author,
// language, and genres have to exist already.
func (svc *Service) CreateBook(ctx context.Context, book *models.Book, genreIDs []int) error {
	if err := validateBook(book); err != nil {
		return err
	}

	now := time.Now()
	if book.CreatedAt.IsZero() {
		book.CreatedAt = now
	}
	book.UpdatedAt = book.CreatedAt
	genreIDs = lo.Uniq(genreIDs)

	err := svc.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		if err := checkReferences(ctx, tx, book, genreIDs); err != nil {
			return err
		}
		if err := ensureISBNFree(ctx, tx, book.ISBN, 0); err != nil {
			return err
		}

		_, err := tx.
			NewInsert().
			Model(book).
			Returning("*").
			Exec(ctx)
		if err != nil {
			if errcodes.IsUniqueViolation(err) {
				return duplicateISBN(book.ISBN)
			}
			return errors.WithStack(err)
		}

		return replaceGenres(ctx, tx, book.ID, genreIDs)
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return nil
}

// RetrieveBook loads a book with its author, language, genres, and copies.
func (svc *Service) RetrieveBook(ctx context.Context, opts RetrieveBookOptions) (*models.Book, error) {
	book := &models.Book{}

	q := svc.db.
		NewSelect().
		Model(book).
		Relation("Author").
		Relation("Language").
		Relation("Genres", func(sq *bun.SelectQuery) *bun.SelectQuery {
			return sq.Order("g.name ASC")
		}).
		Relation("Instances", func(sq *bun.SelectQuery) *bun.SelectQuery {
			return sq.Order("bi.due_back ASC", "bi.id ASC")
		})

	if opts.ID != nil {
		q = q.Where("b.id = ?", *opts.ID)
	}
	if opts.ISBN != nil {
		q = q.Where("b.isbn = ?", *opts.ISBN)
	}

	err := q.Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Book")
		}
		return nil, errors.WithStack(err)
	}

	return book, nil
}

func (svc *Service) ListBooks(ctx context.Context, opts ListBooksOptions) ([]*models.Book, error) {
	b, _, err := svc.listBooksWithTotal(ctx, opts)
	return b, errors.WithStack(err)
}

func (svc *Service) ListBooksWithTotal(ctx context.Context, opts ListBooksOptions) ([]*models.Book, int, error) {
	opts.includeTotal = true
	return svc.listBooksWithTotal(ctx, opts)
}

func (svc *Service) listBooksWithTotal(ctx context.Context, opts ListBooksOptions) ([]*models.Book, int, error) {
	books := []*models.Book{}
	var total int
	var err error

	q := svc.db.
		NewSelect().
		Model(&books).
		Relation("Author").
		Order("b.title ASC", "author.last_name ASC", "author.first_name ASC", "b.id ASC")

	if opts.Limit != nil {
		q = q.Limit(*opts.Limit)
	}
	if opts.Offset != nil {
		q = q.Offset(*opts.Offset)
	}
	if opts.AuthorID != nil {
		q = q.Where("b.author_id = ?", *opts.AuthorID)
	}
	if opts.LanguageID != nil {
		q = q.Where("b.language_id = ?", *opts.LanguageID)
	}
	if opts.GenreID != nil {
		q = q.Where("b.id IN (SELECT book_id FROM book_genres WHERE genre_id = ?)", *opts.GenreID)
	}
	if opts.Search != nil && *opts.Search != "" {
		q = q.Where("b.title LIKE ?", "%"+*opts.Search+"%")
	}

	if opts.includeTotal {
		total, err = q.ScanAndCount(ctx)
	} else {
		err = q.Scan(ctx)
	}
	if err != nil {
		return nil, 0, errors.WithStack(err)
	}

	return books, total, nil
}

func (svc *Service) UpdateBook(ctx context.Context, book *models.Book, opts UpdateBookOptions) error {
	if len(opts.Columns) == 0 && opts.GenreIDs == nil {
		return nil
	}
	if err := validateBook(book); err != nil {
		return err
	}

	var genreIDs []int
	if opts.GenreIDs != nil {
		genreIDs = lo.Uniq(*opts.GenreIDs)
	}

	err := svc.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		if err := checkReferences(ctx, tx, book, genreIDs); err != nil {
			return err
		}
		if lo.Contains(opts.Columns, "isbn") {
			if err := ensureISBNFree(ctx, tx, book.ISBN, book.ID); err != nil {
				return err
			}
		}

		book.UpdatedAt = time.Now()
		columns := append(opts.Columns[:len(opts.Columns):len(opts.Columns)], "updated_at")

		res, err := tx.
			NewUpdate().
			Model(book).
			Column(columns...).
			WherePK().
			Exec(ctx)
		if err != nil {
			if errcodes.IsUniqueViolation(err) {
				return duplicateISBN(book.ISBN)
			}
			return errors.WithStack(err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return errcodes.NotFound("Book")
		}

		if opts.GenreIDs != nil {
			if _, err := tx.NewDelete().
				Model((*models.BookGenre)(nil)).
				Where("book_id = ?", book.ID).
				Exec(ctx); err != nil {
				return errors.WithStack(err)
			}
			return replaceGenres(ctx, tx, book.ID, genreIDs)
		}
		return nil
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return nil
}

// DeleteBook deletes a book with no copies. Copies have to be removed or
// moved to another book first.
func (svc *Service) DeleteBook(ctx context.Context, bookID int) error {
	return svc.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		exists, err := tx.NewSelect().
			Model((*models.Book)(nil)).
			Where("b.id = ?", bookID).
			Exists(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		if !exists {
			return errcodes.NotFound("Book")
		}

		count, err := tx.NewSelect().
			Model((*models.BookInstance)(nil)).
			Where("bi.book_id = ?", bookID).
			Count(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		if count > 0 {
			logger.FromContext(ctx).Warn("book delete blocked by instances", logger.Data{"book_id": bookID, "instance_count": count})
			dependents := "book instances"
			if count == 1 {
				dependents = "book instance"
			}
			return errcodes.RestrictedDelete("Book", dependents, count)
		}

		// book_genres rows go with the book via ON DELETE CASCADE.
		_, err = tx.NewDelete().
			Model((*models.Book)(nil)).
			Where("id = ?", bookID).
			Exec(ctx)
		return errors.WithStack(err)
	})
}

func validateBook(book *models.Book) error {
	switch {
	case book.Title == "":
		return errcodes.ValidationError(`"title" is required`)
	case book.Summary == "":
		return errcodes.ValidationError(`"summary" is required`)
	case !isISBN(book.ISBN):
		return errcodes.ValidationError(fmt.Sprintf(`"isbn" should be exactly %d digits`, models.ISBNLength))
	}
	return nil
}

func isISBN(s string) bool {
	if len(s) != models.ISBNLength {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func checkReferences(ctx context.Context, tx bun.Tx, book *models.Book, genreIDs []int) error {
	if book.AuthorID != nil {
		exists, err := tx.NewSelect().Model((*models.Author)(nil)).Where("a.id = ?", *book.AuthorID).Exists(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		if !exists {
			return errcodes.ValidationError(`"author_id" doesn't reference an existing author`)
		}
	}
	if book.LanguageID != nil {
		exists, err := tx.NewSelect().Model((*models.Language)(nil)).Where("l.id = ?", *book.LanguageID).Exists(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		if !exists {
			return errcodes.ValidationError(`"language_id" doesn't reference an existing language`)
		}
	}
	if len(genreIDs) > 0 {
		var found []int
		err := tx.NewSelect().
			Model((*models.Genre)(nil)).
			Column("g.id").
			Where("g.id IN (?)", bun.In(genreIDs)).
			Scan(ctx, &found)
		if err != nil {
			return errors.WithStack(err)
		}
		if missing, _ := lo.Difference(genreIDs, found); len(missing) > 0 {
			return errcodes.ValidationError(fmt.Sprintf(`"genre_ids" references unknown genre %d`, missing[0]))
		}
	}
	return nil
}

func ensureISBNFree(ctx context.Context, tx bun.Tx, isbn string, exceptID int) error {
	q := tx.NewSelect().
		Model((*models.Book)(nil)).
		Where("b.isbn = ?", isbn)
	if exceptID != 0 {
		q = q.Where("b.id != ?", exceptID)
	}
	exists, err := q.Exists(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	if exists {
		return duplicateISBN(isbn)
	}
	return nil
}

func replaceGenres(ctx context.Context, tx bun.Tx, bookID int, genreIDs []int) error {
	if len(genreIDs) == 0 {
		return nil
	}
	links := lo.Map(genreIDs, func(id int, _ int) *models.BookGenre {
		return &models.BookGenre{BookID: bookID, GenreID: id}
	})
	_, err := tx.NewInsert().Model(&links).Exec(ctx)
	return errors.WithStack(err)
}

func duplicateISBN(isbn string) error {
	return errcodes.Conflict(fmt.Sprintf("A book with ISBN %s already exists.", isbn))
}
