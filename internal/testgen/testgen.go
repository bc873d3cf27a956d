// Package testgen builds catalog fixtures for tests: a migrated in-memory
// store plus helpers that insert rows with sensible defaults.
package testgen

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/locallibrary/locallibrary/pkg/database"
	"github.com/locallibrary/locallibrary/pkg/migrations"
	"github.com/locallibrary/locallibrary/pkg/models"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

var isbnSeq atomic.Int64

// NewDB opens a fresh in-memory store with every migration applied. It's
// closed when the test ends.
func NewDB(t *testing.T) *bun.DB {
	t.Helper()

	db, err := database.Open(":memory:", database.Options{})
	require.NoError(t, err)

	_, err = migrations.BringUpToDate(context.Background(), db)
	require.NoError(t, err)

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

// Librarian returns a caller holding every capability.
func Librarian(userID int) models.Caller {
	return models.Caller{UserID: userID, Capabilities: models.NewCapabilitySet(models.AllCapabilities...)}
}

// Borrower returns a caller holding no capabilities.
func Borrower(userID int) models.Caller {
	return models.Caller{UserID: userID, Capabilities: models.NewCapabilitySet()}
}

// CreateUser inserts an active user with the given role. The password hash
// is a placeholder, so the user can't log in.
func CreateUser(t *testing.T, db *bun.DB, username, roleName string) *models.User {
	t.Helper()
	ctx := context.Background()

	role := new(models.Role)
	err := db.NewSelect().
		Model(role).
		Relation("Permissions").
		Where("r.name = ?", roleName).
		Scan(ctx)
	require.NoError(t, err)

	user := &models.User{
		Username:     username,
		PasswordHash: "hash",
		RoleID:       role.ID,
		IsActive:     true,
		Role:         role,
	}
	_, err = db.NewInsert().Model(user).Exec(ctx)
	require.NoError(t, err)

	return user
}

func CreateAuthor(t *testing.T, db *bun.DB, first, last string) *models.Author {
	t.Helper()

	author := &models.Author{FirstName: first, LastName: last}
	_, err := db.NewInsert().Model(author).Exec(context.Background())
	require.NoError(t, err)

	return author
}

func CreateGenre(t *testing.T, db *bun.DB, name string) *models.Genre {
	t.Helper()

	genre := &models.Genre{Name: name}
	_, err := db.NewInsert().Model(genre).Exec(context.Background())
	require.NoError(t, err)

	return genre
}

func CreateLanguage(t *testing.T, db *bun.DB, name string) *models.Language {
	t.Helper()

	language := &models.Language{Name: name}
	_, err := db.NewInsert().Model(language).Exec(context.Background())
	require.NoError(t, err)

	return language
}

// BookOptions overrides the defaults used by CreateBook.
type BookOptions struct {
	Author   *models.Author
	Language *models.Language
	Genres   []*models.Genre
	ISBN     string
}

// CreateBook inserts a book with a unique generated ISBN unless one is given.
func CreateBook(t *testing.T, db *bun.DB, title string, opts BookOptions) *models.Book {
	t.Helper()
	ctx := context.Background()

	isbn := opts.ISBN
	if isbn == "" {
		isbn = fmt.Sprintf("978%010d", isbnSeq.Add(1))
	}

	book := &models.Book{
		Title:   title,
		Summary: "A summary of " + title + ".",
		ISBN:    isbn,
	}
	if opts.Author != nil {
		book.AuthorID = &opts.Author.ID
	}
	if opts.Language != nil {
		book.LanguageID = &opts.Language.ID
	}
	_, err := db.NewInsert().Model(book).Exec(ctx)
	require.NoError(t, err)

	for _, g := range opts.Genres {
		_, err = db.NewInsert().Model(&models.BookGenre{BookID: book.ID, GenreID: g.ID}).Exec(ctx)
		require.NoError(t, err)
	}

	return book
}

// InstanceOptions overrides the defaults used by CreateInstance.
type InstanceOptions struct {
	Status   string
	DueBack  *models.Date
	Borrower *models.User
	Imprint  string
}

// CreateInstance inserts a copy of the book. Status defaults to Available.
func CreateInstance(t *testing.T, db *bun.DB, book *models.Book, opts InstanceOptions) *models.BookInstance {
	t.Helper()

	instance := &models.BookInstance{
		ID:      uuid.NewString(),
		BookID:  book.ID,
		Imprint: opts.Imprint,
		Status:  opts.Status,
		DueBack: opts.DueBack,
	}
	if instance.Imprint == "" {
		instance.Imprint = "First edition"
	}
	if instance.Status == "" {
		instance.Status = models.StatusAvailable
	}
	if opts.Borrower != nil {
		instance.BorrowerID = &opts.Borrower.ID
	}
	_, err := db.NewInsert().Model(instance).Exec(context.Background())
	require.NoError(t, err)

	return instance
}

// Date parses YYYY-MM-DD and fails the test if it can't.
func Date(t *testing.T, s string) models.Date {
	t.Helper()

	d, err := models.ParseDate(s)
	require.NoError(t, err)
	return d
}

// DatePtr is Date returning a pointer, for nullable columns.
func DatePtr(t *testing.T, s string) *models.Date {
	t.Helper()

	d := Date(t, s)
	return &d
}
