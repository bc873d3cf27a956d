package authors

import (
	"context"
	"testing"

	"github.com/locallibrary/locallibrary/internal/testgen"
	"github.com/locallibrary/locallibrary/pkg/errcodes"
	"github.com/locallibrary/locallibrary/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeleteAuthor_RestrictedWhileBooksReferenceIt(t *testing.T) {
	t.Parallel()
	db := testgen.NewDB(t)
	svc := NewService(db)
	ctx := context.Background()

	author := testgen.CreateAuthor(t, db, "Ursula", "Le Guin")
	book := testgen.CreateBook(t, db, "The Dispossessed", testgen.BookOptions{Author: author})

	err := svc.DeleteAuthor(ctx, author.ID)
	require.Error(t, err)
	assert.True(t, errcodes.IsCode(err, "restricted_delete"))
	assert.Equal(t, "Author can't be deleted while 1 book still reference it.", err.Error())

	reloaded, err := svc.RetrieveAuthor(ctx, RetrieveAuthorOptions{ID: &author.ID})
	require.NoError(t, err)
	require.Len(t, reloaded.Books, 1)
	assert.Equal(t, book.ID, reloaded.Books[0].ID)

	// reassigning the book unblocks the delete
	_, err = db.NewUpdate().Model((*models.Book)(nil)).Set("author_id = NULL").Where("id = ?", book.ID).Exec(ctx)
	require.NoError(t, err)
	require.NoError(t, svc.DeleteAuthor(ctx, author.ID))

	_, err = svc.RetrieveAuthor(ctx, RetrieveAuthorOptions{ID: &author.ID})
	assert.ErrorIs(t, err, errcodes.NotFound("Author"))
}

func TestDeleteAuthor_NotFound(t *testing.T) {
	t.Parallel()
	db := testgen.NewDB(t)
	svc := NewService(db)

	err := svc.DeleteAuthor(context.Background(), 999)
	assert.ErrorIs(t, err, errcodes.NotFound("Author"))
}

func TestRetrieveAuthor_IncludesBooksByTitle(t *testing.T) {
	t.Parallel()
	db := testgen.NewDB(t)
	svc := NewService(db)
	ctx := context.Background()

	author := testgen.CreateAuthor(t, db, "Iain", "Banks")
	testgen.CreateBook(t, db, "Use of Weapons", testgen.BookOptions{Author: author})
	testgen.CreateBook(t, db, "Excession", testgen.BookOptions{Author: author})
	testgen.CreateBook(t, db, "Dune", testgen.BookOptions{})

	got, err := svc.RetrieveAuthor(ctx, RetrieveAuthorOptions{ID: &author.ID})
	require.NoError(t, err)
	assert.Equal(t, "Banks, Iain", got.DisplayName())
	require.Len(t, got.Books, 2)
	assert.Equal(t, "Excession", got.Books[0].Title)
	assert.Equal(t, "Use of Weapons", got.Books[1].Title)
}

func TestListAuthorsWithTotal_OrderedByLastThenFirstName(t *testing.T) {
	t.Parallel()
	db := testgen.NewDB(t)
	svc := NewService(db)
	ctx := context.Background()

	testgen.CreateAuthor(t, db, "Charlotte", "Bronte")
	testgen.CreateAuthor(t, db, "Anne", "Bronte")
	testgen.CreateAuthor(t, db, "Jane", "Austen")

	authors, total, err := svc.ListAuthorsWithTotal(ctx, ListAuthorsOptions{})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, authors, 3)
	assert.Equal(t, "Austen, Jane", authors[0].DisplayName())
	assert.Equal(t, "Bronte, Anne", authors[1].DisplayName())
	assert.Equal(t, "Bronte, Charlotte", authors[2].DisplayName())

	search := "bron"
	authors, total, err = svc.ListAuthorsWithTotal(ctx, ListAuthorsOptions{Search: &search})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, authors, 2)
}

func TestCreateAuthor_RejectsDeathBeforeBirth(t *testing.T) {
	t.Parallel()
	db := testgen.NewDB(t)
	svc := NewService(db)

	author := &models.Author{
		FirstName:   "Mary",
		LastName:    "Shelley",
		DateOfBirth: testgen.DatePtr(t, "1851-02-01"),
		DateOfDeath: testgen.DatePtr(t, "1797-08-30"),
	}
	err := svc.CreateAuthor(context.Background(), author)
	assert.True(t, errcodes.IsCode(err, "validation_error"))
}

func TestUpdateAuthor_StoresDates(t *testing.T) {
	t.Parallel()
	db := testgen.NewDB(t)
	svc := NewService(db)
	ctx := context.Background()

	author := testgen.CreateAuthor(t, db, "Mary", "Shelley")
	author.DateOfBirth = testgen.DatePtr(t, "1797-08-30")
	author.DateOfDeath = testgen.DatePtr(t, "1851-02-01")
	require.NoError(t, svc.UpdateAuthor(ctx, author, UpdateAuthorOptions{Columns: []string{"date_of_birth", "date_of_death"}}))

	got, err := svc.RetrieveAuthor(ctx, RetrieveAuthorOptions{ID: &author.ID})
	require.NoError(t, err)
	require.NotNil(t, got.DateOfBirth)
	assert.Equal(t, "1797-08-30", got.DateOfBirth.String())
	require.NotNil(t, got.DateOfDeath)
	assert.Equal(t, "1851-02-01", got.DateOfDeath.String())
}
