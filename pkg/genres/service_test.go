package genres

import (
	"context"
	"testing"

	"github.com/locallibrary/locallibrary/internal/testgen"
	"github.com/locallibrary/locallibrary/pkg/errcodes"
	"github.com/locallibrary/locallibrary/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateGenre_RejectsCaseInsensitiveDuplicate(t *testing.T) {
	t.Parallel()
	db := testgen.NewDB(t)
	svc := NewService(db)
	ctx := context.Background()

	require.NoError(t, svc.CreateGenre(ctx, &models.Genre{Name: "Fiction"}))

	err := svc.CreateGenre(ctx, &models.Genre{Name: "fiction"})
	require.Error(t, err)
	assert.True(t, errcodes.IsCode(err, "conflict"))

	genres, err := svc.ListGenres(ctx, ListGenresOptions{})
	require.NoError(t, err)
	assert.Len(t, genres, 1)
	assert.Equal(t, "Fiction", genres[0].Name)
}

func TestRetrieveGenre(t *testing.T) {
	t.Parallel()
	db := testgen.NewDB(t)
	svc := NewService(db)
	ctx := context.Background()

	fantasy := testgen.CreateGenre(t, db, "Fantasy")
	testgen.CreateBook(t, db, "The Hobbit", testgen.BookOptions{Genres: []*models.Genre{fantasy}})
	testgen.CreateBook(t, db, "Earthsea", testgen.BookOptions{Genres: []*models.Genre{fantasy}})

	t.Run("by id includes the book count", func(t *testing.T) {
		genre, err := svc.RetrieveGenre(ctx, RetrieveGenreOptions{ID: &fantasy.ID})
		require.NoError(t, err)
		assert.Equal(t, "Fantasy", genre.Name)
		assert.Equal(t, 2, genre.BookCount)
	})

	t.Run("by name ignores case", func(t *testing.T) {
		name := "FANTASY"
		genre, err := svc.RetrieveGenre(ctx, RetrieveGenreOptions{Name: &name})
		require.NoError(t, err)
		assert.Equal(t, fantasy.ID, genre.ID)
	})

	t.Run("missing genre is not found", func(t *testing.T) {
		id := fantasy.ID + 100
		_, err := svc.RetrieveGenre(ctx, RetrieveGenreOptions{ID: &id})
		assert.ErrorIs(t, err, errcodes.NotFound("Genre"))
	})
}

func TestListGenresWithTotal(t *testing.T) {
	t.Parallel()
	db := testgen.NewDB(t)
	svc := NewService(db)
	ctx := context.Background()

	for _, name := range []string{"Science Fiction", "Fantasy", "Poetry", "Historical Fiction"} {
		testgen.CreateGenre(t, db, name)
	}

	limit := 2
	genres, total, err := svc.ListGenresWithTotal(ctx, ListGenresOptions{Limit: &limit})
	require.NoError(t, err)
	assert.Equal(t, 4, total)
	require.Len(t, genres, 2)
	assert.Equal(t, "Fantasy", genres[0].Name)
	assert.Equal(t, "Historical Fiction", genres[1].Name)

	search := "fiction"
	genres, total, err = svc.ListGenresWithTotal(ctx, ListGenresOptions{Search: &search})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, genres, 2)
}

func TestUpdateGenre(t *testing.T) {
	t.Parallel()
	db := testgen.NewDB(t)
	svc := NewService(db)
	ctx := context.Background()

	testgen.CreateGenre(t, db, "Horror")
	genre := testgen.CreateGenre(t, db, "Mystery")

	t.Run("renaming onto another genre conflicts", func(t *testing.T) {
		genre.Name = "horror"
		err := svc.UpdateGenre(ctx, genre, UpdateGenreOptions{Columns: []string{"name"}})
		assert.True(t, errcodes.IsCode(err, "conflict"))
	})

	t.Run("changing only the case of its own name is allowed", func(t *testing.T) {
		genre.Name = "MYSTERY"
		require.NoError(t, svc.UpdateGenre(ctx, genre, UpdateGenreOptions{Columns: []string{"name"}}))

		reloaded, err := svc.RetrieveGenre(ctx, RetrieveGenreOptions{ID: &genre.ID})
		require.NoError(t, err)
		assert.Equal(t, "MYSTERY", reloaded.Name)
	})
}

func TestUpdateGenre_LeavesCallerColumnsUntouched(t *testing.T) {
	t.Parallel()
	db := testgen.NewDB(t)
	svc := NewService(db)
	ctx := context.Background()

	genre := testgen.CreateGenre(t, db, "Poetry")
	genre.Name = "Verse"

	backing := make([]string, 1, 2)
	backing[0] = "name"
	require.NoError(t, svc.UpdateGenre(ctx, genre, UpdateGenreOptions{Columns: backing}))

	assert.Equal(t, []string{"name"}, backing)
	assert.Equal(t, "", backing[:2][1])
}

func TestDeleteGenre_RemovesAssociationsButKeepsBooks(t *testing.T) {
	t.Parallel()
	db := testgen.NewDB(t)
	svc := NewService(db)
	ctx := context.Background()

	genre := testgen.CreateGenre(t, db, "Poetry")
	book := testgen.CreateBook(t, db, "Leaves of Grass", testgen.BookOptions{Genres: []*models.Genre{genre}})

	require.NoError(t, svc.DeleteGenre(ctx, genre.ID))

	links, err := db.NewSelect().Model((*models.BookGenre)(nil)).Where("book_id = ?", book.ID).Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, links)

	exists, err := db.NewSelect().Model((*models.Book)(nil)).Where("id = ?", book.ID).Exists(ctx)
	require.NoError(t, err)
	assert.True(t, exists)

	err = svc.DeleteGenre(ctx, genre.ID)
	assert.ErrorIs(t, err, errcodes.NotFound("Genre"))
}

func TestGetBooks(t *testing.T) {
	t.Parallel()
	db := testgen.NewDB(t)
	svc := NewService(db)
	ctx := context.Background()

	genre := testgen.CreateGenre(t, db, "Classics")
	other := testgen.CreateGenre(t, db, "Drama")
	testgen.CreateBook(t, db, "Middlemarch", testgen.BookOptions{Genres: []*models.Genre{genre}})
	testgen.CreateBook(t, db, "Emma", testgen.BookOptions{Genres: []*models.Genre{genre, other}})
	testgen.CreateBook(t, db, "Hamlet", testgen.BookOptions{Genres: []*models.Genre{other}})

	books, err := svc.GetBooks(ctx, genre.ID)
	require.NoError(t, err)
	require.Len(t, books, 2)
	assert.Equal(t, "Emma", books[0].Title)
	assert.Equal(t, "Middlemarch", books[1].Title)
}
