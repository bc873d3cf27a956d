package errcodes

import (
	"net/http"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorIs_MatchesWrapped(t *testing.T) {
	t.Parallel()

	err := errors.WithStack(NotFound("Author"))
	assert.True(t, errors.Is(err, NotFound("Author")))
	assert.False(t, errors.Is(err, NotFound("Book")))
}

func TestIsCode(t *testing.T) {
	t.Parallel()

	err := errors.Wrap(RestrictedDelete("Author", "books", 2), "delete")
	assert.True(t, IsCode(err, "restricted_delete"))
	assert.False(t, IsCode(err, "conflict"))
	assert.False(t, IsCode(errors.New("boom"), "conflict"))
}

func TestRestrictedDelete_Message(t *testing.T) {
	t.Parallel()

	var e *Error
	require.ErrorAs(t, RestrictedDelete("Author", "books", 3), &e)
	assert.Equal(t, http.StatusConflict, e.HTTPCode)
	assert.Equal(t, "Author can't be deleted while 3 books still reference it.", e.Message)
}

func TestIsUniqueViolation(t *testing.T) {
	t.Parallel()

	assert.True(t, IsUniqueViolation(errors.New("constraint failed: UNIQUE constraint failed: genres.name (2067)")))
	assert.False(t, IsUniqueViolation(errors.New("database is locked")))
	assert.False(t, IsUniqueViolation(nil))
}
