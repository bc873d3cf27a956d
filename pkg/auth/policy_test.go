package auth

import (
	"testing"

	"github.com/locallibrary/locallibrary/pkg/errcodes"
	"github.com/locallibrary/locallibrary/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequire(t *testing.T) {
	t.Parallel()

	librarian := models.Caller{UserID: 1, Capabilities: models.NewCapabilitySet(models.CapabilityMarkReturned)}
	borrower := models.Caller{UserID: 2, Capabilities: models.NewCapabilitySet()}

	require.NoError(t, Require(librarian, models.CapabilityMarkReturned))

	err := Require(borrower, models.CapabilityMarkReturned)
	var codeErr *errcodes.Error
	require.ErrorAs(t, err, &codeErr)
	assert.Equal(t, "forbidden", codeErr.Code)
	assert.Equal(t, "Managing loans without the can_mark_returned permission is not allowed.", codeErr.Message)

	err = Require(librarian, models.CapabilityDeleteAuthor)
	require.ErrorAs(t, err, &codeErr)
	assert.Contains(t, codeErr.Message, "catalog.delete_author")
}
