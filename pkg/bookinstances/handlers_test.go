package bookinstances

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/locallibrary/locallibrary/internal/testgen"
	"github.com/locallibrary/locallibrary/pkg/binder"
	"github.com/locallibrary/locallibrary/pkg/errcodes"
	"github.com/locallibrary/locallibrary/pkg/models"
	"github.com/segmentio/encoding/json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newInstancesTestContext(t *testing.T, method, payload, path string, user *models.User) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	e := echo.New()
	b, err := binder.New()
	require.NoError(t, err)
	e.Binder = b
	e.HTTPErrorHandler = errcodes.NewHandler().Handle

	req := httptest.NewRequest(method, path, strings.NewReader(payload))
	if payload != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rr := httptest.NewRecorder()
	c := e.NewContext(req, rr)
	if user != nil {
		c.Set("user", user)
	}
	return c, rr
}

func withID(c echo.Context, path, id string) {
	c.SetPath(path)
	c.SetParamNames("id")
	c.SetParamValues(id)
}

func TestHandlerRenew(t *testing.T) {
	t.Parallel()
	f := setup(t)
	h := &handler{instanceService: f.svc}

	librarian := testgen.CreateUser(t, f.db, "head", models.RoleLibrarian)
	instance := testgen.CreateInstance(t, f.db, f.book, testgen.InstanceOptions{
		Status:   models.StatusOnLoan,
		Borrower: f.borrower,
		DueBack:  testgen.DatePtr(t, "2024-03-12"),
	})

	t.Run("GET proposes three weeks from today", func(t *testing.T) {
		c, rr := newInstancesTestContext(t, http.MethodGet, "", "/bookinstances/"+instance.ID+"/renew", librarian)
		withID(c, "/bookinstances/:id/renew", instance.ID)
		require.NoError(t, h.renewalDefaults(c))

		var body struct {
			ProposedDueBack string `json:"proposed_due_back"`
		}
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
		assert.Equal(t, "2024-03-31", body.ProposedDueBack)
	})

	t.Run("POST stores the date", func(t *testing.T) {
		c, rr := newInstancesTestContext(t, http.MethodPost, `{"due_back":"2024-04-01"}`, "/bookinstances/"+instance.ID+"/renew", librarian)
		withID(c, "/bookinstances/:id/renew", instance.ID)
		require.NoError(t, h.renew(c))
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), `"due_back":"2024-04-01"`)
	})

	t.Run("borrowers are forbidden", func(t *testing.T) {
		c, _ := newInstancesTestContext(t, http.MethodPost, `{"due_back":"2024-03-20"}`, "/bookinstances/"+instance.ID+"/renew", f.borrower)
		withID(c, "/bookinstances/:id/renew", instance.ID)
		err := h.renew(c)
		assert.True(t, errcodes.IsCode(err, "forbidden"))
	})

	t.Run("malformed date is rejected", func(t *testing.T) {
		c, _ := newInstancesTestContext(t, http.MethodPost, `{"due_back":"next week"}`, "/bookinstances/"+instance.ID+"/renew", librarian)
		withID(c, "/bookinstances/:id/renew", instance.ID)
		err := h.renew(c)
		assert.True(t, errcodes.IsCode(err, "validation_error"))
		assert.Equal(t, `"due_back" is not a valid date`, err.Error())
	})

	t.Run("unknown copy with a malformed date is not found", func(t *testing.T) {
		missing := "00000000-0000-0000-0000-000000000000"
		c, _ := newInstancesTestContext(t, http.MethodPost, `{"due_back":"next week"}`, "/bookinstances/"+missing+"/renew", librarian)
		withID(c, "/bookinstances/:id/renew", missing)
		err := h.renew(c)
		assert.True(t, errcodes.IsCode(err, "not_found"))
	})

	t.Run("missing date is rejected by the binder", func(t *testing.T) {
		c, _ := newInstancesTestContext(t, http.MethodPost, `{}`, "/bookinstances/"+instance.ID+"/renew", librarian)
		withID(c, "/bookinstances/:id/renew", instance.ID)
		err := h.renew(c)
		assert.True(t, errcodes.IsCode(err, "validation_error"))
	})
}

func TestHandlerCheckout_DefaultsDueBack(t *testing.T) {
	t.Parallel()
	f := setup(t)
	h := &handler{instanceService: f.svc}

	librarian := testgen.CreateUser(t, f.db, "head", models.RoleLibrarian)
	instance := testgen.CreateInstance(t, f.db, f.book, testgen.InstanceOptions{})

	payload := `{"borrower_id":` + jsonInt(f.borrower.ID) + `}`
	c, rr := newInstancesTestContext(t, http.MethodPost, payload, "/bookinstances/"+instance.ID+"/checkout", librarian)
	withID(c, "/bookinstances/:id/checkout", instance.ID)
	require.NoError(t, h.checkout(c))

	var body models.BookInstance
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, models.StatusOnLoan, body.Status)
	require.NotNil(t, body.DueBack)
	assert.Equal(t, "2024-03-31", body.DueBack.String())

	c, rr = newInstancesTestContext(t, http.MethodPost, "", "/bookinstances/"+instance.ID+"/return", librarian)
	withID(c, "/bookinstances/:id/return", instance.ID)
	require.NoError(t, h.markReturned(c))
	assert.Contains(t, rr.Body.String(), `"status":"a"`)
}

func TestHandlerCreate_AnonymousCallerIsForbidden(t *testing.T) {
	t.Parallel()
	f := setup(t)
	h := &handler{instanceService: f.svc}

	c, _ := newInstancesTestContext(t, http.MethodPost, `{"book_id":1,"imprint":"Folio"}`, "/bookinstances", nil)
	err := h.create(c)
	assert.True(t, errcodes.IsCode(err, "forbidden"))
}

func jsonInt(n int) string {
	b, _ := json.Marshal(n)
	return string(b)
}
