package users

import (
	"net/http"
	"net/http/httptest"
	"strconv"
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

func newUsersTestContext(t *testing.T, method, payload, path string, user *models.User) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	e := echo.New()
	b, err := binder.New()
	require.NoError(t, err)
	e.Binder = b

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

func TestHandlerCreate_DefaultsToBorrower(t *testing.T) {
	t.Parallel()
	db := testgen.NewDB(t)
	h := &handler{userService: NewService(db)}

	c, rr := newUsersTestContext(t, http.MethodPost, `{"username":"reader","password":"password123"}`, "/users", nil)
	require.NoError(t, h.create(c))
	assert.Equal(t, http.StatusCreated, rr.Code)

	var body struct {
		Username string `json:"username"`
		Role     struct {
			Name string `json:"name"`
		} `json:"role"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "reader", body.Username)
	assert.Equal(t, models.RoleBorrower, body.Role.Name)
	assert.NotContains(t, rr.Body.String(), "password")
}

func TestHandlerCreate_ShortPassword(t *testing.T) {
	t.Parallel()
	db := testgen.NewDB(t)
	h := &handler{userService: NewService(db)}

	c, _ := newUsersTestContext(t, http.MethodPost, `{"username":"reader","password":"short"}`, "/users", nil)
	err := h.create(c)
	require.Error(t, err)
	assert.True(t, errcodes.IsCode(err, "validation_error"))
}

func TestHandlerDeactivate_RejectsSelf(t *testing.T) {
	t.Parallel()
	db := testgen.NewDB(t)
	h := &handler{userService: NewService(db)}
	librarian := testgen.CreateUser(t, db, "admin", models.RoleLibrarian)

	c, _ := newUsersTestContext(t, http.MethodDelete, "", "/users/"+strconv.Itoa(librarian.ID), librarian)
	c.SetPath("/users/:id")
	c.SetParamNames("id")
	c.SetParamValues(strconv.Itoa(librarian.ID))

	err := h.deactivate(c)
	require.Error(t, err)
	assert.True(t, errcodes.IsCode(err, "validation_error"))
}

func TestHandlerDeactivate(t *testing.T) {
	t.Parallel()
	db := testgen.NewDB(t)
	h := &handler{userService: NewService(db)}
	librarian := testgen.CreateUser(t, db, "admin", models.RoleLibrarian)
	borrower := testgen.CreateUser(t, db, "bob", models.RoleBorrower)

	c, rr := newUsersTestContext(t, http.MethodDelete, "", "/users/"+strconv.Itoa(borrower.ID), librarian)
	c.SetPath("/users/:id")
	c.SetParamNames("id")
	c.SetParamValues(strconv.Itoa(borrower.ID))

	require.NoError(t, h.deactivate(c))
	assert.Equal(t, http.StatusNoContent, rr.Code)
}
