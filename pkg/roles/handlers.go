package roles

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/locallibrary/locallibrary/pkg/errcodes"
	"github.com/locallibrary/locallibrary/pkg/models"
	"github.com/pkg/errors"
)

type handler struct {
	roleService *Service
}

func (h *handler) list(c echo.Context) error {
	roles, err := h.roleService.List(c.Request().Context())
	if err != nil {
		return err
	}

	resp := struct {
		Roles []*models.Role `json:"roles"`
		Total int            `json:"total"`
	}{roles, len(roles)}

	return errors.WithStack(c.JSON(http.StatusOK, resp))
}

func (h *handler) retrieve(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Role")
	}

	role, err := h.roleService.Retrieve(c.Request().Context(), id)
	if err != nil {
		return err
	}

	return errors.WithStack(c.JSON(http.StatusOK, role))
}
