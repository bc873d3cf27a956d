package bookinstances

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/locallibrary/locallibrary/pkg/auth"
	"github.com/locallibrary/locallibrary/pkg/models"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
)

type handler struct {
	instanceService *Service
}

func (h *handler) create(c echo.Context) error {
	ctx := c.Request().Context()

	params := CreateInstancePayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	instance := &models.BookInstance{
		BookID:  params.BookID,
		Imprint: params.Imprint,
		Status:  params.Status,
	}
	if err := h.instanceService.CreateInstance(ctx, instance, auth.CallerFromContext(c)); err != nil {
		return errors.WithStack(err)
	}

	logger.FromContext(ctx).Info("book instance created", logger.Data{"book_instance_id": instance.ID, "book_id": instance.BookID})

	return errors.WithStack(c.JSON(http.StatusCreated, instance))
}

func (h *handler) retrieve(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	instance, err := h.instanceService.RetrieveInstance(ctx, RetrieveInstanceOptions{ID: &id})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, instance))
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Request().Context()

	params := ListInstancesQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	instances, total, err := h.instanceService.ListInstancesWithTotal(ctx, ListInstancesOptions{
		Limit:  &params.Limit,
		Offset: &params.Offset,
		BookID: params.BookID,
		Status: params.Status,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	response := map[string]any{
		"book_instances": instances,
		"total":          total,
	}

	return errors.WithStack(c.JSON(http.StatusOK, response))
}

func (h *handler) update(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	params := UpdateInstancePayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	instance, err := h.instanceService.RetrieveInstance(ctx, RetrieveInstanceOptions{ID: &id})
	if err != nil {
		return errors.WithStack(err)
	}

	opts := UpdateInstanceOptions{Columns: []string{}}
	if params.Imprint != nil {
		instance.Imprint = *params.Imprint
		opts.Columns = append(opts.Columns, "imprint")
	}
	if params.Status != nil {
		instance.Status = *params.Status
		opts.Columns = append(opts.Columns, "status")
	}

	if err := h.instanceService.UpdateInstance(ctx, instance, opts, auth.CallerFromContext(c)); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, instance))
}

func (h *handler) renewalDefaults(c echo.Context) error {
	ctx := c.Request().Context()

	proposal, err := h.instanceService.RenewalDefaults(ctx, c.Param("id"), auth.CallerFromContext(c))
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, proposal))
}

func (h *handler) renew(c echo.Context) error {
	ctx := c.Request().Context()

	params := RenewInstancePayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	instance, err := h.instanceService.Renew(ctx, c.Param("id"), params.DueBack, auth.CallerFromContext(c))
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, instance))
}

func (h *handler) checkout(c echo.Context) error {
	ctx := c.Request().Context()

	params := CheckoutInstancePayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	instance, err := h.instanceService.Checkout(ctx, c.Param("id"), params.BorrowerID, params.DueBack, auth.CallerFromContext(c))
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, instance))
}

func (h *handler) markReturned(c echo.Context) error {
	ctx := c.Request().Context()

	instance, err := h.instanceService.MarkReturned(ctx, c.Param("id"), auth.CallerFromContext(c))
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, instance))
}
