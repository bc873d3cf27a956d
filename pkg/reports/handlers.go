package reports

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/locallibrary/locallibrary/pkg/auth"
	"github.com/pkg/errors"
)

type handler struct {
	reportService *Service
	visits        *visitCounter
}

// home returns the catalog totals. num_visits is the count before this
// request, so the first visit reports zero.
func (h *handler) home(c echo.Context) error {
	ctx := c.Request().Context()

	stats, err := h.reportService.Home(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	visits := h.visits.read(c)
	if err := h.visits.write(c, visits+1); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, HomeResponse{stats, visits}))
}

func (h *handler) myLoans(c echo.Context) error {
	ctx := c.Request().Context()

	params := ListLoansQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	loans, total, err := h.reportService.MyLoans(ctx, auth.CallerFromContext(c), LoanListOptions{
		Limit:  &params.Limit,
		Offset: &params.Offset,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, map[string]any{
		"book_instances": loans,
		"total":          total,
	}))
}

func (h *handler) allBorrowed(c echo.Context) error {
	ctx := c.Request().Context()

	params := ListLoansQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	loans, total, err := h.reportService.AllBorrowed(ctx, auth.CallerFromContext(c), LoanListOptions{
		Limit:  &params.Limit,
		Offset: &params.Offset,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, map[string]any{
		"book_instances": loans,
		"total":          total,
	}))
}

func (h *handler) overdue(c echo.Context) error {
	ctx := c.Request().Context()

	loans, err := h.reportService.Overdue(ctx, auth.CallerFromContext(c))
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, map[string]any{
		"book_instances": loans,
		"total":          len(loans),
	}))
}
