package languages

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/locallibrary/locallibrary/pkg/errcodes"
	"github.com/locallibrary/locallibrary/pkg/models"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
)

type handler struct {
	languageService *Service
}

func (h *handler) create(c echo.Context) error {
	ctx := c.Request().Context()

	params := CreateLanguagePayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	language := &models.Language{Name: params.Name}
	if err := h.languageService.CreateLanguage(ctx, language); err != nil {
		return errors.WithStack(err)
	}

	logger.FromContext(ctx).Info("language created", logger.Data{"language_id": language.ID})

	return errors.WithStack(c.JSON(http.StatusCreated, language))
}

func (h *handler) retrieve(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Language")
	}

	language, err := h.languageService.RetrieveLanguage(ctx, RetrieveLanguageOptions{ID: &id})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, language))
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Request().Context()

	params := ListLanguagesQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	languages, total, err := h.languageService.ListLanguagesWithTotal(ctx, ListLanguagesOptions{
		Limit:  &params.Limit,
		Offset: &params.Offset,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	response := map[string]any{
		"languages": languages,
		"total":     total,
	}

	return errors.WithStack(c.JSON(http.StatusOK, response))
}

func (h *handler) update(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Language")
	}

	params := UpdateLanguagePayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	language, err := h.languageService.RetrieveLanguage(ctx, RetrieveLanguageOptions{ID: &id})
	if err != nil {
		return errors.WithStack(err)
	}

	opts := UpdateLanguageOptions{Columns: []string{}}
	if params.Name != nil {
		name := strings.TrimSpace(*params.Name)
		if name == "" {
			return errcodes.ValidationError("Language name cannot be empty")
		}
		if name != language.Name {
			language.Name = name
			opts.Columns = append(opts.Columns, "name")
		}
	}

	if err := h.languageService.UpdateLanguage(ctx, language, opts); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, language))
}

func (h *handler) deleteLanguage(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Language")
	}

	if err := h.languageService.DeleteLanguage(ctx, id); err != nil {
		return errors.WithStack(err)
	}

	return c.NoContent(http.StatusNoContent)
}
