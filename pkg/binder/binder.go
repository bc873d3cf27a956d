package binder

import (
	"encoding/json"
	"net/http"
	"net/url"
	"reflect"
	"regexp"
	"strings"

	"github.com/creasty/defaults"
	"github.com/go-playground/mold/v4"
	"github.com/go-playground/mold/v4/modifiers"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/schema"
	"github.com/labstack/echo/v4"
	"github.com/locallibrary/locallibrary/pkg/errcodes"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/echo/v4/middleware/logger"
)

var unknownFieldRE = regexp.MustCompile(`^json: unknown field "(.*)"$`)

// Binder implements echo.Binder. A request is decoded from its JSON or form
// body (or its query string for GET and DELETE), trimmed by mold, given its
// defaults, and validated. Every failure comes back as an errcodes error.
type Binder struct {
	query    *schema.Decoder
	form     *schema.Decoder
	conform  *mold.Transformer
	validate *validator.Validate
}

func newSchemaDecoder(tag string) *schema.Decoder {
	d := schema.NewDecoder()
	d.SetAliasTag(tag)
	return d
}

// New builds a Binder with the catalog validations registered. Fields are
// named by their json tag in error messages.
func New() (*Binder, error) {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	for tag, fn := range customValidations {
		if err := validate.RegisterValidation(tag, fn); err != nil {
			return nil, errors.Wrapf(err, "register %q validation", tag)
		}
	}

	return &Binder{
		query:    newSchemaDecoder("query"),
		form:     newSchemaDecoder("form"),
		conform:  modifiers.New(),
		validate: validate,
	}, nil
}

// Bind decodes, normalizes and validates the request into i.
func (b *Binder) Bind(i interface{}, c echo.Context) error {
	req := c.Request()

	switch {
	case req.ContentLength > 0:
		if err := b.decodeBody(i, c); err != nil {
			return err
		}
	case req.Method == http.MethodGet || req.Method == http.MethodDelete:
		if err := decodeValues(b.query, i, c.QueryParams()); err != nil {
			return err
		}
	case allowsEmptyBody(c):
	default:
		return errcodes.EmptyRequestBody()
	}

	if err := b.conform.Struct(req.Context(), i); err != nil {
		return errors.WithStack(err)
	}
	if err := defaults.Set(i); err != nil {
		return errors.WithStack(err)
	}

	err := b.validate.Struct(i)
	if err == nil {
		return nil
	}
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) || len(errs) == 0 {
		return errors.WithStack(err)
	}
	return errcodes.ValidationError(formatValidationError(errs[0]))
}

// allowsEmptyBody lets a route accept a bodiless POST by setting
// "disallow_empty_body" to false on the context.
func allowsEmptyBody(c echo.Context) bool {
	disallow, ok := c.Get("disallow_empty_body").(bool)
	return ok && !disallow
}

func (b *Binder) decodeBody(i interface{}, c echo.Context) error {
	req := c.Request()
	ctype := req.Header.Get(echo.HeaderContentType)

	switch {
	case strings.HasPrefix(ctype, echo.MIMEApplicationJSON):
		defer req.Body.Close()
		return decodeJSON(c, i)
	case strings.HasPrefix(ctype, echo.MIMEApplicationForm):
		params, err := c.FormParams()
		if err != nil {
			return errcodes.MalformedPayload()
		}
		return decodeValues(b.form, i, params)
	default:
		return errcodes.UnsupportedMediaType()
	}
}

func decodeJSON(c echo.Context, i interface{}) error {
	dec := json.NewDecoder(c.Request().Body)
	dec.DisallowUnknownFields()

	err := dec.Decode(i)
	if err == nil {
		return nil
	}

	if m := unknownFieldRE.FindStringSubmatch(err.Error()); len(m) > 1 {
		return errcodes.UnknownParameter(m[1])
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return errcodes.ValidationTypeError(formatUnmarshalTypeError(typeErr))
	}

	logger.FromEchoContext(c).Err(err).Warn("unknown json decode error")
	return errcodes.MalformedPayload()
}

// decodeValues decodes query or form values, reporting the first bad key.
func decodeValues(d *schema.Decoder, i interface{}, values url.Values) error {
	err := d.Decode(i, values)
	if err == nil {
		return nil
	}

	var multi schema.MultiError
	if !errors.As(err, &multi) {
		return errors.WithStack(err)
	}
	for _, e := range multi {
		var conv schema.ConversionError
		if errors.As(e, &conv) {
			return errcodes.ValidationTypeError(formatSchemaConversionError(conv))
		}
		var unknown schema.UnknownKeyError
		if errors.As(e, &unknown) {
			return errcodes.UnknownParameter(unknown.Key)
		}
		return errors.WithStack(e)
	}
	return errors.WithStack(err)
}
