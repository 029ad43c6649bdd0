// Package bind decodes request bodies and validates structs, mapping failures
// to perr validation and JSON errors with the offending field attached
package bind

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strings"
	"sync"

	perr "toxicbot/internal/platform/errors"
	"toxicbot/internal/platform/logger"
	str "toxicbot/internal/platform/strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

// DefaultMaxBytes bounds ParseJSON bodies unless JSONOptions says otherwise
const DefaultMaxBytes = 1 << 20

type checker struct {
	v     *validator.Validate
	trans ut.Translator
}

// short messages for the tags handlers and options use most
var messages = map[string]string{
	"required": "{0} is required",
	"min":      "{0} must be at least {1}",
	"max":      "{0} must be at most {1}",
	"gt":       "{0} must be greater than {1}",
	"lte":      "{0} must be at most {1}",
	"oneof":    "{0} must be one of [{1}]",
	"slug":     "{0} must be an owner/name repository slug",
}

var (
	validate = sync.OnceValue(newChecker)
	jsonMore = func(dec *json.Decoder) bool { return dec.More() } // seam
)

func newChecker() *checker {
	loc := en.New()
	trans, _ := ut.New(loc, loc).GetTranslator("en")

	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonName)
	_ = en_translations.RegisterDefaultTranslations(v, trans)
	_ = v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return IsSlug(fl.Field().String())
	})

	for tag, text := range messages {
		_ = v.RegisterTranslation(tag, trans,
			func(t ut.Translator) error { return t.Add(tag, text, true) },
			func(t ut.Translator, fe validator.FieldError) string {
				msg, _ := t.T(fe.Tag(), fe.Field(), fe.Param())
				return msg
			},
		)
	}
	return &checker{v: v, trans: trans}
}

// jsonName reports fields by their json tag so messages match the wire
func jsonName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if name == "" || name == "-" {
		return f.Name
	}
	return name
}

// Struct validates v. The first failing field becomes a validation error
// carrying that field; a non-struct argument is an internal error
func Struct(v any) error {
	c := validate()
	err := c.v.Struct(v)
	if err == nil {
		return nil
	}
	var inv *validator.InvalidValidationError
	if errors.As(err, &inv) {
		logger.Get().Error().Err(inv).Msg("validator internal error")
		return perr.Wrap(inv, perr.ErrorCodeUnknown, "validation error")
	}
	var fields validator.ValidationErrors
	if errors.As(err, &fields) && len(fields) > 0 {
		fe := fields[0]
		return perr.WithField(perr.New(perr.ErrorCodeValidation, fe.Translate(c.trans)), fe.Field())
	}
	return perr.Wrap(err, perr.ErrorCodeValidation, "validation error")
}

// JSONOptions controls ParseJSON. The zero value allows unknown fields, so
// callers wanting strictness start from the defaults ParseJSON uses
type JSONOptions struct {
	MaxBytes        int64
	DisallowUnknown bool
	AllowEmptyBody  bool
}

// ParseJSON decodes the body into T, rejects unknown fields and trailing data,
// then validates. An empty body decodes to the zero T only when allowed
func ParseJSON[T any](r *http.Request, opts ...JSONOptions) (T, error) {
	var zero T
	o := JSONOptions{MaxBytes: DefaultMaxBytes, DisallowUnknown: true}
	if len(opts) > 0 {
		o = opts[0]
	}
	if o.MaxBytes <= 0 {
		o.MaxBytes = DefaultMaxBytes
	}

	body, err := readBody(r, o.MaxBytes)
	if err != nil {
		return zero, err
	}
	if len(bytes.TrimSpace(body)) == 0 {
		if o.AllowEmptyBody {
			return zero, nil
		}
		return zero, perr.JSONErrf("empty body")
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	if o.DisallowUnknown {
		dec.DisallowUnknownFields()
	}
	var dst T
	if err := dec.Decode(&dst); err != nil {
		return zero, perr.JSONErrf("invalid JSON: %v", err)
	}
	if jsonMore(dec) {
		return zero, perr.JSONErrf("unexpected trailing data")
	}
	if err := Struct(dst); err != nil {
		return zero, err
	}
	return dst, nil
}

// ReadBody returns the raw body, rejecting blank bodies and those over max bytes
func ReadBody(r *http.Request, max int64) ([]byte, error) {
	b, err := readBody(r, max)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(b)) == 0 {
		return nil, perr.JSONErrf("empty body")
	}
	return b, nil
}

func readBody(r *http.Request, max int64) ([]byte, error) {
	defer func() {
		if err := r.Body.Close(); err != nil {
			logger.Get().Error().Err(err).Msg("failed to close request body")
		}
	}()
	b, err := io.ReadAll(io.LimitReader(r.Body, max+1))
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeJSON, "read body")
	}
	if int64(len(b)) > max {
		return nil, perr.JSONErrf("body exceeds %d bytes", max)
	}
	return b, nil
}

// IsSlug reports whether s is an "owner/name" repository slug with exactly one separator
func IsSlug(s string) bool {
	_, _, ok := str.SplitSlug(s)
	return ok
}
