// Package validation converts raw request bodies into validated, typed input
// structs. Each entity has one function per operation; all of them reject
// unknown fields and report failures as field-keyed ValidationFailed errors.
package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/recipehub/recipe-service/internal/apperrors"
)

var emailRe = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// fieldErrors accumulates per-field validation messages.
type fieldErrors map[string][]string

func (f fieldErrors) add(field, message string) {
	f[field] = append(f[field], message)
}

// err returns a ValidationFailed error, or nil when no field failed.
func (f fieldErrors) err() *apperrors.Error {
	if len(f) == 0 {
		return nil
	}
	return apperrors.Validation(f)
}

// decodeStrict unmarshals body into dst, rejecting empty bodies, malformed
// JSON, type mismatches, and unknown fields.
func decodeStrict(body []byte, dst any) *apperrors.Error {
	if len(bytes.TrimSpace(body)) == 0 {
		return apperrors.New(apperrors.KindValidationFailed, "no input data provided")
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			return apperrors.ValidationField(typeErr.Field,
				fmt.Sprintf("must be of type %s", typeErr.Type.Kind()))
		}
		if field, ok := unknownField(err); ok {
			return apperrors.ValidationField(field, "unknown field")
		}
		return apperrors.Wrap(apperrors.KindValidationFailed, "request body is not valid JSON", err)
	}
	// Trailing garbage after the JSON document.
	if dec.More() {
		return apperrors.New(apperrors.KindValidationFailed, "request body must be a single JSON object")
	}
	return nil
}

// unknownField extracts the field name from encoding/json's unknown-field
// error, which is only exposed as formatted text.
func unknownField(err error) (string, bool) {
	const marker = `json: unknown field "`
	msg := err.Error()
	if !strings.HasPrefix(msg, marker) {
		return "", false
	}
	return strings.TrimSuffix(strings.TrimPrefix(msg, marker), `"`), true
}

func requireString(errs fieldErrors, field string, value *string) (string, bool) {
	if value == nil {
		errs.add(field, field+" is required")
		return "", false
	}
	if strings.TrimSpace(*value) == "" {
		errs.add(field, field+" cannot be empty")
		return "", false
	}
	return *value, true
}

func checkLen(errs fieldErrors, field, value string, min, max int) bool {
	if len(value) < min {
		errs.add(field, fmt.Sprintf("%s must be at least %d characters long", field, min))
		return false
	}
	if max > 0 && len(value) > max {
		errs.add(field, fmt.Sprintf("%s must not exceed %d characters", field, max))
		return false
	}
	return true
}

func checkOptionalLen(errs fieldErrors, field string, value *string, max int) {
	if value != nil && len(*value) > max {
		errs.add(field, fmt.Sprintf("%s must not exceed %d characters", field, max))
	}
}

func checkEmail(errs fieldErrors, field, value string) bool {
	if !emailRe.MatchString(value) {
		errs.add(field, "must be a valid email address")
		return false
	}
	return true
}
