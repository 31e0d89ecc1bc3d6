package service

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

const dateLayout = "2006-01-02"

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their wire names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	if err := v.RegisterValidation("date", func(fl validator.FieldLevel) bool {
		_, err := parseDate(fl.Field().String())
		return err == nil
	}); err != nil {
		panic(err)
	}

	if err := v.RegisterValidation("integer", func(fl validator.FieldLevel) bool {
		_, err := parseID(fl.Field().String())
		return err == nil
	}); err != nil {
		panic(err)
	}

	return v
}

// validateStruct runs the struct tags of req and converts failures into a
// ValidationError. An empty result means req passed.
func validateStruct(req any) *ValidationError {
	verr := &ValidationError{}

	err := validate.Struct(req)
	if err == nil {
		return verr
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		verr.Add("_", err.Error())
		return verr
	}

	for _, fe := range fieldErrs {
		verr.Add(fe.Field(), fieldMessage(fe))
	}
	return verr
}

func fieldMessage(fe validator.FieldError) string {
	attr := strings.ReplaceAll(fe.Field(), "_", " ")

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("The %s field is required.", attr)
	case "max":
		return fmt.Sprintf("The %s field must not be greater than %s characters.", attr, fe.Param())
	case "oneof":
		return fmt.Sprintf("The selected %s is invalid.", attr)
	case "boolean":
		return fmt.Sprintf("The %s field must be true or false.", attr)
	case "integer":
		return fmt.Sprintf("The %s field must be an integer.", attr)
	case "date":
		return fmt.Sprintf("The %s field must be a valid date.", attr)
	default:
		return fmt.Sprintf("The %s field is invalid.", attr)
	}
}

func invalidReference(field string) string {
	return fmt.Sprintf("The selected %s is invalid.", strings.ReplaceAll(field, "_", " "))
}

// parseDate accepts a calendar date or an RFC 3339 timestamp and returns the
// UTC calendar date.
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q", s)
	}
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}

func optionalDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := parseDate(s)
	if err != nil {
		return nil
	}
	return &t
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// parseID accepts unsigned decimal digits that fit in an int64.
func parseID(s string) (int64, error) {
	if s == "" || strings.TrimLeft(s, "0123456789") != "" {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return strconv.ParseInt(s, 10, 64)
}

// optionalID parses an integer reference. An empty string yields nil.
func optionalID(s string) (*int64, error) {
	if s == "" {
		return nil, nil
	}
	id, err := parseID(s)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// truthy mirrors the "boolean" validation rule.
func truthy(s string) bool {
	b, err := strconv.ParseBool(s)
	return err == nil && b
}
