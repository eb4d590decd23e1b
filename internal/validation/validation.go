package validation

import (
	"errors"
	"reflect"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
}

// ValidateStruct checks the `validate` tags of a request struct and returns
// a readable message on failure
func ValidateStruct(s interface{}) error {
	if err := validate.Struct(s); err != nil {
		return errors.New(FormatValidationErrors(err))
	}
	return nil
}

// FormatValidationErrors joins validator errors into one sentence per field
func FormatValidationErrors(err error) string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err.Error()
	}

	msgs := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		switch e.Tag() {
		case "required":
			msgs = append(msgs, e.Field()+" is required")
		case "email":
			msgs = append(msgs, e.Field()+" must be a valid email")
		case "min":
			msgs = append(msgs, e.Field()+" must be at least "+e.Param())
		case "max":
			msgs = append(msgs, e.Field()+" must be at most "+e.Param())
		case "oneof":
			msgs = append(msgs, e.Field()+" must be one of: "+e.Param())
		case "gtefield":
			msgs = append(msgs, e.Field()+" must not be before "+e.Param())
		default:
			msgs = append(msgs, e.Field()+" is not valid")
		}
	}
	return strings.Join(msgs, "; ")
}

// ValidateRequired checks that a field is not blank
func ValidateRequired(value, fieldName string) error {
	if strings.TrimSpace(value) == "" {
		return errors.New(fieldName + " is required")
	}
	return nil
}

// ValidateMinLength checks the minimum rune length of a string
func ValidateMinLength(value string, minLength int, fieldName string) error {
	if utf8.RuneCountInString(value) < minLength {
		return errors.New(fieldName + " must be at least " + strconv.Itoa(minLength) + " characters long")
	}
	return nil
}

// ValidateMaxLength checks the maximum rune length of a string
func ValidateMaxLength(value string, maxLength int, fieldName string) error {
	if utf8.RuneCountInString(value) > maxLength {
		return errors.New(fieldName + " must be at most " + strconv.Itoa(maxLength) + " characters long")
	}
	return nil
}

// ParseUUID parses a path or body id
func ParseUUID(value, fieldName string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(value))
	if err != nil {
		return uuid.Nil, errors.New(fieldName + " must be a valid UUID")
	}
	return id, nil
}

// ValidateEmail checks the basic shape of an email address
func ValidateEmail(email string) error {
	if err := validate.Var(strings.TrimSpace(email), "required,email"); err != nil {
		return errors.New("email must have a valid format")
	}
	return nil
}

// ValidateDateRange checks that an event does not end before it starts
// and does not start more than a day in the past
func ValidateDateRange(startDate, endDate time.Time) error {
	if endDate.Before(startDate) {
		return errors.New("end date must be after start date")
	}

	if startDate.Before(time.Now().Add(-24 * time.Hour)) {
		return errors.New("start date cannot be in the past")
	}

	return nil
}

// EventValidation groups event field rules
type EventValidation struct{}

// ValidateEventTitle validates an event title
func (v EventValidation) ValidateEventTitle(title string) error {
	if err := ValidateRequired(title, "title"); err != nil {
		return err
	}
	if err := ValidateMinLength(strings.TrimSpace(title), 3, "title"); err != nil {
		return err
	}
	return ValidateMaxLength(title, 200, "title")
}

// ValidateEventDescription validates an optional event description
func (v EventValidation) ValidateEventDescription(description string) error {
	return ValidateMaxLength(description, 5000, "description")
}

// ValidateAttendanceCode validates the code students type at check-in
func (v EventValidation) ValidateAttendanceCode(code string) error {
	if err := ValidateMinLength(strings.TrimSpace(code), 4, "attendance_code"); err != nil {
		return err
	}
	return ValidateMaxLength(code, 32, "attendance_code")
}

// ProfileValidation groups profile field rules
type ProfileValidation struct{}

// ValidateFullName validates a profile's display name
func (v ProfileValidation) ValidateFullName(name string) error {
	if err := ValidateRequired(name, "full_name"); err != nil {
		return err
	}
	if err := ValidateMinLength(strings.TrimSpace(name), 2, "full_name"); err != nil {
		return err
	}
	return ValidateMaxLength(name, 100, "full_name")
}
