package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/go-playground/validator/v10"
)

// FieldErrors maps a request field to the messages describing what is wrong
// with it.
type FieldErrors map[string][]string

// Add appends a message for field.
func (f FieldErrors) Add(field, message string) {
	f[field] = append(f[field], message)
}

// Empty reports whether no field has an error.
func (f FieldErrors) Empty() bool {
	return len(f) == 0
}

// Field error messages
const (
	MsgRequired    = "This field is required."
	MsgBlank       = "This field may not be blank."
	MsgInvalidDate = "Date has wrong format. Use one of these formats instead: YYYY-MM-DD."
	MsgInvalidMail = "Enter a valid email address."
	MsgUsername    = "Enter a valid username. This value may contain only letters, numbers, and @/./+/-/_ characters."
)

// MsgInvalidPK is reported when a referenced row does not exist.
func MsgInvalidPK(id uint64) string {
	return fmt.Sprintf("Invalid pk \"%d\" - object does not exist.", id)
}

// MsgMaxLength is reported when a string has more than n characters.
func MsgMaxLength(n int) string {
	return fmt.Sprintf("Ensure this field has no more than %d characters.", n)
}

// MsgInvalidChoice is reported when a value is not among the allowed ones.
func MsgInvalidChoice(value any) string {
	return fmt.Sprintf("\"%v\" is not a valid choice.", value)
}

// FromBindError classifies an error returned by gin's binding. Per-field
// problems come back as FieldErrors; anything else (malformed JSON) comes back
// as a detail message.
func FromBindError(err error) (FieldErrors, string) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := FieldErrors{}
		for _, fe := range verrs {
			fields.Add(fe.Field(), messageFor(fe))
		}
		return fields, ""
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return FieldErrors{
			typeErr.Field: {fmt.Sprintf("Incorrect type. Expected %s, received %s.", typeErr.Type, typeErr.Value)},
		}, ""
	}

	return nil, "JSON parse error - " + err.Error()
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		if s, ok := fe.Value().(string); ok && s == "" {
			return MsgBlank
		}
		return MsgRequired
	case "max":
		if n, err := strconv.Atoi(fe.Param()); err == nil {
			return MsgMaxLength(n)
		}
		return fmt.Sprintf("Ensure this field has no more than %s characters.", fe.Param())
	case "min":
		return fmt.Sprintf("Ensure this field has at least %s characters.", fe.Param())
	case "email":
		return MsgInvalidMail
	case "oneof":
		return MsgInvalidChoice(fe.Value())
	case "datetime":
		return MsgInvalidDate
	case "username":
		return MsgUsername
	default:
		return "Invalid value."
	}
}
