package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"github.com/wecomkit/rulesync/internal/constants"
)

var (
	// validate is a singleton validator instance
	validate *validator.Validate
)

// InitValidator initializes the validator with custom configuration
func InitValidator() {
	// Create a new validator instance
	validate = validator.New()

	// Register function to get json tag names instead of struct field names
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	log.Info().Msg("Validator initialized")
}

// GetValidator returns the singleton validator instance
func GetValidator() *validator.Validate {
	if validate == nil {
		InitValidator()
	}
	return validate
}

// DecodeJSON decodes a JSON request body into the provided struct
// with improved error handling and size limits
func DecodeJSON(r *http.Request, v interface{}) error {
	// Limit the size of the request body to prevent DOS attacks
	r.Body = http.MaxBytesReader(nil, r.Body, constants.MaxRequestBodySize)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		var syntaxError *json.SyntaxError
		var unmarshalTypeError *json.UnmarshalTypeError
		var invalidUnmarshalError *json.InvalidUnmarshalError

		switch {
		case err.Error() == "http: request body too large":
			return NewBadRequestError(constants.MsgRequestBodyTooLarge)

		case errors.Is(err, io.EOF):
			return NewBadRequestError(constants.MsgEmptyRequestBody)

		case errors.Is(err, io.ErrUnexpectedEOF):
			return NewBadRequestError(constants.MsgMalformedJSON)

		case strings.HasPrefix(err.Error(), "json: unknown field "):
			fieldName := strings.TrimPrefix(err.Error(), "json: unknown field ")
			return NewValidationError("unknown_field", fmt.Sprintf("Request body contains unknown field %s", fieldName))

		case errors.As(err, &syntaxError):
			return NewBadRequestError(fmt.Sprintf("Request body contains malformed JSON (at position %d)", syntaxError.Offset))

		case errors.As(err, &unmarshalTypeError):
			if unmarshalTypeError.Field != "" {
				return NewValidationError(unmarshalTypeError.Field, fmt.Sprintf("Must be a %s", unmarshalTypeError.Type.String()))
			}
			return NewBadRequestError(fmt.Sprintf("Request body contains incorrect JSON type (at position %d)", unmarshalTypeError.Offset))

		case errors.As(err, &invalidUnmarshalError):
			return NewInternalServerError(err)

		default:
			return NewBadRequestError(err.Error())
		}
	}

	// Ensure the body only contains a single JSON object
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return NewBadRequestError("Request body must only contain a single JSON object")
	}

	return nil
}

// ValidateStruct validates a struct against its validation tags
func ValidateStruct(v interface{}) error {
	if err := GetValidator().Struct(v); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			details := make(map[string]string)
			for _, e := range validationErrors {
				details[e.Field()] = getErrorMessage(e)
			}
			return NewValidationErrorWithDetails("Validation failed", details)
		}
		return NewInternalServerError(err)
	}
	return nil
}

// DecodeAndValidate decodes a JSON request body and validates it in one step
func DecodeAndValidate(r *http.Request, v interface{}) error {
	if err := DecodeJSON(r, v); err != nil {
		return err
	}
	return ValidateStruct(v)
}

// getErrorMessage returns a human-readable message for a validation error
func getErrorMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "This field is required"
	case "max":
		return fmt.Sprintf("Must not exceed %s", e.Param())
	case "min":
		return fmt.Sprintf("Must be at least %s", e.Param())
	case "oneof":
		return fmt.Sprintf("Must be one of: %s", e.Param())
	default:
		return fmt.Sprintf("Failed validation: %s", e.Tag())
	}
}

// NewValidationErrorWithDetails creates a validation error carrying per-field details
func NewValidationErrorWithDetails(message string, details map[string]string) *AppError {
	// Fold the details into the message for error chains that only carry strings
	var parts []string
	for field, msg := range details {
		parts = append(parts, fmt.Sprintf("%s: %s", field, msg))
	}

	appErr := NewValidationError("", message)
	appErr.DevInfo = strings.Join(parts, "; ")
	return appErr
}
