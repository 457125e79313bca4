// Pulsefit - Fitness Tracking and Recommendation Backend
// Copyright 2026 Pulsefit Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pulsefit/pulsefit

// Package validation provides struct validation using go-playground/validator v10.
// It exposes a thread-safe singleton validator so struct metadata is cached once
// per process, and translates field errors into the API's error format.
//
// Example usage:
//
//	type recommendationsRequest struct {
//	    Count int    `validate:"min=1,max=50"`
//	    Seed  string `validate:"omitempty,number"`
//	}
//
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    apiErr := verr.ToAPIError()
//	    respondError(w, http.StatusBadRequest, apiErr.Message)
//	    return
//	}
package validation

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// goals accepted by profile-driven endpoints.
const goalValues = "maintain lose_weight gain_weight"

// FieldError is a single field validation failure.
type FieldError struct {
	Field   string
	Tag     string
	Param   string
	Value   interface{}
	Message string
}

// Error returns the human-readable message for the failure.
func (e *FieldError) Error() string {
	return e.Message
}

// RequestValidationError aggregates every field failure from one struct.
type RequestValidationError struct {
	fields []FieldError
}

// Fields returns the individual field failures.
func (ve *RequestValidationError) Fields() []FieldError {
	return ve.fields
}

// Error implements the error interface with a combined message.
func (ve *RequestValidationError) Error() string {
	if len(ve.fields) == 0 {
		return "validation failed"
	}
	msgs := make([]string, len(ve.fields))
	for i, fe := range ve.fields {
		msgs[i] = fe.Message
	}
	return strings.Join(msgs, "; ")
}

// APIError mirrors the API layer's error shape without importing it.
type APIError struct {
	Code    string
	Message string
	Details map[string]interface{}
}

// ToAPIError converts the validation failure into the API error format.
func (ve *RequestValidationError) ToAPIError() *APIError {
	if len(ve.fields) == 0 {
		return &APIError{Code: "VALIDATION_ERROR", Message: "Validation failed"}
	}

	if len(ve.fields) == 1 {
		fe := ve.fields[0]
		return &APIError{
			Code:    "VALIDATION_ERROR",
			Message: fe.Message,
			Details: map[string]interface{}{
				"field": fe.Field,
				"tag":   fe.Tag,
				"value": fe.Value,
			},
		}
	}

	details := make([]map[string]interface{}, len(ve.fields))
	msgs := make([]string, len(ve.fields))
	for i, fe := range ve.fields {
		details[i] = map[string]interface{}{
			"field":   fe.Field,
			"tag":     fe.Tag,
			"message": fe.Message,
		}
		msgs[i] = fmt.Sprintf("%s: %s", fe.Field, fe.Message)
	}
	return &APIError{
		Code:    "VALIDATION_ERROR",
		Message: strings.Join(msgs, "; "),
		Details: map[string]interface{}{"fields": details},
	}
}

// GetValidator returns the singleton validator instance, registering the
// Pulsefit-specific validators on first use.
func GetValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())

		// fitness_goal accepts the goal enum plus empty (caller defaults).
		_ = validate.RegisterValidation("fitness_goal", func(fl validator.FieldLevel) bool {
			v := fl.Field().String()
			if v == "" {
				return true
			}
			for _, g := range strings.Fields(goalValues) {
				if v == g {
					return true
				}
			}
			return false
		})
	})
	return validate
}

// ValidateStruct validates s against its struct tags.
// Returns nil on success, or a *RequestValidationError describing every
// failing field.
func ValidateStruct(s interface{}) *RequestValidationError {
	err := GetValidator().Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &RequestValidationError{fields: []FieldError{{
			Field:   "unknown",
			Tag:     "unknown",
			Message: err.Error(),
		}}}
	}

	fields := make([]FieldError, len(verrs))
	for i, fe := range verrs {
		fields[i] = FieldError{
			Field:   fe.Field(),
			Tag:     fe.Tag(),
			Param:   fe.Param(),
			Value:   fe.Value(),
			Message: translate(fe),
		}
	}
	return &RequestValidationError{fields: fields}
}

// simple message templates keyed by validation tag.
var messageTemplates = map[string]string{
	"required":     "%s is required",
	"email":        "%s must be a valid email address",
	"number":       "%s must be numeric",
	"url":          "%s must be a valid URL",
	"fitness_goal": "%s must be one of: maintain, lose_weight, gain_weight",
}

// templates that interpolate the tag parameter as well.
var paramTemplates = map[string]string{
	"oneof": "%s must be one of: %s",
	"gte":   "%s must be greater than or equal to %s",
	"lte":   "%s must be less than or equal to %s",
	"gt":    "%s must be greater than %s",
	"lt":    "%s must be less than %s",
}

// translate converts a validator.FieldError to a human-readable message.
func translate(fe validator.FieldError) string {
	field, tag, param := fe.Field(), fe.Tag(), fe.Param()

	if t, ok := messageTemplates[tag]; ok {
		return fmt.Sprintf(t, field)
	}
	if t, ok := paramTemplates[tag]; ok {
		return fmt.Sprintf(t, field, param)
	}

	isString := fe.Kind().String() == "string"
	switch tag {
	case "min":
		if isString {
			return fmt.Sprintf("%s must be at least %s characters", field, param)
		}
		return fmt.Sprintf("%s must be at least %s", field, param)
	case "max":
		if isString {
			return fmt.Sprintf("%s must be at most %s characters", field, param)
		}
		return fmt.Sprintf("%s must be at most %s", field, param)
	default:
		return fmt.Sprintf("%s failed %s validation", field, tag)
	}
}
