package common

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sevenweeks-07/vision-anchored-autograder/constants"
)

// ValidationError represents validation failures
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s %q: %s", e.Field, fmt.Sprint(e.Value), e.Message)
}

// ValidationRule checks one value and reports a failure, or nil.
type ValidationRule func(fieldName string, value any) *ValidationError

// Validator collects rule failures across fields.
type Validator struct {
	errors []ValidationError
}

func NewValidator() *Validator {
	return &Validator{}
}

// Field applies rules to value in order, stopping at the first failure.
func (v *Validator) Field(fieldName string, value any, rules ...ValidationRule) *Validator {
	for _, rule := range rules {
		if err := rule(fieldName, value); err != nil {
			v.errors = append(v.errors, *err)
			break
		}
	}
	return v
}

func (v *Validator) HasErrors() bool {
	return len(v.errors) > 0
}

func (v *Validator) Errors() []ValidationError {
	return v.errors
}

// Error joins all failures into an AppError wrapping ErrValidation, or returns nil.
func (v *Validator) Error() error {
	if !v.HasErrors() {
		return nil
	}
	msgs := make([]string, 0, len(v.errors))
	for _, e := range v.errors {
		msgs = append(msgs, e.Error())
	}
	return NewAppError(CodeInvalidArg, strings.Join(msgs, "; "), ErrValidation)
}

func Required(fieldName string, value any) *ValidationError {
	if s, ok := value.(string); ok && strings.TrimSpace(s) != "" {
		return nil
	}
	if value != nil {
		if _, isString := value.(string); !isString {
			return nil
		}
	}
	return &ValidationError{Field: fieldName, Value: value, Message: "is required"}
}

// FileExists requires a path to an existing regular file.
func FileExists(fieldName string, value any) *ValidationError {
	path, _ := value.(string)
	st, err := os.Stat(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return &ValidationError{Field: fieldName, Value: value, Message: "file not found"}
	case err != nil:
		return &ValidationError{Field: fieldName, Value: value, Message: err.Error()}
	case st.IsDir():
		return &ValidationError{Field: fieldName, Value: value, Message: "is a directory"}
	}
	return nil
}

// ImageExtension requires one of constants.AllowedExtensions.
func ImageExtension(fieldName string, value any) *ValidationError {
	path, _ := value.(string)
	if constants.IsAllowedExt(filepath.Ext(path)) {
		return nil
	}
	return &ValidationError{Field: fieldName, Value: value, Message: "unsupported image type"}
}

func Positive(fieldName string, value any) *ValidationError {
	n, ok := value.(int)
	if ok && n > 0 {
		return nil
	}
	return &ValidationError{Field: fieldName, Value: value, Message: "must be a positive integer"}
}
