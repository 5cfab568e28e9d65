package gameconfig

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/osse101/SlotForge_Go/internal/domain"
)

var (
	tagValidator     *validator.Validate
	tagValidatorOnce sync.Once
)

// structValidator returns the shared tag validator. Field names in errors
// use json tags so problems read like the configuration document.
func structValidator() *validator.Validate {
	tagValidatorOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		_ = v.RegisterValidation("clusterbucket", validateClusterBucket)
		tagValidator = v
	})
	return tagValidator
}

func validateClusterBucket(fl validator.FieldLevel) bool {
	_, err := domain.ParseSizeBucket(fl.Field().String())
	return err == nil
}

// tagProblems runs struct tag validation and formats each failure as a problem line
func tagProblems(cfg *domain.GameConfig) []string {
	err := structValidator().Struct(cfg)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return []string{err.Error()}
	}

	problems := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		field := strings.TrimPrefix(e.Namespace(), "GameConfig.")
		switch e.Tag() {
		case "required":
			problems = append(problems, fmt.Sprintf("%s is required", field))
		case "min":
			problems = append(problems, fmt.Sprintf("%s must be at least %s", field, e.Param()))
		case "max":
			problems = append(problems, fmt.Sprintf("%s must be at most %s", field, e.Param()))
		case "oneof":
			problems = append(problems, fmt.Sprintf("%s must be one of [%s], got %v", field, e.Param(), e.Value()))
		case "clusterbucket":
			problems = append(problems, fmt.Sprintf("%s has an invalid size bucket %v", field, e.Value()))
		default:
			problems = append(problems, fmt.Sprintf("%s failed %s", field, e.Tag()))
		}
	}
	return problems
}
