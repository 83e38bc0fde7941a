package validator

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/aulalink/lms-service/internal/models"
)

// BusinessValidator handles business rule validation
type BusinessValidator struct {
	validate *validator.Validate
}

// ValidationError represents a business validation error
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
	Rule    string      `json:"rule,omitempty"`
}

type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "validation failed"
	}
	if len(ve) == 1 {
		return fmt.Sprintf("validation failed: %s %s", ve[0].Field, ve[0].Message)
	}
	return fmt.Sprintf("validation failed: %d field errors", len(ve))
}

// Validator is the facade services depend on.
type Validator = BusinessValidator

// New creates a validator with the domain rules registered
func New() *BusinessValidator {
	validate := validator.New()

	bv := &BusinessValidator{validate: validate}
	bv.registerBusinessRules()

	return bv
}

// Validate validates a struct against business rules
func (bv *BusinessValidator) Validate(s interface{}) ValidationErrors {
	var errors ValidationErrors

	err := bv.validate.Struct(s)
	if err != nil {
		for _, err := range err.(validator.ValidationErrors) {
			errors = append(errors, ValidationError{
				Field:   err.Field(),
				Message: bv.getErrorMessage(err),
				Value:   err.Value(),
				Rule:    err.Tag(),
			})
		}
	}

	return errors
}

// registerBusinessRules registers custom business rule validators
func (bv *BusinessValidator) registerBusinessRules() {
	// Role must be one of the closed set, already normalized
	bv.validate.RegisterValidation("user_role", func(fl validator.FieldLevel) bool {
		return models.UserRole(fl.Field().String()).IsValid()
	})

	// Course code: 2-50 chars, letters, digits and dashes
	bv.validate.RegisterValidation("course_code", func(fl validator.FieldLevel) bool {
		code := strings.TrimSpace(fl.Field().String())
		if len(code) < 2 || len(code) > 50 {
			return false
		}
		for _, r := range code {
			ok := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_'
			if !ok {
				return false
			}
		}
		return true
	})

	// Score range validation (0-100)
	bv.validate.RegisterValidation("score_range", func(fl validator.FieldLevel) bool {
		score := fl.Field().Float()
		return score >= 0 && score <= 100
	})

	// Delivery type for homeworks
	bv.validate.RegisterValidation("delivery_type", func(fl validator.FieldLevel) bool {
		switch models.DeliveryType(fl.Field().String()) {
		case models.DeliveryFile, models.DeliveryText, models.DeliveryOnline:
			return true
		}
		return false
	})

	// Title validation (1-200 characters after trimming)
	bv.validate.RegisterValidation("entity_title", func(fl validator.FieldLevel) bool {
		title := strings.TrimSpace(fl.Field().String())
		return len(title) >= 1 && len(title) <= 200
	})
}

// ValidateCourseCreate validates course creation business rules
func (bv *BusinessValidator) ValidateCourseCreate(req *CourseCreateRequest) ValidationErrors {
	return bv.Validate(req)
}

// ValidateHomeworkCreate validates homework creation, including the
// submission window ordering.
func (bv *BusinessValidator) ValidateHomeworkCreate(req *HomeworkCreateRequest) ValidationErrors {
	errors := bv.Validate(req)

	start, startErr := time.Parse("2006-01-02", req.StartDate)
	end, endErr := time.Parse("2006-01-02", req.EndDate)
	if startErr == nil && endErr == nil && end.Before(start) {
		errors = append(errors, ValidationError{
			Field:   "EndDate",
			Message: "must not be before start date",
			Value:   req.EndDate,
			Rule:    "date_order",
		})
	}

	return errors
}

// ValidateGrade validates a grading request
func (bv *BusinessValidator) ValidateGrade(req *GradeRequest) ValidationErrors {
	return bv.Validate(req)
}

// getErrorMessage converts a validator error to a readable message
func (bv *BusinessValidator) getErrorMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s characters", err.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", err.Param())
	case "datetime":
		return fmt.Sprintf("must match format %s", err.Param())
	case "user_role":
		return "must be a known role"
	case "course_code":
		return "must be 2-50 letters, digits or dashes"
	case "score_range":
		return "must be between 0 and 100"
	case "delivery_type":
		return "must be file, text or online"
	case "entity_title":
		return "must be 1-200 characters"
	default:
		return fmt.Sprintf("failed %s validation", err.Tag())
	}
}
