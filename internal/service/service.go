// Package service contains the business logic for the ShareSpace API.
// Services validate inputs, enforce business rules, and orchestrate repo calls.
// Services depend on repo interfaces and never issue SQL themselves.
package service

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"go.opentelemetry.io/otel"

	"github.com/pkordes/sharespace/backend/internal/domain"
)

// tracer is resolved from the global provider, which is a no-op unless main
// installs a real one.
var tracer = otel.Tracer("github.com/pkordes/sharespace/backend/internal/service")

// maxTitleLength matches the limit shown to users in the listing forms.
const maxTitleLength = 50

// maxDescriptionLength bounds the free-text note on a place.
const maxDescriptionLength = 100

// validateTitle enforces the shared title rules for products and places.
func validateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("%w: title is required", domain.ErrValidation)
	}
	if utf8.RuneCountInString(title) > maxTitleLength {
		return fmt.Errorf("%w: title must be at most %d characters", domain.ErrValidation, maxTitleLength)
	}
	return nil
}

// validatePlace enforces the listing rules shared by place create and update.
func validatePlace(place domain.Place) error {
	if err := validateTitle(place.Title); err != nil {
		return err
	}
	if strings.TrimSpace(place.Category) == "" {
		return fmt.Errorf("%w: category is required", domain.ErrValidation)
	}
	if place.MaxPeriodDays < 1 {
		return fmt.Errorf("%w: maximum period must be at least one day", domain.ErrValidation)
	}
	if strings.TrimSpace(place.Location) == "" {
		return fmt.Errorf("%w: location is required", domain.ErrValidation)
	}
	if utf8.RuneCountInString(place.Description) > maxDescriptionLength {
		return fmt.Errorf("%w: description must be at most %d characters", domain.ErrValidation, maxDescriptionLength)
	}
	return nil
}
