package validation

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"roadassist/internal/shared/apperrors"
)

// ValidateCoordinates validates latitude and longitude values
func ValidateCoordinates(lat, lng float64) error {
	if lat < -90 || lat > 90 {
		return apperrors.Validationf("latitude must be between -90 and 90")
	}
	if lng < -180 || lng > 180 {
		return apperrors.Validationf("longitude must be between -180 and 180")
	}
	return nil
}

// ValidateUUID validates that a string is a valid UUID
func ValidateUUID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return apperrors.Validationf("invalid UUID format")
	}
	return nil
}

// ValidateStringNotEmpty validates that a string is not blank
func ValidateStringNotEmpty(value, fieldName string) error {
	if strings.TrimSpace(value) == "" {
		return apperrors.Validationf("%s cannot be empty", fieldName)
	}
	return nil
}

// ValidateNonNegativeFloat validates that a float is non-negative
func ValidateNonNegativeFloat(value float64, fieldName string) error {
	if value < 0 {
		return apperrors.Validationf("%s must be non-negative", fieldName)
	}
	return nil
}

// ValidateBreakdownType validates the breakdown-type tag
func ValidateBreakdownType(breakdownType string) error {
	validTypes := []string{"battery", "engine", "tire", "fuel", "accident", "other"}
	for _, validType := range validTypes {
		if breakdownType == validType {
			return nil
		}
	}
	return apperrors.Validationf(fmt.Sprintf("invalid breakdown type: must be one of %v", validTypes))
}

// ValidateMechanicStatus validates a mechanic availability status
func ValidateMechanicStatus(status string) error {
	validStatuses := []string{"available", "on_mission", "offline"}
	for _, validStatus := range validStatuses {
		if status == validStatus {
			return nil
		}
	}
	return apperrors.Validationf(fmt.Sprintf("invalid mechanic status: must be one of %v", validStatuses))
}
