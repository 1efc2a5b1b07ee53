package db

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// Unique-violation messages for the dialects we run against:
// postgres reports code 23505, sqlite reports code 2067.
var duplicateKeyMarkers = []string{
	"duplicate key value violates unique constraint",
	"UNIQUE constraint failed",
}

// IsDuplicateKeyErr reports whether err is a unique-constraint violation.
func IsDuplicateKeyErr(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	for _, marker := range duplicateKeyMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
