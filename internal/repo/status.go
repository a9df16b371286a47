package repo

import (
	"errors"
	"net/http"
	"strings"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

const pqUniqueViolation = "23505"

// IsDuplicate reports a unique constraint violation from either dialect.
func IsDuplicate(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation
}

// StatusFromError maps a storage error onto the HTTP status the store implies.
func StatusFromError(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, gorm.ErrRecordNotFound):
		return http.StatusNotFound
	case IsDuplicate(err):
		return http.StatusConflict
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch {
		// connection exceptions
		case strings.HasPrefix(string(pqErr.Code), "08"):
			return http.StatusServiceUnavailable
		// foreign key, check and not-null violations
		case pqErr.Code.Class() == "23":
			return http.StatusBadRequest
		}
	}
	return http.StatusInternalServerError
}
