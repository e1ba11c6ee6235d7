package service

import (
	"github.com/noah-isme/classroom-api/pkg/database"
	appErrors "github.com/noah-isme/classroom-api/pkg/errors"
)

// constraintErrors maps storage constraint names to the error reported for them.
type constraintErrors map[string]*appErrors.Error

// writeError translates unique and foreign key violations raised by the storage
// layer. Any other failure becomes an internal error carrying fallback.
func writeError(err error, fallback string, known constraintErrors) error {
	if constraint, ok := database.UniqueViolation(err); ok {
		if mapped, found := known[constraint]; found {
			return mapped
		}
		return appErrors.Wrap(err, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, "Resource already exists")
	}
	if constraint, ok := database.ForeignKeyViolation(err); ok {
		if mapped, found := known[constraint]; found {
			return mapped
		}
		return appErrors.Wrap(err, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, "Resource is referenced by other records")
	}
	return appErrors.Internal(err, fallback)
}
