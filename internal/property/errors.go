package property

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"marketplace-backend/internal/policy"

	"gorm.io/gorm"
)

var (
	// ErrForbidden means the property exists but the actor may not touch it.
	ErrForbidden  = policy.ErrForbidden
	ErrNotFound   = errors.New("not found")
	ErrConstraint = errors.New("constraint violation")
)

// ValidationError carries one message per offending field. Nothing is
// written when it is returned.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) add(field, msg string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	if _, exists := e.Fields[field]; !exists {
		e.Fields[field] = msg
	}
}

// storageErr maps GORM errors onto the package taxonomy.
func storageErr(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	case errors.Is(err, gorm.ErrDuplicatedKey), errors.Is(err, gorm.ErrForeignKeyViolated):
		return fmt.Errorf("%s: %w: %v", op, ErrConstraint, err)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
