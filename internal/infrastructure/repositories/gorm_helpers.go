package repositories

import (
	"errors"
	"fmt"
	"strings"
	"time"

	domainerrors "agrimarket.backend/internal/domain/errors"
	"agrimarket.backend/pkg/utils"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"
)

// isDuplicateKey matches unique violations from both postgres and sqlite
func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "unique constraint")
}

// duplicateOn reports whether err is a unique violation naming column
func duplicateOn(err error, column string) bool {
	return isDuplicateKey(err) && strings.Contains(strings.ToLower(err.Error()), column)
}

// createErr maps insert failures of a one-per-user record. A duplicate on
// user_id means the step was already stored.
func createErr(err error, entity string) error {
	if err == nil {
		return nil
	}
	if duplicateOn(err, "user_id") {
		return fmt.Errorf("%s already stored: %w", entity, domainerrors.ErrStepConflict)
	}
	if isDuplicateKey(err) {
		return fmt.Errorf("%s: %w", entity, domainerrors.ErrAlreadyExists)
	}
	return err
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domainerrors.ErrNotFound
	}
	return err
}

func paginate(q *gorm.DB, page utils.PaginationParams) *gorm.DB {
	if page.Limit > 0 {
		q = q.Limit(page.Limit).Offset(page.CalculateOffset())
	}
	return q
}

func likePattern(search string) string {
	return "%" + strings.ToLower(strings.TrimSpace(search)) + "%"
}

func toNullString(s *string) null.String {
	return null.StringFromPtr(s)
}

func fromNullString(s null.String) *string {
	return s.Ptr()
}

func toNullTime(t *time.Time) null.Time {
	return null.TimeFromPtr(t)
}

func fromNullTime(t null.Time) *time.Time {
	return t.Ptr()
}
