package service

import (
	"errors"
	"fmt"

	"github.com/julianstephens/carelog/internal/storage"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrDuplicateDailyLog = errors.New("a daily log already exists for this date")
	ErrDuplicateSleepLog = errors.New("a sleep log already exists for this date")
	ErrDuplicateUser     = errors.New("a user with this email already exists")
	ErrUnauthorized      = errors.New("unauthorized")
)

// notFound rewrites a storage miss as ErrNotFound and passes anything else through
func notFound(err error, what string) error {
	if errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return err
}
