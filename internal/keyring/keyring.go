// Package keyring keeps secrets in the OS keyring instead of on disk or in flags.
package keyring

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"

	"github.com/julianstephens/carelog/internal/constants"
)

var (
	// ErrNotFound is returned when no secret is stored under a key
	ErrNotFound = errors.New("credentials not found in keyring")
	// ErrKeyringUnavailable is returned when the OS keyring cannot be reached
	ErrKeyringUnavailable = errors.New("OS keyring is not available")
)

// Keys used under the carelog service name
const (
	ConnectionKey = constants.DefaultKeyringUser
	apiTokenKey   = "api-token:"
)

func get(key string) (string, error) {
	value, err := keyring.Get(constants.AppName, key)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return value, nil
}

func set(key, value, what string) error {
	if value == "" {
		return fmt.Errorf("%s cannot be empty", what)
	}
	if err := keyring.Set(constants.AppName, key, value); err != nil {
		return fmt.Errorf("failed to store %s in keyring: %w", what, err)
	}
	return nil
}

func remove(key, what string) error {
	if err := keyring.Delete(constants.AppName, key); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete %s from keyring: %w", what, err)
	}
	return nil
}

// GetConnectionString returns the stored database connection string
func GetConnectionString() (string, error) {
	return get(ConnectionKey)
}

// SetConnectionString stores the database connection string
func SetConnectionString(connStr string) error {
	return set(ConnectionKey, connStr, "connection string")
}

// DeleteConnectionString removes the stored database connection string
func DeleteConnectionString() error {
	return remove(ConnectionKey, "connection string")
}

// GetAPIToken returns the API token saved for a user email
func GetAPIToken(email string) (string, error) {
	return get(apiTokenKey + email)
}

// SetAPIToken saves a user's API token so HTTP clients on this machine can reuse it
func SetAPIToken(email, token string) error {
	return set(apiTokenKey+email, token, "API token")
}

// DeleteAPIToken forgets a saved API token
func DeleteAPIToken(email string) error {
	return remove(apiTokenKey+email, "API token")
}

// IsAvailable reports whether the OS keyring answers requests.
// A missing probe entry still means the keyring works.
func IsAvailable() bool {
	_, err := keyring.Get(constants.AppName, "test-availability")
	return err == nil || errors.Is(err, keyring.ErrNotFound)
}
