package db

import (
	"errors"
	"fmt"
	"strings"

	"github.com/surrealdb/surrealdb.go"
)

// Sentinel errors for database operations.
// Use errors.Is() to check for these errors in calling code.
var (
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateLink indicates the same link was related twice in one run.
	ErrDuplicateLink = errors.New("duplicate link")

	// ErrTransactionConflict indicates a SurrealDB transaction conflict.
	// Callers should typically retry the sync.
	ErrTransactionConflict = errors.New("transaction conflict")
)

// wrapQueryError inspects a SurrealDB error and wraps it with the matching
// sentinel error. Unknown errors are returned unchanged.
func wrapQueryError(err error) error {
	if err == nil {
		return nil
	}

	var queryErr *surrealdb.QueryError
	if errors.As(err, &queryErr) {
		msg := queryErr.Message
		if strings.Contains(msg, "unique_link") || strings.Contains(msg, "already contains") {
			return fmt.Errorf("%w: %s", ErrDuplicateLink, msg)
		}
		if strings.Contains(msg, "Transaction conflict") {
			return fmt.Errorf("%w: %s", ErrTransactionConflict, msg)
		}
	}

	return err
}
