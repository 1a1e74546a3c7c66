package services

import (
	"database/sql"
	"errors"

	"marketd/internal/domain"
	"marketd/internal/repos"
)

// maxAttempts bounds internal retries of a whole atomic operation when
// the store reports contention. A transient error escaping to a caller
// means every attempt lost the race.
const maxAttempts = 3

func withRetry(fn func() error) error {
	var err error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		err = fn()
		if domain.KindOf(err) != domain.KindTransient {
			return err
		}
	}
	return err
}

// storeErr normalizes raw store errors: busy/locked becomes a retryable
// transient, everything else passes through.
func storeErr(err error) error {
	if err == nil {
		return nil
	}
	if repos.Busy(err) {
		return domain.Transient(err.Error())
	}
	return err
}

// notFoundOr maps a missing row to a domain NotFound and normalizes
// everything else through storeErr.
func notFoundOr(err error, msg string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return domain.NotFound(msg)
	}
	return storeErr(err)
}
