package services

import (
	"errors"
	"testing"

	"marketd/internal/domain"
)

func TestWithRetry_SwallowsTransientOnLaterSuccess(t *testing.T) {
	calls := 0
	err := withRetry(func() error {
		calls++
		if calls == 1 {
			return domain.Transient("lost the race")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("a recovered transient must not surface, got %v", err)
	}
	if calls != 2 {
		t.Fatalf("want 2 attempts, got %d", calls)
	}
}

func TestWithRetry_SurfacesTransientAfterAllAttempts(t *testing.T) {
	calls := 0
	err := withRetry(func() error {
		calls++
		return domain.Transient("still losing")
	})
	if domain.KindOf(err) != domain.KindTransient {
		t.Fatalf("want transient after retries run out, got %v", err)
	}
	if calls != maxAttempts {
		t.Fatalf("want exactly %d attempts, got %d", maxAttempts, calls)
	}
}

func TestWithRetry_NonTransientStopsImmediately(t *testing.T) {
	calls := 0
	err := withRetry(func() error {
		calls++
		return domain.NotFound("gone")
	})
	if domain.KindOf(err) != domain.KindNotFound {
		t.Fatalf("want the original error, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("non-transient errors must not retry, got %d attempts", calls)
	}
}

func TestStoreErr_ClassifiesContention(t *testing.T) {
	if err := storeErr(errors.New("database is locked (5) (SQLITE_BUSY)")); domain.KindOf(err) != domain.KindTransient {
		t.Fatalf("locked must classify as transient, got %v", err)
	}
	if err := storeErr(errors.New("database table is locked")); domain.KindOf(err) != domain.KindTransient {
		t.Fatalf("table lock must classify as transient, got %v", err)
	}

	// anything else passes through untouched
	plain := errors.New("no such column: nope")
	if err := storeErr(plain); err != plain {
		t.Fatalf("want passthrough, got %v", err)
	}
	if storeErr(nil) != nil {
		t.Fatal("nil must stay nil")
	}
}
