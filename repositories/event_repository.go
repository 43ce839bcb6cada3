package repositories

import (
	"context"
	"errors"

	"draftday/models"
)

var (
	ErrEventNotFound = errors.New("event record not found")
	ErrCodeNotFound  = errors.New("event code not found")
	ErrCASExhausted  = errors.New("concurrent update conflict, retries exhausted")
)

// EventRepository is the storage collaborator: one serialized EventSession
// per event id plus a lightweight code→id pointer, both with a fixed TTL
// refreshed on every write.
type EventRepository interface {
	Get(ctx context.Context, id string) (*models.EventSession, error)
	// Put overwrites the whole record and refreshes its TTL.
	Put(ctx context.Context, event *models.EventSession) error
	// Update runs mutate inside a compare-and-swap loop: load fresh record,
	// mutate, write back only if nobody wrote in between, retry otherwise.
	// This is the single-writer-per-key serialization the match resolver
	// relies on. An error returned by mutate aborts without writing.
	Update(ctx context.Context, id string, mutate func(*models.EventSession) error) (*models.EventSession, error)

	GetEventIDByCode(ctx context.Context, code string) (string, error)
	PutCode(ctx context.Context, code, eventID string) error
	DeleteCode(ctx context.Context, code string) error
}
