package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/nats-io/nats.go/jetstream"

	"draftday/models"
)

const casMaxAttempts = 8

// natsEventRepository keeps every event as a JSON document in a JetStream
// key-value bucket. The bucket's MaxAge gives the 24h expiry; each write is a
// new revision, so the TTL is refreshed by every Put/Update. Revision numbers
// drive the compare-and-swap in Update.
type natsEventRepository struct {
	kv jetstream.KeyValue
}

func NewNATSEventRepository(kv jetstream.KeyValue) EventRepository {
	return &natsEventRepository{kv: kv}
}

func eventKey(id string) string  { return "event." + id }
func codeKey(code string) string { return "code." + code }

func (r *natsEventRepository) Get(ctx context.Context, id string) (*models.EventSession, error) {
	entry, err := r.kv.Get(ctx, eventKey(id))
	if err != nil {
		if errors.Is(err, jetstream.ErrKeyNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("get event %s: %w", id, err)
	}
	var event models.EventSession
	if err := json.Unmarshal(entry.Value(), &event); err != nil {
		return nil, fmt.Errorf("decode event %s: %w", id, err)
	}
	return &event, nil
}

func (r *natsEventRepository) Put(ctx context.Context, event *models.EventSession) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode event %s: %w", event.ID, err)
	}
	if _, err := r.kv.Put(ctx, eventKey(event.ID), data); err != nil {
		return fmt.Errorf("store event %s: %w", event.ID, err)
	}
	return nil
}

func (r *natsEventRepository) Update(ctx context.Context, id string, mutate func(*models.EventSession) error) (*models.EventSession, error) {
	var lastErr error
	for attempt := 0; attempt < casMaxAttempts; attempt++ {
		entry, err := r.kv.Get(ctx, eventKey(id))
		if err != nil {
			if errors.Is(err, jetstream.ErrKeyNotFound) {
				return nil, ErrEventNotFound
			}
			return nil, fmt.Errorf("get event %s: %w", id, err)
		}

		var event models.EventSession
		if err := json.Unmarshal(entry.Value(), &event); err != nil {
			return nil, fmt.Errorf("decode event %s: %w", id, err)
		}

		if err := mutate(&event); err != nil {
			return nil, err
		}

		data, err := json.Marshal(&event)
		if err != nil {
			return nil, fmt.Errorf("encode event %s: %w", id, err)
		}

		_, err = r.kv.Update(ctx, eventKey(id), data, entry.Revision())
		if err == nil {
			return &event, nil
		}
		// Revision moved under us; reload and try again.
		lastErr = err
	}
	return nil, fmt.Errorf("%w: event %s: %v", ErrCASExhausted, id, lastErr)
}

func (r *natsEventRepository) GetEventIDByCode(ctx context.Context, code string) (string, error) {
	entry, err := r.kv.Get(ctx, codeKey(code))
	if err != nil {
		if errors.Is(err, jetstream.ErrKeyNotFound) {
			return "", ErrCodeNotFound
		}
		return "", fmt.Errorf("get code %s: %w", code, err)
	}
	return string(entry.Value()), nil
}

func (r *natsEventRepository) PutCode(ctx context.Context, code, eventID string) error {
	if _, err := r.kv.Put(ctx, codeKey(code), []byte(eventID)); err != nil {
		return fmt.Errorf("store code %s: %w", code, err)
	}
	return nil
}

func (r *natsEventRepository) DeleteCode(ctx context.Context, code string) error {
	err := r.kv.Delete(ctx, codeKey(code))
	if err != nil && !errors.Is(err, jetstream.ErrKeyNotFound) {
		return fmt.Errorf("delete code %s: %w", code, err)
	}
	return nil
}
