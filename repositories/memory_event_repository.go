package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"draftday/models"
)

// memoryEventRepository is the in-process fallback used when no NATS server
// is configured, and the repository of choice in tests. Records are kept as
// JSON blobs so reads hand out independent copies, exactly like the real
// store. The mutex serializes Update, giving the same single-writer-per-key
// behavior as the KV revision CAS.
type memoryEventRepository struct {
	mu     sync.Mutex
	ttl    time.Duration
	now    func() time.Time
	events map[string]memoryEntry
	codes  map[string]memoryEntry
}

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

func NewMemoryEventRepository(ttl time.Duration) EventRepository {
	return &memoryEventRepository{
		ttl:    ttl,
		now:    time.Now,
		events: make(map[string]memoryEntry),
		codes:  make(map[string]memoryEntry),
	}
}

func (r *memoryEventRepository) entry(m map[string]memoryEntry, key string) ([]byte, bool) {
	e, ok := m[key]
	if !ok {
		return nil, false
	}
	if r.now().After(e.expiresAt) {
		delete(m, key)
		return nil, false
	}
	return e.data, true
}

func (r *memoryEventRepository) getLocked(id string) (*models.EventSession, error) {
	data, ok := r.entry(r.events, id)
	if !ok {
		return nil, ErrEventNotFound
	}
	var event models.EventSession
	if err := json.Unmarshal(data, &event); err != nil {
		return nil, fmt.Errorf("decode event %s: %w", id, err)
	}
	return &event, nil
}

func (r *memoryEventRepository) putLocked(event *models.EventSession) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode event %s: %w", event.ID, err)
	}
	r.events[event.ID] = memoryEntry{data: data, expiresAt: r.now().Add(r.ttl)}
	return nil
}

func (r *memoryEventRepository) Get(ctx context.Context, id string) (*models.EventSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.getLocked(id)
}

func (r *memoryEventRepository) Put(ctx context.Context, event *models.EventSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.putLocked(event)
}

func (r *memoryEventRepository) Update(ctx context.Context, id string, mutate func(*models.EventSession) error) (*models.EventSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	event, err := r.getLocked(id)
	if err != nil {
		return nil, err
	}
	if err := mutate(event); err != nil {
		return nil, err
	}
	if err := r.putLocked(event); err != nil {
		return nil, err
	}
	return event, nil
}

func (r *memoryEventRepository) GetEventIDByCode(ctx context.Context, code string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	data, ok := r.entry(r.codes, code)
	if !ok {
		return "", ErrCodeNotFound
	}
	return string(data), nil
}

func (r *memoryEventRepository) PutCode(ctx context.Context, code, eventID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.codes[code] = memoryEntry{data: []byte(eventID), expiresAt: r.now().Add(r.ttl)}
	return nil
}

func (r *memoryEventRepository) DeleteCode(ctx context.Context, code string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.codes, code)
	return nil
}
