package event

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/coffeehouse/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// mockOutboxRepository is an in-memory OutboxRepository for testing
type mockOutboxRepository struct {
	mu      sync.Mutex
	entries map[uuid.UUID]*shared.OutboxEntry
}

func newMockOutboxRepository() *mockOutboxRepository {
	return &mockOutboxRepository{
		entries: make(map[uuid.UUID]*shared.OutboxEntry),
	}
}

func (r *mockOutboxRepository) Save(ctx context.Context, entries ...*shared.OutboxEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range entries {
		r.entries[e.ID] = e
	}
	return nil
}

func (r *mockOutboxRepository) FindPending(ctx context.Context, limit int) ([]*shared.OutboxEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*shared.OutboxEntry
	for _, e := range r.entries {
		if e.Status == shared.OutboxStatusPending {
			result = append(result, e)
			if len(result) >= limit {
				break
			}
		}
	}
	return result, nil
}

func (r *mockOutboxRepository) FindRetryable(ctx context.Context, before time.Time, limit int) ([]*shared.OutboxEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*shared.OutboxEntry
	for _, e := range r.entries {
		if e.Status == shared.OutboxStatusFailed && e.NextRetryAt != nil && !e.NextRetryAt.After(before) {
			result = append(result, e)
			if len(result) >= limit {
				break
			}
		}
	}
	return result, nil
}

func (r *mockOutboxRepository) MarkProcessing(ctx context.Context, ids []uuid.UUID) ([]*shared.OutboxEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*shared.OutboxEntry
	for _, id := range ids {
		if e, ok := r.entries[id]; ok {
			e.Status = shared.OutboxStatusProcessing
			result = append(result, e)
		}
	}
	return result, nil
}

func (r *mockOutboxRepository) Update(ctx context.Context, entry *shared.OutboxEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[entry.ID] = entry
	return nil
}

func (r *mockOutboxRepository) DeleteOlderThan(ctx context.Context, before time.Time) (int64, error) {
	return 0, nil
}

func (r *mockOutboxRepository) CountByStatus(ctx context.Context) (map[shared.OutboxStatus]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := make(map[shared.OutboxStatus]int64)
	for _, e := range r.entries {
		counts[e.Status]++
	}
	return counts, nil
}

func (r *mockOutboxRepository) get(id uuid.UUID) *shared.OutboxEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.entries[id]
}

func TestOutboxProcessor_ProcessBatch(t *testing.T) {
	repo := newMockOutboxRepository()
	bus := NewInMemoryEventBus(zap.NewNop())
	serializer := NewEventSerializer()
	serializer.Register("TestEvent", &testEvent{})

	handler := newTestHandler("TestEvent")
	bus.Subscribe(handler, "TestEvent")

	event := newTestEvent("TestEvent")
	payload, err := serializer.Serialize(event)
	require.NoError(t, err)
	entry := shared.NewOutboxEntry(event, payload)
	require.NoError(t, repo.Save(context.Background(), entry))

	processor := NewOutboxProcessor(repo, bus, serializer, DefaultOutboxProcessorConfig(), zap.NewNop())
	processor.processBatch(context.Background())

	require.Len(t, handler.getHandled(), 1)
	assert.Equal(t, event.EventID(), handler.getHandled()[0].EventID())
	assert.Equal(t, shared.OutboxStatusSent, repo.get(entry.ID).Status)
	assert.NotNil(t, repo.get(entry.ID).ProcessedAt)
}

func TestOutboxProcessor_DeserializeFailureSchedulesRetry(t *testing.T) {
	repo := newMockOutboxRepository()
	bus := NewInMemoryEventBus(zap.NewNop())
	serializer := NewEventSerializer()
	// event type deliberately not registered

	event := newTestEvent("UnknownEvent")
	entry := shared.NewOutboxEntry(event, []byte(`{}`))
	require.NoError(t, repo.Save(context.Background(), entry))

	processor := NewOutboxProcessor(repo, bus, serializer, DefaultOutboxProcessorConfig(), zap.NewNop())
	processor.processBatch(context.Background())

	stored := repo.get(entry.ID)
	assert.Equal(t, shared.OutboxStatusFailed, stored.Status)
	assert.Equal(t, 1, stored.RetryCount)
	assert.NotNil(t, stored.NextRetryAt)
	assert.NotEmpty(t, stored.LastError)
}

func TestOutboxProcessor_DeadLetterAfterMaxRetries(t *testing.T) {
	repo := newMockOutboxRepository()
	bus := NewInMemoryEventBus(zap.NewNop())
	serializer := NewEventSerializer()

	event := newTestEvent("UnknownEvent")
	entry := shared.NewOutboxEntry(event, []byte(`{}`))
	entry.RetryCount = entry.MaxRetries - 1
	entry.Status = shared.OutboxStatusFailed
	past := time.Now().Add(-time.Minute)
	entry.NextRetryAt = &past
	require.NoError(t, repo.Save(context.Background(), entry))

	processor := NewOutboxProcessor(repo, bus, serializer, DefaultOutboxProcessorConfig(), zap.NewNop())
	processor.processBatch(context.Background())

	assert.Equal(t, shared.OutboxStatusDead, repo.get(entry.ID).Status)
}

func TestOutboxProcessor_StartStop(t *testing.T) {
	repo := newMockOutboxRepository()
	bus := NewInMemoryEventBus(zap.NewNop())
	serializer := NewEventSerializer()

	cfg := DefaultOutboxProcessorConfig()
	cfg.PollInterval = 10 * time.Millisecond

	processor := NewOutboxProcessor(repo, bus, serializer, cfg, zap.NewNop())
	require.NoError(t, processor.Start(context.Background()))

	stopCtx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, processor.Stop(stopCtx))
}
