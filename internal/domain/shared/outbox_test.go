package shared

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOutboxTestEvent() DomainEvent {
	e := NewBaseDomainEvent("TestEvent", "TestAggregate", uuid.New())
	return &e
}

func TestNewOutboxEntry(t *testing.T) {
	event := newOutboxTestEvent()
	entry := NewOutboxEntry(event, []byte(`{"a":1}`))

	assert.Equal(t, event.EventID(), entry.EventID)
	assert.Equal(t, "TestEvent", entry.EventType)
	assert.Equal(t, OutboxStatusPending, entry.Status)
	assert.Equal(t, DefaultMaxRetries, entry.MaxRetries)
	assert.Zero(t, entry.RetryCount)
}

func TestOutboxEntry_MarkFailedBackoff(t *testing.T) {
	entry := NewOutboxEntry(newOutboxTestEvent(), nil)

	entry.MarkFailed("first failure")
	assert.Equal(t, OutboxStatusFailed, entry.Status)
	assert.Equal(t, 1, entry.RetryCount)
	require.NotNil(t, entry.NextRetryAt)
	firstRetry := *entry.NextRetryAt

	entry.MarkFailed("second failure")
	require.NotNil(t, entry.NextRetryAt)
	// backoff doubles: second retry is scheduled further out
	assert.True(t, entry.NextRetryAt.After(firstRetry))
}

func TestOutboxEntry_DeadAfterMaxRetries(t *testing.T) {
	entry := NewOutboxEntry(newOutboxTestEvent(), nil)

	for i := 0; i < DefaultMaxRetries; i++ {
		entry.MarkFailed("boom")
	}

	assert.True(t, entry.IsDead())
	assert.False(t, entry.CanRetry())
}

func TestOutboxEntry_ResetForRetry(t *testing.T) {
	entry := NewOutboxEntry(newOutboxTestEvent(), nil)

	assert.Error(t, entry.ResetForRetry(), "only dead entries can be reset")

	for i := 0; i < DefaultMaxRetries; i++ {
		entry.MarkFailed("boom")
	}
	require.True(t, entry.IsDead())

	require.NoError(t, entry.ResetForRetry())
	assert.Equal(t, OutboxStatusPending, entry.Status)
	assert.Zero(t, entry.RetryCount)
	assert.Empty(t, entry.LastError)
}

func TestOutboxEntry_MarkSent(t *testing.T) {
	entry := NewOutboxEntry(newOutboxTestEvent(), nil)

	require.NoError(t, entry.MarkProcessing())
	entry.MarkSent()

	assert.Equal(t, OutboxStatusSent, entry.Status)
	require.NotNil(t, entry.ProcessedAt)
	assert.WithinDuration(t, time.Now(), *entry.ProcessedAt, time.Second)
}

func TestOutboxEntry_MarkProcessingInvalidState(t *testing.T) {
	entry := NewOutboxEntry(newOutboxTestEvent(), nil)
	entry.MarkSent()

	assert.Error(t, entry.MarkProcessing())
}
