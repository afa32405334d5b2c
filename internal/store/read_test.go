package store

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecent_EmptyLog(t *testing.T) {
	s := createTestStore(t)

	events, err := s.Recent(context.Background(), 50)
	require.NoError(t, err)
	assert.NotNil(t, events)
	assert.Empty(t, events)
}

func TestRecent_NewestFirst(t *testing.T) {
	s := createTestStore(t)
	appendN(t, s, 5)

	events, err := s.Recent(context.Background(), 50)
	require.NoError(t, err)
	require.Len(t, events, 5)

	for i, e := range events {
		assert.Equal(t, int64(5-i), e.ID)
		assert.Equal(t, fmt.Sprintf("msg-%d", 5-i), e.Message)
	}
}

func TestRecent_RespectsLimit(t *testing.T) {
	s := createTestStore(t)
	appendN(t, s, 60)

	events, err := s.Recent(context.Background(), 50)
	require.NoError(t, err)
	require.Len(t, events, 50)

	assert.Equal(t, int64(60), events[0].ID)
	assert.Equal(t, int64(11), events[49].ID)
	for i := 1; i < len(events); i++ {
		assert.Greater(t, events[i-1].ID, events[i].ID, "ids must strictly decrease")
	}
}

func TestRecent_NonPositiveLimit(t *testing.T) {
	s := createTestStore(t)
	appendN(t, s, 2)

	events, err := s.Recent(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestCount(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)

	appendN(t, s, 7)

	n, err = s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(7), n)
}

func TestRecent_ContextCancelled(t *testing.T) {
	s := createTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Recent(ctx, 50)
	assert.Error(t, err)
}

func TestRecent_HugeLimit(t *testing.T) {
	s := createTestStore(t)
	appendN(t, s, 3)

	var events []Event
	require.NotPanics(t, func() {
		var err error
		events, err = s.Recent(context.Background(), 1<<50)
		require.NoError(t, err)
	})
	assert.Len(t, events, 3)
}
