package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestFeed_Refresh(t *testing.T) {
	source := NewFixture(Item{ID: "1", Title: "Toner"})
	feed := NewFeed(source, zap.NewNop())

	require.NoError(t, feed.Refresh(context.Background()))

	snapshot := feed.Snapshot()
	require.Len(t, snapshot, 1)
	assert.Equal(t, "Toner", snapshot[0].Title)
}

func TestFeed_Get(t *testing.T) {
	source := NewFixture(Item{ID: "1", Title: "Toner"})
	feed := NewFeed(source, zap.NewNop())
	require.NoError(t, feed.Refresh(context.Background()))

	item, err := feed.Get("1")
	require.NoError(t, err)
	assert.Equal(t, "Toner", item.Title)

	_, err = feed.Get("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFeed_RefreshPicksUpChanges(t *testing.T) {
	source := NewFixture(Item{ID: "1", Title: "Toner"})
	feed := NewFeed(source, zap.NewNop())
	require.NoError(t, feed.Refresh(context.Background()))

	require.NoError(t, source.Put(context.Background(), Item{ID: "2", Title: "Shampoo"}))
	require.NoError(t, feed.Refresh(context.Background()))

	assert.Len(t, feed.Snapshot(), 2)
}

func TestFeed_SubscribeNotifiesOnChange(t *testing.T) {
	source := NewFixture(Item{ID: "1", Title: "Toner"})
	feed := NewFeed(source, zap.NewNop())
	sub := feed.Subscribe()

	require.NoError(t, feed.Refresh(context.Background()))

	select {
	case items := <-sub:
		assert.Len(t, items, 1)
	case <-time.After(time.Second):
		t.Fatal("expected a snapshot notification")
	}

	// An unchanged catalog produces no second notification.
	require.NoError(t, feed.Refresh(context.Background()))
	select {
	case <-sub:
		t.Fatal("unexpected notification for unchanged catalog")
	case <-time.After(50 * time.Millisecond):
	}
}
