package eventstore

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"fundchain/core/types"
	"fundchain/native/fundraise"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := Open(dsn)
	require.NoError(t, err)
	return db
}

func TestStoreAppendsAndFilters(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Unix(1_700_000_000, 0))
	store, err := New(openTestDB(t), clock, nil)
	require.NoError(t, err)

	platformA, platformB := [20]byte{1}, [20]byte{2}
	store.Emit(fundraise.WrapEvent(fundraise.ContributionEvent(platformA, 1, 100, 95, [20]byte{3}, [20]byte{4}, 0, 5, 5)))
	store.Emit(fundraise.WrapEvent(fundraise.WithdrawEvent(platformA, 2, 95, [20]byte{5}, "")))
	store.Emit(fundraise.WrapEvent(fundraise.ContributionEvent(platformB, 3, 10, 10, [20]byte{3}, [20]byte{4}, 0, 0, 0)))

	all, err := store.List(context.Background(), Filter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	for i, entry := range all {
		require.Equal(t, int64(i+1), entry.Sequence)
	}
	require.Equal(t, "95", all[0].Attributes["platformAfter"])

	contributions, err := store.List(context.Background(), Filter{Type: fundraise.EventTypeContribution})
	require.NoError(t, err)
	require.Len(t, contributions, 2)

	byPlatform, err := store.List(context.Background(), Filter{Platform: all[2].Platform})
	require.NoError(t, err)
	require.Len(t, byPlatform, 1)

	page, err := store.List(context.Background(), Filter{After: 1, Limit: 1})
	require.NoError(t, err)
	require.Len(t, page, 1)
	require.Equal(t, fundraise.EventTypeWithdraw, page[0].Type)
}

func TestStoreResumesSequence(t *testing.T) {
	db := openTestDB(t)
	first, err := New(db, nil, nil)
	require.NoError(t, err)
	evt := &types.Event{Type: fundraise.EventTypeInitialized, Attributes: map[string]string{"goal": "1"}}
	require.NoError(t, first.Append(context.Background(), fundraise.WrapEvent(evt)))

	second, err := New(db, nil, nil)
	require.NoError(t, err)
	require.NoError(t, second.Append(context.Background(), fundraise.WrapEvent(evt)))

	entries, err := second.List(context.Background(), Filter{})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, int64(2), entries[1].Sequence)
}

func TestOpenRequiresDSN(t *testing.T) {
	_, err := Open("  ")
	require.Error(t, err)
}
