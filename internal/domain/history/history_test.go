package history

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingStore struct{ err error }

func (f failingStore) Load(context.Context) ([]string, error) { return nil, f.err }
func (f failingStore) Save(context.Context, []string) error    { return f.err }

func TestList_MostRecentFirstAndBounded(t *testing.T) {
	ctx := context.Background()
	l := NewList(3, nil)

	for _, d := range []string{"C", "CC", "CCC", "CCCC"} {
		require.NoError(t, l.Add(ctx, d))
	}

	assert.Equal(t, []string{"CCCC", "CCC", "CC"}, l.Entries())
}

func TestList_ReAddMovesToFront(t *testing.T) {
	ctx := context.Background()
	l := NewList(5, nil)
	_ = l.Add(ctx, "CCO")
	_ = l.Add(ctx, "c1ccccc1")
	_ = l.Add(ctx, "CCO")

	assert.Equal(t, []string{"CCO", "c1ccccc1"}, l.Entries())
}

func TestList_IgnoresBlank(t *testing.T) {
	l := NewList(0, nil)
	require.NoError(t, l.Add(context.Background(), "   "))
	assert.Empty(t, l.Entries())
	assert.Equal(t, DefaultSize, l.Size())
}

func TestList_PersistsAndRestores(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	l := NewList(2, store)
	_ = l.Add(ctx, "CCO")
	_ = l.Add(ctx, "CCN")

	restored := NewList(2, store)
	require.NoError(t, restored.Restore(ctx))
	assert.Equal(t, []string{"CCN", "CCO"}, restored.Entries())

	require.NoError(t, restored.Clear(ctx))
	persisted, _ := store.Load(ctx)
	assert.Empty(t, persisted)
}

func TestList_RestoreDedupesAndTrims(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	_ = store.Save(ctx, []string{"A", "B", "A", "", "C", "D"})

	l := NewList(3, store)
	require.NoError(t, l.Restore(ctx))
	assert.Equal(t, []string{"A", "B", "C"}, l.Entries())
}

func TestList_StoreErrorsPropagate(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("redis down")
	l := NewList(3, failingStore{err: boom})

	assert.ErrorIs(t, l.Add(ctx, "CCO"), boom)
	assert.Equal(t, []string{"CCO"}, l.Entries(), "memory state is updated even when the store fails")
	assert.ErrorIs(t, l.Restore(ctx), boom)
}

func TestList_EntriesIsACopy(t *testing.T) {
	l := NewList(3, nil)
	_ = l.Add(context.Background(), "CCO")
	e := l.Entries()
	e[0] = "mutated"
	assert.Equal(t, []string{"CCO"}, l.Entries())
}

//Personal.AI order the ending
