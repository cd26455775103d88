package txstate

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specvault/specvault/internal/core/domain"
	"github.com/specvault/specvault/internal/storage/spec"
)

func TestMarkerStore_LoadAbsentIsIdle(t *testing.T) {
	store := NewMarkerStore(spec.DefaultLayout(t.TempDir()), nil)

	st, err := store.Load()
	require.NoError(t, err)
	assert.False(t, st.Active)
	assert.Empty(t, st.ChangeID)
}

func TestMarkerStore_SaveLoadRoundTrip(t *testing.T) {
	lay := spec.DefaultLayout(t.TempDir())
	store := NewMarkerStore(lay, nil)

	active := domain.ActiveState("svch-01aaa", "20260101-000000-abc")
	require.NoError(t, store.Save(active))

	st, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, active, st)
}

func TestMarkerStore_StateSurvivesNewStore(t *testing.T) {
	lay := spec.DefaultLayout(t.TempDir())
	require.NoError(t, NewMarkerStore(lay, nil).Save(domain.ActiveState("svch-x", "20260101-000000-abc")))

	// A fresh store over the same root sees the persisted state, the
	// way a restarted process would.
	st, err := NewMarkerStore(lay, nil).Load()
	require.NoError(t, err)
	assert.True(t, st.Active)
	assert.Equal(t, "svch-x", st.ChangeID)
}

func TestMarkerStore_ClearWritesIdle(t *testing.T) {
	lay := spec.DefaultLayout(t.TempDir())
	store := NewMarkerStore(lay, nil)

	require.NoError(t, store.Save(domain.ActiveState("svch-x", "20260101-000000-abc")))
	require.NoError(t, store.Clear())

	st, err := store.Load()
	require.NoError(t, err)
	assert.False(t, st.Active)

	// The marker file stays in place; idle is encoded, not deleted.
	_, err = os.Stat(store.Path())
	require.NoError(t, err)
}

func TestMarkerStore_RejectsIncompleteActiveMarker(t *testing.T) {
	lay := spec.DefaultLayout(t.TempDir())
	store := NewMarkerStore(lay, nil)

	require.NoError(t, os.MkdirAll(lay.HistoryDir(), 0o750))
	require.NoError(t, os.WriteFile(store.Path(), []byte(`{"active":true}`), 0o644))

	_, err := store.Load()
	require.ErrorIs(t, err, domain.ErrStorage)
}

func TestMarkerStore_RejectsMalformedMarker(t *testing.T) {
	lay := spec.DefaultLayout(t.TempDir())
	store := NewMarkerStore(lay, nil)

	require.NoError(t, os.MkdirAll(lay.HistoryDir(), 0o750))
	require.NoError(t, os.WriteFile(store.Path(), []byte("{oops"), 0o644))

	_, err := store.Load()
	require.ErrorIs(t, err, domain.ErrStorage)
}

func TestMarkerStore_SaveLeavesNoTempFile(t *testing.T) {
	lay := spec.DefaultLayout(t.TempDir())
	store := NewMarkerStore(lay, nil)

	require.NoError(t, store.Save(domain.IdleState()))

	entries, err := os.ReadDir(lay.HistoryDir())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "transaction.json", entries[0].Name())
}
