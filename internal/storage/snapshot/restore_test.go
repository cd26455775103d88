package snapshot

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readTracked(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestRestorer_RoundTripIsNoOp(t *testing.T) {
	lay := writeSpecTree(t, map[string]string{
		"spec/manifest.json":            `{"version":1,"routes":[{"id":"home"}]}`,
		"spec/manifest.lock.json":       `{"routesHash":"abc"}`,
		"spec/slots/home.slot.ts":       "v1",
		"spec/slots/users/list.slot.ts": "list-v1",
	})

	snap, err := NewCodec(nil).Capture(context.Background(), lay)
	require.NoError(t, err)

	result := NewRestorer(nil).Restore(lay, snap)
	require.True(t, result.Success)
	assert.Empty(t, result.FailedFiles)
	assert.Empty(t, result.Errors)
	assert.ElementsMatch(t, []string{
		"spec/manifest.json",
		"spec/manifest.lock.json",
		"spec/slots/home.slot.ts",
		"spec/slots/users/list.slot.ts",
	}, result.RestoredFiles)

	assert.Equal(t, `{"version":1,"routes":[{"id":"home"}]}`, readTracked(t, lay.ManifestPath()))
	assert.Equal(t, "v1", readTracked(t, lay.SlotPath("home.slot.ts")))
}

func TestRestorer_RevertsMutations(t *testing.T) {
	lay := writeSpecTree(t, map[string]string{
		"spec/manifest.json":      `{"version":1,"routes":[{"id":"home"}]}`,
		"spec/slots/home.slot.ts": "v1",
	})

	snap, err := NewCodec(nil).Capture(context.Background(), lay)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(lay.ManifestPath(), []byte(`{"version":2}`), 0o644))
	require.NoError(t, os.WriteFile(lay.SlotPath("home.slot.ts"), []byte("v2"), 0o644))

	result := NewRestorer(nil).Restore(lay, snap)
	require.True(t, result.Success)

	assert.Equal(t, `{"version":1,"routes":[{"id":"home"}]}`, readTracked(t, lay.ManifestPath()))
	assert.Equal(t, "v1", readTracked(t, lay.SlotPath("home.slot.ts")))
}

func TestRestorer_DoesNotDeleteLockAbsentFromSnapshot(t *testing.T) {
	lay := writeSpecTree(t, map[string]string{
		"spec/manifest.json": `{"routes":[]}`,
	})

	snap, err := NewCodec(nil).Capture(context.Background(), lay)
	require.NoError(t, err)
	require.False(t, snap.HasLock())

	// A lock generated after the capture must survive the restore.
	require.NoError(t, os.WriteFile(lay.LockPath(), []byte(`{"routesHash":"new"}`), 0o644))

	result := NewRestorer(nil).Restore(lay, snap)
	require.True(t, result.Success)
	assert.Equal(t, `{"routesHash":"new"}`, readTracked(t, lay.LockPath()))
	assert.NotContains(t, result.RestoredFiles, "spec/manifest.lock.json")
}

func TestRestorer_LeavesUntrackedSlotsAlone(t *testing.T) {
	lay := writeSpecTree(t, map[string]string{
		"spec/manifest.json":      `{"routes":[]}`,
		"spec/slots/home.slot.ts": "v1",
	})

	snap, err := NewCodec(nil).Capture(context.Background(), lay)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(lay.SlotPath("new.slot.ts"), []byte("added later"), 0o644))

	result := NewRestorer(nil).Restore(lay, snap)
	require.True(t, result.Success)
	assert.Equal(t, "added later", readTracked(t, lay.SlotPath("new.slot.ts")))
}

func TestRestorer_RecreatesDeletedSlotTree(t *testing.T) {
	lay := writeSpecTree(t, map[string]string{
		"spec/manifest.json":            `{"routes":[]}`,
		"spec/slots/users/list.slot.ts": "list-v1",
	})

	snap, err := NewCodec(nil).Capture(context.Background(), lay)
	require.NoError(t, err)

	require.NoError(t, os.RemoveAll(lay.SlotsDir()))

	result := NewRestorer(nil).Restore(lay, snap)
	require.True(t, result.Success)
	assert.Equal(t, "list-v1", readTracked(t, lay.SlotPath("users/list.slot.ts")))
}

func TestRestorer_PerFileFailureDoesNotAbort(t *testing.T) {
	lay := writeSpecTree(t, map[string]string{
		"spec/manifest.json":        `{"routes":[]}`,
		"spec/slots/good.slot.ts":   "good-v1",
		"spec/slots/broken.slot.ts": "broken-v1",
	})

	snap, err := NewCodec(nil).Capture(context.Background(), lay)
	require.NoError(t, err)

	// Turn one tracked path into a directory so its write fails while
	// the others still go through.
	require.NoError(t, os.Remove(lay.SlotPath("broken.slot.ts")))
	require.NoError(t, os.MkdirAll(lay.SlotPath("broken.slot.ts"), 0o750))
	require.NoError(t, os.WriteFile(lay.SlotPath("good.slot.ts"), []byte("good-v2"), 0o644))

	result := NewRestorer(nil).Restore(lay, snap)
	assert.False(t, result.Success)
	assert.Equal(t, []string{"spec/slots/broken.slot.ts"}, result.FailedFiles)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "broken.slot.ts")
	assert.Contains(t, result.RestoredFiles, "spec/slots/good.slot.ts")
	assert.Equal(t, "good-v1", readTracked(t, lay.SlotPath("good.slot.ts")))
}

func TestRestorer_Idempotent(t *testing.T) {
	lay := writeSpecTree(t, map[string]string{
		"spec/manifest.json":      `{"version":1,"routes":[]}`,
		"spec/slots/home.slot.ts": "v1",
	})

	snap, err := NewCodec(nil).Capture(context.Background(), lay)
	require.NoError(t, err)

	first := NewRestorer(nil).Restore(lay, snap)
	second := NewRestorer(nil).Restore(lay, snap)

	require.True(t, first.Success)
	require.True(t, second.Success)
	assert.Equal(t, first.RestoredFiles, second.RestoredFiles)
	assert.Equal(t, `{"version":1,"routes":[]}`, readTracked(t, lay.ManifestPath()))
	assert.Equal(t, "v1", readTracked(t, lay.SlotPath("home.slot.ts")))
}
