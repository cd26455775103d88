package snapshot

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specvault/specvault/internal/core/domain"
	"github.com/specvault/specvault/internal/storage/spec"
)

// writeSpecTree lays out a project root for tests. Keys are paths
// relative to the root with slash separators.
func writeSpecTree(t *testing.T, files map[string]string) spec.Layout {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return spec.DefaultLayout(root)
}

func TestCodec_Capture(t *testing.T) {
	lay := writeSpecTree(t, map[string]string{
		"spec/manifest.json":            `{"version":1,"routes":[{"id":"home"}]}`,
		"spec/manifest.lock.json":       `{"routesHash":"abc"}`,
		"spec/slots/home.slot.ts":       "export const home = 1;",
		"spec/slots/users/list.slot.ts": "export const list = 2;",
	})

	snap, err := NewCodec(nil).Capture(context.Background(), lay)
	require.NoError(t, err)

	assert.NotEmpty(t, snap.ID)
	assert.Positive(t, snap.CreatedAt)
	assert.Equal(t, `{"version":1,"routes":[{"id":"home"}]}`, snap.Manifest)
	require.True(t, snap.HasLock())
	assert.Equal(t, `{"routesHash":"abc"}`, *snap.Lock)
	assert.Equal(t, map[string]string{
		"home.slot.ts":       "export const home = 1;",
		"users/list.slot.ts": "export const list = 2;",
	}, snap.Slots)
}

func TestCodec_CaptureMissingManifest(t *testing.T) {
	lay := writeSpecTree(t, map[string]string{
		"spec/slots/home.slot.ts": "v1",
	})

	_, err := NewCodec(nil).Capture(context.Background(), lay)
	require.ErrorIs(t, err, domain.ErrConfiguration)
	assert.Contains(t, err.Error(), "manifest")
}

func TestCodec_CaptureMissingLockTolerated(t *testing.T) {
	lay := writeSpecTree(t, map[string]string{
		"spec/manifest.json": `{"routes":[]}`,
	})

	snap, err := NewCodec(nil).Capture(context.Background(), lay)
	require.NoError(t, err)
	assert.False(t, snap.HasLock())
}

func TestCodec_CaptureMissingSlotDirIsEmptySet(t *testing.T) {
	lay := writeSpecTree(t, map[string]string{
		"spec/manifest.json": `{"routes":[]}`,
	})

	snap, err := NewCodec(nil).Capture(context.Background(), lay)
	require.NoError(t, err)
	assert.Empty(t, snap.Slots)
	assert.NotNil(t, snap.Slots)
}

func TestCodec_CaptureUnreadableSlotAborts(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("file permissions are not enforced for root")
	}

	lay := writeSpecTree(t, map[string]string{
		"spec/manifest.json":        `{"routes":[]}`,
		"spec/slots/ok.slot.ts":     "fine",
		"spec/slots/broken.slot.ts": "hidden",
	})
	require.NoError(t, os.Chmod(lay.SlotPath("broken.slot.ts"), 0o000))

	_, err := NewCodec(nil).Capture(context.Background(), lay)
	require.ErrorIs(t, err, domain.ErrAtomicity)
	assert.Contains(t, err.Error(), "broken.slot.ts")
}

func TestCodec_CaptureCanceledContext(t *testing.T) {
	lay := writeSpecTree(t, map[string]string{
		"spec/manifest.json":      `{"routes":[]}`,
		"spec/slots/home.slot.ts": "v1",
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewCodec(nil).Capture(ctx, lay)
	require.Error(t, err)
}

func TestCodec_CaptureSkipsNonRegularFiles(t *testing.T) {
	lay := writeSpecTree(t, map[string]string{
		"spec/manifest.json":      `{"routes":[]}`,
		"spec/slots/home.slot.ts": "v1",
	})
	// A nested directory must not show up as a slot entry.
	require.NoError(t, os.MkdirAll(filepath.Join(lay.SlotsDir(), "empty-dir"), 0o750))

	snap, err := NewCodec(nil).Capture(context.Background(), lay)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"home.slot.ts": "v1"}, snap.Slots)
}
