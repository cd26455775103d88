package command

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/specvault/specvault/internal/storage/spec"
)

// writeProject lays out a project root with a populated spec store.
func writeProject(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	files := map[string]string{
		"spec/manifest.json":       `{"version":1,"routes":[{"id":"home"}]}`,
		"spec/manifest.lock.json":  `{"routesHash":"abc"}`,
		"spec/slots/home.slot.ts":  "export const home = 1;",
		"spec/slots/about.slot.ts": "export const about = 2;",
	}
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return root
}

// runApp runs one CLI invocation against a project root and captures
// stdout. Each call builds a fresh app, matching one process run.
func runApp(t *testing.T, root string, args ...string) (string, error) {
	t.Helper()

	r, w, err := os.Pipe()
	require.NoError(t, err)
	old := os.Stdout
	os.Stdout = w
	defer func() { os.Stdout = old }()

	full := append([]string{"specvault", "--root", root}, args...)
	runErr := App().Run(full)

	require.NoError(t, w.Close())
	out, err := io.ReadAll(r)
	require.NoError(t, err)
	return string(out), runErr
}

// readJSON decodes CLI JSON output into target.
func readJSON(t *testing.T, out string, target any) {
	t.Helper()
	require.NoError(t, json.Unmarshal([]byte(out), target))
}

// readFile reads a file relative to root.
func readFile(t *testing.T, root, rel string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
	require.NoError(t, err)
	return string(data)
}

// markerState reads the persisted transaction marker, reporting absent
// as idle.
func markerState(t *testing.T, root string) (active bool, changeID string) {
	t.Helper()
	lay := spec.DefaultLayout(root)
	data, err := os.ReadFile(lay.MarkerPath())
	if os.IsNotExist(err) {
		return false, ""
	}
	require.NoError(t, err)
	var st struct {
		Active   bool   `json:"active"`
		ChangeID string `json:"change_id"`
	}
	require.NoError(t, json.Unmarshal(data, &st))
	return st.Active, st.ChangeID
}
