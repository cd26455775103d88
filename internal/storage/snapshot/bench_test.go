package snapshot

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/specvault/specvault/internal/storage/spec"
)

// benchSpecTree lays out a spec store with the given number of slots.
func benchSpecTree(b *testing.B, slots int) spec.Layout {
	b.Helper()
	root := b.TempDir()
	lay := spec.DefaultLayout(root)

	if err := os.MkdirAll(lay.SlotsDir(), 0o750); err != nil {
		b.Fatalf("mkdir slots: %v", err)
	}
	if err := os.WriteFile(lay.ManifestPath(), []byte(`{"version":1,"routes":[]}`), 0o644); err != nil {
		b.Fatalf("write manifest: %v", err)
	}
	for i := 0; i < slots; i++ {
		path := filepath.Join(lay.SlotsDir(), fmt.Sprintf("slot-%04d.ts", i))
		if err := os.WriteFile(path, []byte("export const value = 1;\n"), 0o644); err != nil {
			b.Fatalf("write slot: %v", err)
		}
	}
	return lay
}

// BenchmarkCapture benchmarks snapshot capture at various slot counts.
func BenchmarkCapture(b *testing.B) {
	for _, count := range []int{10, 100, 500} {
		b.Run(fmt.Sprintf("slots_%d", count), func(b *testing.B) {
			lay := benchSpecTree(b, count)
			codec := NewCodec(nil)
			ctx := context.Background()

			b.ResetTimer()
			b.ReportAllocs()

			for i := 0; i < b.N; i++ {
				if _, err := codec.Capture(ctx, lay); err != nil {
					b.Fatalf("Capture failed: %v", err)
				}
			}
		})
	}
}

// BenchmarkRestore benchmarks restoring a snapshot over a live tree.
func BenchmarkRestore(b *testing.B) {
	for _, count := range []int{10, 100, 500} {
		b.Run(fmt.Sprintf("slots_%d", count), func(b *testing.B) {
			lay := benchSpecTree(b, count)
			snap, err := NewCodec(nil).Capture(context.Background(), lay)
			if err != nil {
				b.Fatalf("Capture failed: %v", err)
			}
			restorer := NewRestorer(nil)

			b.ResetTimer()
			b.ReportAllocs()

			for i := 0; i < b.N; i++ {
				if res := restorer.Restore(lay, snap); !res.Success {
					b.Fatalf("Restore failed: %v", res.Errors)
				}
			}
		})
	}
}
