// internal/scan/scan_test.go
package scan

import (
	"os"
	"path/filepath"
	"testing"
)

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatalf("touch %s: %v", path, err)
	}
}

func TestFind(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "GridSquare_1", "Data", "FoilHole_001.xml"))
	touch(t, filepath.Join(root, "GridSquare_1", "Data", "FoilHole_002.xml"))
	touch(t, filepath.Join(root, "GridSquare_2", "Data", "FoilHole_003.xml"))
	// Noise that must be ignored.
	touch(t, filepath.Join(root, "GridSquare_1", "Data", "GridSquare_1.xml"))
	touch(t, filepath.Join(root, "GridSquare_1", "FoilHole_004.xml"))
	touch(t, filepath.Join(root, "GridSquare_3", "Data", "FoilHole_005.eer"))

	res, err := Find(root)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if res.DataDirs != 3 {
		t.Errorf("DataDirs = %d, want 3", res.DataDirs)
	}
	if len(res.XMLFiles) != 3 {
		t.Fatalf("XMLFiles = %v, want 3 entries", res.XMLFiles)
	}
	for _, f := range res.XMLFiles {
		if filepath.Base(filepath.Dir(f)) != "Data" {
			t.Errorf("file outside a Data dir: %s", f)
		}
	}
}

func TestFindEmptyTree(t *testing.T) {
	res, err := Find(t.TempDir())
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if res.DataDirs != 0 || len(res.XMLFiles) != 0 {
		t.Errorf("expected empty result, got %+v", res)
	}
}

func TestFindMissingRoot(t *testing.T) {
	if _, err := Find(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Fatal("expected error for missing root")
	}
}
