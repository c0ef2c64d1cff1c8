package frames

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// touch creates an empty file; Scan never reads frame contents.
func touch(t *testing.T, dir, name string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", name, err)
	}
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatalf("touch %s: %v", name, err)
	}
	return path
}

func TestScan_OrdersNumerically(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "video_3.jpg")
	touch(t, dir, "video_1.jpg")
	touch(t, dir, "video_2.jpg")
	touch(t, dir, "video_10.jpg")

	catalog, err := Scan(dir)
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}

	seq, ok := catalog[RootKey]
	if !ok {
		t.Fatal("expected a root sequence")
	}

	want := []uint64{1, 2, 3, 10}
	if len(seq.Frames) != len(want) {
		t.Fatalf("expected %d frames, got %d", len(want), len(seq.Frames))
	}
	for i, w := range want {
		if seq.Frames[i].Index != w {
			t.Errorf("frame %d: expected index %d, got %d", i, w, seq.Frames[i].Index)
		}
	}
}

func TestScan_ZeroPaddingIsIrrelevant(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "video_009.jpg")
	touch(t, dir, "video_10.jpg")

	catalog, err := Scan(dir)
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}

	seq := catalog[RootKey]
	if seq.Frames[0].Index != 9 || seq.Frames[1].Index != 10 {
		t.Errorf("expected numeric order 9,10, got %d,%d", seq.Frames[0].Index, seq.Frames[1].Index)
	}
}

func TestScan_GroupsBySubfolder(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "video_1.jpg")
	touch(t, dir, filepath.Join("clip_a", "video_1.jpg"))
	touch(t, dir, filepath.Join("clip_a", "video_2.jpg"))
	touch(t, dir, filepath.Join("nested", "clip_b", "video_1.png"))

	catalog, err := Scan(dir)
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}

	if len(catalog) != 3 {
		t.Fatalf("expected 3 sequences, got %d (%v)", len(catalog), catalog.Keys())
	}

	wantLens := map[string]int{
		RootKey:                           1,
		"clip_a":                          2,
		filepath.Join("nested", "clip_b"): 1,
	}
	for key, n := range wantLens {
		seq, ok := catalog[key]
		if !ok {
			t.Errorf("missing sequence %q", key)
			continue
		}
		if seq.Len() != n {
			t.Errorf("sequence %q: expected %d frames, got %d", key, n, seq.Len())
		}
		if seq.Key != key {
			t.Errorf("sequence %q carries key %q", key, seq.Key)
		}
	}
}

func TestScan_ExcludesNonMatching(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "frame_1.jpg")
	touch(t, dir, "video_abc.jpg")
	touch(t, dir, "video_1.txt")
	touch(t, dir, "video_.jpg")
	touch(t, dir, "video_1.jpg.bak")

	catalog, err := Scan(dir)
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}

	if catalog.HasPlayable() {
		t.Errorf("expected no playable sequences, got %v", catalog.Keys())
	}
}

func TestScan_CaseInsensitiveExtension(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "video_1.JPG")
	touch(t, dir, "video_2.Png")
	touch(t, dir, "video_3.JPEG")

	catalog, err := Scan(dir)
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}

	if got := catalog[RootKey].Len(); got != 3 {
		t.Errorf("expected 3 frames, got %d", got)
	}
}

func TestScan_DuplicateIndexTieBreaksByPath(t *testing.T) {
	dir := t.TempDir()
	a := touch(t, dir, "video_01.jpeg")
	b := touch(t, dir, "video_1.jpg")

	catalog, err := Scan(dir)
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}

	seq := catalog[RootKey]
	if seq.Len() != 2 {
		t.Fatalf("expected 2 frames, got %d", seq.Len())
	}
	if seq.Frames[0].Path != a || seq.Frames[1].Path != b {
		t.Errorf("expected path tie-break order [%s %s], got [%s %s]",
			a, b, seq.Frames[0].Path, seq.Frames[1].Path)
	}
}

func TestScan_MissingRoot(t *testing.T) {
	_, err := Scan(filepath.Join(t.TempDir(), "nope"))
	if !errors.Is(err, ErrInvalidRoot) {
		t.Errorf("expected ErrInvalidRoot, got %v", err)
	}
}

func TestScan_RootIsFile(t *testing.T) {
	dir := t.TempDir()
	file := touch(t, dir, "video_1.jpg")

	_, err := Scan(file)
	if !errors.Is(err, ErrInvalidRoot) {
		t.Errorf("expected ErrInvalidRoot, got %v", err)
	}
}

func TestScan_FreshResultEachCall(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "video_1.jpg")

	first, err := Scan(dir)
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}

	touch(t, dir, "video_2.jpg")
	second, err := Scan(dir)
	if err != nil {
		t.Fatalf("re-scan failed: %v", err)
	}

	if first[RootKey].Len() != 1 {
		t.Errorf("first catalog mutated: %d frames", first[RootKey].Len())
	}
	if second[RootKey].Len() != 2 {
		t.Errorf("expected re-scan to see 2 frames, got %d", second[RootKey].Len())
	}
}
