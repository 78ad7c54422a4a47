package fsutil

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}

func TestCopyFile_OverwritesExisting(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	src := filepath.Join(dir, "src.dll")
	dst := filepath.Join(dir, "dst.dll")
	writeFile(t, src, "new contents")
	writeFile(t, dst, "stale contents that are longer")

	if err := CopyFile(src, dst); err != nil {
		t.Fatalf("CopyFile: %v", err)
	}
	if got := readFile(t, dst); got != "new contents" {
		t.Errorf("dst = %q, want %q", got, "new contents")
	}
}

func TestCopyFile_PreservesMode(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	src := filepath.Join(dir, "tool")
	writeFile(t, src, "#!/bin/sh\n")
	if err := os.Chmod(src, 0o755); err != nil {
		t.Fatalf("chmod: %v", err)
	}

	dst := filepath.Join(dir, "tool-copy")
	if err := CopyFile(src, dst); err != nil {
		t.Fatalf("CopyFile: %v", err)
	}
	info, err := os.Stat(dst)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Mode().Perm() != 0o755 {
		t.Errorf("mode = %v, want %v", info.Mode().Perm(), os.FileMode(0o755))
	}
}

func TestCopyFile_MissingSource(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	err := CopyFile(filepath.Join(dir, "absent"), filepath.Join(dir, "dst"))
	if err == nil {
		t.Fatal("expected error for missing source")
	}
}

func TestCopyTree_MergesIntoExisting(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	dst := filepath.Join(dir, "dst")
	writeFile(t, filepath.Join(src, "maps", "winter.map"), "winter")
	writeFile(t, filepath.Join(src, "readme.txt"), "hello")
	writeFile(t, filepath.Join(dst, "existing.txt"), "keep me")

	if err := CopyTree(src, dst); err != nil {
		t.Fatalf("CopyTree: %v", err)
	}
	if got := readFile(t, filepath.Join(dst, "maps", "winter.map")); got != "winter" {
		t.Errorf("nested file = %q, want %q", got, "winter")
	}
	if got := readFile(t, filepath.Join(dst, "readme.txt")); got != "hello" {
		t.Errorf("top-level file = %q, want %q", got, "hello")
	}
	if got := readFile(t, filepath.Join(dst, "existing.txt")); got != "keep me" {
		t.Errorf("pre-existing file = %q, want %q", got, "keep me")
	}
}

func TestDirExists(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	file := filepath.Join(dir, "plain.txt")
	writeFile(t, file, "x")

	if !DirExists(dir) {
		t.Error("DirExists(dir) = false, want true")
	}
	if DirExists(file) {
		t.Error("DirExists(file) = true, want false")
	}
	if DirExists(filepath.Join(dir, "absent")) {
		t.Error("DirExists(absent) = true, want false")
	}
}

func TestIsDirEmpty(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	empty, err := IsDirEmpty(dir)
	if err != nil {
		t.Fatalf("IsDirEmpty: %v", err)
	}
	if !empty {
		t.Error("IsDirEmpty(new temp dir) = false, want true")
	}

	writeFile(t, filepath.Join(dir, "f"), "x")
	empty, err = IsDirEmpty(dir)
	if err != nil {
		t.Fatalf("IsDirEmpty: %v", err)
	}
	if empty {
		t.Error("IsDirEmpty(populated dir) = true, want false")
	}
}
