package workspace

import (
	"archive/tar"
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/zstd"
)

func TestPackUnpackRoundTrip(t *testing.T) {
	src := t.TempDir()
	writeTestFile(t, filepath.Join(src, "xmake.lua"), `target("app")`)
	writeTestFile(t, filepath.Join(src, "src", "main.c"), "int main(void) { return 0; }")
	writeTestFile(t, filepath.Join(src, "src", "lib", "util.h"), "#pragma once")

	body, err := Pack(src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	dest := t.TempDir()
	n, err := unpack(context.Background(), body, dest)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n == 0 {
		t.Fatal("unpack reported zero entries")
	}

	assertFileContents(t, filepath.Join(dest, "xmake.lua"), `target("app")`)
	assertFileContents(t, filepath.Join(dest, "src", "main.c"), "int main(void) { return 0; }")
	assertFileContents(t, filepath.Join(dest, "src", "lib", "util.h"), "#pragma once")
}

func TestPackEmptyDir(t *testing.T) {
	body, err := Pack(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	n, err := unpack(context.Background(), body, t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 0 {
		t.Fatalf("entries = %d, want 0", n)
	}
}

func TestUnpackRejectsTraversal(t *testing.T) {
	tests := []struct {
		name  string
		entry string
	}{
		{"parent traversal", "../evil.txt"},
		{"nested traversal", "ok/../../evil.txt"},
		{"absolute path", "/etc/evil.txt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := craftArchive(t, tt.entry, "payload")

			_, err := unpack(context.Background(), body, t.TempDir())
			if !errors.Is(err, ErrSync) {
				t.Fatalf("error = %v, want ErrSync", err)
			}
			if !strings.Contains(err.Error(), "escapes") {
				t.Fatalf("error = %v, want workspace escape", err)
			}
		})
	}
}

func TestUnpackRejectsUnsupportedTypes(t *testing.T) {
	var buf bytes.Buffer
	zw, err := zstd.NewWriter(&buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	tw := tar.NewWriter(zw)

	if err := tw.WriteHeader(&tar.Header{
		Typeflag: tar.TypeSymlink,
		Name:     "link",
		Linkname: "/etc/passwd",
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	tw.Close()
	zw.Close()

	_, err = unpack(context.Background(), buf.Bytes(), t.TempDir())
	if !errors.Is(err, ErrSync) {
		t.Fatalf("error = %v, want ErrSync", err)
	}
}

func TestUnpackGarbageFails(t *testing.T) {
	_, err := unpack(context.Background(), []byte("definitely not zstd"), t.TempDir())
	if !errors.Is(err, ErrSync) {
		t.Fatalf("error = %v, want ErrSync", err)
	}
}

func TestUnpackHonorsCancellation(t *testing.T) {
	src := t.TempDir()
	writeTestFile(t, filepath.Join(src, "a.txt"), "x")

	body, err := Pack(src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := unpack(ctx, body, t.TempDir()); !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v, want context.Canceled", err)
	}
}

// Builds a zstd-compressed tar stream containing a single file entry with an
// attacker-chosen name.
func craftArchive(t *testing.T, name, contents string) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw, err := zstd.NewWriter(&buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	tw := tar.NewWriter(zw)

	if err := tw.WriteHeader(&tar.Header{
		Typeflag: tar.TypeReg,
		Name:     name,
		Mode:     0644,
		Size:     int64(len(contents)),
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := tw.Write([]byte(contents)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	tw.Close()
	zw.Close()

	return buf.Bytes()
}
