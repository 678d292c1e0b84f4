package workspace

import (
	"archive/tar"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"
	"github.com/yamashi/xmake/internal/paths"
)

// Archives the contents of dir as a zstd-compressed tar stream suitable for
// a sync body. Entry names are slash-separated paths relative to dir.
//
// Only directories and regular files are archived; sockets, devices, and
// symbolic links have no place in a synchronized source tree.
func Pack(dir string) ([]byte, error) {
	var buf bytes.Buffer

	zw, err := zstd.NewWriter(&buf)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSync, err)
	}
	tw := tar.NewWriter(zw)

	err = filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}

		relPath, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		if relPath == "." {
			return nil
		}

		return writeTarEntry(tw, path, filepath.ToSlash(relPath), d)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSync, err)
	}

	if err := tw.Close(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSync, err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSync, err)
	}

	return buf.Bytes(), nil
}

// Writes a single file or directory entry to a tar writer.
func writeTarEntry(tw *tar.Writer, hostPath, archivePath string, d os.DirEntry) error {
	info, err := d.Info()
	if err != nil {
		return err
	}

	if !info.IsDir() && !info.Mode().IsRegular() {
		return nil
	}

	header, err := tar.FileInfoHeader(info, "")
	if err != nil {
		return err
	}
	header.Name = archivePath

	if err := tw.WriteHeader(header); err != nil {
		return err
	}

	if info.Mode().IsRegular() {
		f, err := os.Open(hostPath)
		if err != nil {
			return err
		}
		defer f.Close()
		_, err = io.Copy(tw, f)
		return err
	}

	return nil
}

// Extracts a zstd-compressed tar stream into destDir, returning the number
// of entries written.
//
// Entry names that resolve outside destDir (absolute paths or ".." traversal)
// fail the whole extraction. Existing files are overwritten, matching the
// synchronize-over semantics of repeated sync commands.
func unpack(ctx context.Context, data []byte, destDir string) (int, error) {
	zr, err := zstd.NewReader(bytes.NewReader(data))
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrSync, err)
	}
	defer zr.Close()

	tr := tar.NewReader(zr)
	entries := 0

	for {
		if err := ctx.Err(); err != nil {
			return entries, fmt.Errorf("%w: %w", ErrSync, err)
		}

		header, err := tr.Next()
		if err == io.EOF {
			return entries, nil
		}
		if err != nil {
			return entries, fmt.Errorf("%w: %w", ErrSync, err)
		}

		name := filepath.FromSlash(header.Name)
		if !filepath.IsLocal(name) {
			return entries, fmt.Errorf("%w: entry %q escapes the workspace", ErrSync, header.Name)
		}
		target := filepath.Join(destDir, name)

		switch header.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, os.FileMode(header.Mode)|0700); err != nil {
				return entries, fmt.Errorf("%w: %w", ErrSync, err)
			}

		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(target), paths.DefaultDirMode); err != nil {
				return entries, fmt.Errorf("%w: %w", ErrSync, err)
			}
			if err := writeFile(target, tr, os.FileMode(header.Mode)); err != nil {
				return entries, fmt.Errorf("%w: %w", ErrSync, err)
			}

		default:
			return entries, fmt.Errorf("%w: entry %q has unsupported type %d", ErrSync, header.Name, header.Typeflag)
		}

		entries++
	}
}

// Writes the contents of r to path, truncating any existing file.
func writeFile(path string, r io.Reader, mode os.FileMode) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode.Perm()|0600)
	if err != nil {
		return err
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
