package workspace

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/yamashi/xmake/internal/paths"
	"github.com/yamashi/xmake/internal/session"
)

// Allocates and tracks session workspace directories under a single root.
type Manager struct {
	root string
}

// Creates a manager rooted at root. The root directory itself is created on
// the first allocation, not here.
func NewManager(root string) *Manager {
	return &Manager{root: root}
}

// Returns the session delegate for the given session id.
func (m *Manager) Delegate(id string) session.Delegate {
	return &Workspace{
		id:  id,
		dir: filepath.Join(m.root, dirName(id)),
	}
}

// The filesystem-backed delegate for one session.
//
// Open allocates the workspace directory, Sync extracts a client-provided
// source archive into it, Clean empties it, and Close releases it. Sync and
// Clean require an allocated workspace: called before Open, they fail rather
// than allocating implicitly.
type Workspace struct {
	id  string
	dir string
}

// Returns the workspace directory path.
func (w *Workspace) Dir() string {
	return w.dir
}

// Allocates the workspace directory.
//
// Fails if the directory already exists: a leftover workspace for this id
// means an earlier session was not closed, and silently reusing it could mix
// two clients' trees.
func (w *Workspace) Open(ctx context.Context) error {
	if err := os.MkdirAll(filepath.Dir(w.dir), paths.DefaultDirMode); err != nil {
		return fmt.Errorf("%w: %w", ErrWorkspace, err)
	}

	if err := os.Mkdir(w.dir, paths.DefaultDirMode); err != nil {
		if os.IsExist(err) {
			return fmt.Errorf("%w: workspace already exists at %s", ErrWorkspace, w.dir)
		}
		return fmt.Errorf("%w: %w", ErrWorkspace, err)
	}

	slog.Debug("workspace allocated", "session", w.id, "dir", w.dir)
	return nil
}

// Extracts the archive carried in body into the workspace.
//
// The body is a zstd-compressed tar stream as produced by [Pack]. Entries
// escaping the workspace directory are rejected.
func (w *Workspace) Sync(ctx context.Context, body []byte) error {
	if err := w.allocated(); err != nil {
		return err
	}

	n, err := unpack(ctx, body, w.dir)
	if err != nil {
		return err
	}

	slog.Debug("workspace synchronized", "session", w.id, "entries", n)
	return nil
}

// Removes everything inside the workspace directory, keeping the directory
// itself so the session stays usable.
func (w *Workspace) Clean(ctx context.Context) error {
	if err := w.allocated(); err != nil {
		return err
	}

	entries, err := os.ReadDir(w.dir)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWorkspace, err)
	}

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("%w: %w", ErrWorkspace, err)
		}
		if err := os.RemoveAll(filepath.Join(w.dir, entry.Name())); err != nil {
			return fmt.Errorf("%w: %w", ErrWorkspace, err)
		}
	}

	slog.Debug("workspace cleaned", "session", w.id, "entries", len(entries))
	return nil
}

// Releases the workspace directory and its contents.
//
// Closing a session that never allocated a workspace is a no-op, so clients
// that disconnect without connecting succeed.
func (w *Workspace) Close(ctx context.Context) error {
	if err := os.RemoveAll(w.dir); err != nil {
		return fmt.Errorf("%w: %w", ErrWorkspace, err)
	}

	slog.Debug("workspace released", "session", w.id, "dir", w.dir)
	return nil
}

// Verifies that Open allocated the workspace directory.
func (w *Workspace) allocated() error {
	info, err := os.Stat(w.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: workspace not allocated for session %q (connect first)", ErrWorkspace, w.id)
		}
		return fmt.Errorf("%w: %w", ErrWorkspace, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", ErrWorkspace, w.dir)
	}
	return nil
}

// Maps a client-supplied session id to a safe directory name.
//
// Ids are opaque and may contain path separators or relative components, so
// every byte outside [A-Za-z0-9_-] is percent-escaped.
func dirName(id string) string {
	var b strings.Builder
	for i := 0; i < len(id); i++ {
		c := id[i]
		switch {
		case c >= 'a' && c <= 'z',
			c >= 'A' && c <= 'Z',
			c >= '0' && c <= '9',
			c == '_', c == '-':
			b.WriteByte(c)
		default:
			fmt.Fprintf(&b, "%%%02X", c)
		}
	}
	if b.Len() == 0 {
		return "_"
	}
	return b.String()
}
