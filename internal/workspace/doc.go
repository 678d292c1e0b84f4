// Package workspace implements the filesystem-backed session delegate.
//
// Each remote build session owns one directory under a configured root.
// Connect allocates it, sync extracts a zstd-compressed tar archive of the
// client's source tree into it, clean empties it, and disconnect releases
// it. Session ids are client-supplied and opaque, so they are
// percent-escaped before being used as directory names.
//
// Example usage:
//
//	workspaces := workspace.NewManager(cfg.WorkspaceRoot)
//	registry := session.NewRegistry(workspaces.Delegate)
package workspace
