// Package diffview decides what to compare for a change entry and renders
// the sandbox binary's textual diff output.
package diffview

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/codefionn/sbxpanel/internal/changes"
)

// Spec is a resolved two-sided comparison. Left is the "before" file,
// Right the "after"; both always point at real files so a two-pane diff
// view never has to special-case a missing side.
type Spec struct {
	Left  string
	Right string
	Title string
}

// Resolver maps change entries onto concrete file pairs, synthesizing
// empty placeholder files where an operation has no before or after.
type Resolver struct {
	tmpDir string
}

// NewResolver creates a resolver with its own scratch directory for
// placeholder files.
func NewResolver() (*Resolver, error) {
	tmpDir, err := os.MkdirTemp("", "sbxpanel-diff-")
	if err != nil {
		return nil, fmt.Errorf("failed to create scratch directory: %w", err)
	}
	return &Resolver{tmpDir: tmpDir}, nil
}

// Cleanup removes every synthesized placeholder.
func (r *Resolver) Cleanup() error {
	return os.RemoveAll(r.tmpDir)
}

// Resolve picks the two files to compare for an entry:
//
//	create        empty                 <-> staged copy
//	remove        destination/source    <-> empty
//	rename        source/destination    <-> staged copy
//	modify/other  destination/source    <-> staged copy
//
// The left side falls back through the listed candidates to an empty
// placeholder when nothing exists on disk.
func (r *Resolver) Resolve(entry changes.Entry) (*Spec, error) {
	var left, right string
	var err error

	switch entry.Operation {
	case changes.OpCreate:
		left, err = r.emptyFile()
		if err != nil {
			return nil, err
		}
		right = stagedCopy(entry)
	case changes.OpRemove:
		left = firstExisting(entry.Destination, entry.Source)
		if left == "" {
			if left, err = r.emptyFile(); err != nil {
				return nil, err
			}
		}
		right, err = r.emptyFile()
		if err != nil {
			return nil, err
		}
	case changes.OpRename:
		left = firstExisting(entry.Source, entry.Destination)
		if left == "" {
			if left, err = r.emptyFile(); err != nil {
				return nil, err
			}
		}
		right = stagedCopy(entry)
	default:
		left = firstExisting(entry.Destination, entry.Source)
		if left == "" {
			if left, err = r.emptyFile(); err != nil {
				return nil, err
			}
		}
		right = stagedCopy(entry)
	}

	title := fmt.Sprintf("%s: %s", entry.Operation, filepath.Base(entry.Destination))
	return &Spec{Left: left, Right: right, Title: title}, nil
}

// stagedCopy resolves the sandboxed copy of a file: the staged field, then
// tmp_path, then the destination itself.
func stagedCopy(entry changes.Entry) string {
	if entry.Staged != "" {
		return entry.Staged
	}
	if entry.TmpPath != "" {
		return entry.TmpPath
	}
	return entry.Destination
}

func firstExisting(candidates ...string) string {
	for _, path := range candidates {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

func (r *Resolver) emptyFile() (string, error) {
	f, err := os.CreateTemp(r.tmpDir, "empty-*")
	if err != nil {
		return "", fmt.Errorf("failed to create placeholder file: %w", err)
	}
	name := f.Name()
	if err := f.Close(); err != nil {
		return "", err
	}
	return name, nil
}
