// Package source identifies the revision of a tool's source checkout so that
// results can be traced back to the code that produced them.
package source

import (
	"fmt"

	git "gopkg.in/src-d/go-git.v4"
)

type Revision struct {
	Hash  string
	Dirty bool
}

// String returns the commit hash, suffixed with -dirty when the worktree has
// uncommitted changes.
func (r Revision) String() string {
	if r.Dirty {
		return r.Hash + "-dirty"
	}
	return r.Hash
}

// Open reads HEAD and the worktree status of the git repository at dir.
func Open(dir string) (*Revision, error) {
	r, err := git.PlainOpen(dir)
	if err != nil {
		return nil, fmt.Errorf("unable to open the git repository: %w", err)
	}

	head, err := r.Head()
	if err != nil {
		return nil, fmt.Errorf("unable to get the reference where HEAD is pointing to: %w", err)
	}

	w, err := r.Worktree()
	if err != nil {
		return nil, fmt.Errorf("unable to get a worktree based on the given fs: %w", err)
	}

	s, err := w.Status()
	if err != nil {
		return nil, fmt.Errorf("unable to get the working tree status: %w", err)
	}

	return &Revision{Hash: head.Hash().String(), Dirty: !s.IsClean()}, nil
}
