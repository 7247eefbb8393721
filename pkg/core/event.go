package core

import (
	"fmt"
	"strings"
)

// ChangeType describes what happened to a document on disk.
type ChangeType string

const (
	ChangeCreate ChangeType = "CREATE"
	ChangeModify ChangeType = "MODIFY"
	ChangeDelete ChangeType = "DELETE"
)

// Change is one filesystem notification about a vault document.
type Change struct {
	Type      ChangeType
	Path      string // slash separated, relative to the vault root
	Timestamp int64
}

func (c Change) String() string {
	return fmt.Sprintf("%s %s", c.Type, c.Path)
}

// ChangeBatch groups the changes observed during one quiet period, at most
// one per path.
type ChangeBatch []Change

func (b ChangeBatch) String() string {
	parts := make([]string, len(b))
	for i, c := range b {
		parts[i] = c.String()
	}
	return fmt.Sprintf("%d change(s): %s", len(b), strings.Join(parts, ", "))
}
