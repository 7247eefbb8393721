package vaultdeck_test

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/aretw0/vaultdeck"
	"github.com/aretw0/vaultdeck/pkg/core"
)

// memoryStore stands in for AnkiConnect.
type memoryStore struct {
	next int64
}

func (s *memoryStore) RecordIDs(context.Context, string) (map[int64]struct{}, error) {
	return map[int64]struct{}{}, nil
}
func (s *memoryStore) MediaNames(context.Context) ([]string, error) { return nil, nil }
func (s *memoryStore) MediaContents(context.Context, []string) (map[string][]byte, error) {
	return nil, nil
}
func (s *memoryStore) AddRecords(_ context.Context, notes []core.NotePayload) ([]*int64, error) {
	ids := make([]*int64, len(notes))
	for i := range notes {
		s.next++
		id := 1700000000000 + s.next
		ids[i] = &id
	}
	return ids, nil
}
func (s *memoryStore) UpdateRecords(context.Context, []core.NotePayload) error { return nil }
func (s *memoryStore) ChangeGroups(context.Context, []core.GroupChange) error { return nil }
func (s *memoryStore) DeleteRecords(context.Context, []int64) error { return nil }
func (s *memoryStore) CreateGroups(context.Context, []string) error { return nil }
func (s *memoryStore) StoreMedia(context.Context, []core.MediaUpload) error { return nil }

// Example_sync demonstrates one sync run: the card is created remotely and
// its identifier is written back into the note.
func Example_sync() {
	tmpDir, err := os.MkdirTemp("", "vaultdeck-example-*")
	if err != nil {
		log.Fatal(err)
	}
	defer os.RemoveAll(tmpDir)

	vault := filepath.Join(tmpDir, "vault")
	if err := os.MkdirAll(filepath.Join(vault, "attachments"), 0755); err != nil {
		log.Fatal(err)
	}
	note := filepath.Join(vault, "biology.md")
	if err := os.WriteFile(note, []byte("Q: What is ATP?\nA: Energy\n"), 0644); err != nil {
		log.Fatal(err)
	}

	config := filepath.Join(tmpDir, "vaultdeck.yaml")
	err = os.WriteFile(config, []byte(`
vault:
  dir_path: `+vault+`
  medias_dir_path: `+filepath.Join(vault, "attachments")+`
regex:
  basic: ['^Q: (.+)\nA: ([^<#\n]+)']
`), 0644)
	if err != nil {
		log.Fatal(err)
	}

	report, err := vaultdeck.Sync(context.Background(), config, vaultdeck.WithStore(&memoryStore{}))
	if err != nil {
		log.Fatal(err)
	}

	content, err := os.ReadFile(note)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("added: %d\n", report.Added)
	fmt.Print(string(content))
	// Output:
	// added: 1
	// Q: What is ATP?
	// A: Energy<!--ID: 1700000000001-->
}
