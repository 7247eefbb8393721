package anki

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/aretw0/vaultdeck/pkg/core"
)

// Store adapts a Client to core.Store.
type Store struct {
	client *Client
}

// NewStore creates a store backed by client.
func NewStore(client *Client) *Store {
	return &Store{client: client}
}

var _ core.Store = (*Store)(nil)

func (s *Store) RecordIDs(ctx context.Context, query string) (map[int64]struct{}, error) {
	raw, err := s.client.Invoke(ctx, FindNotes{Query: query})
	if err != nil {
		return nil, err
	}
	ids, err := decode[[]int64]("findNotes", raw)
	if err != nil {
		return nil, err
	}
	set := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set, nil
}

func (s *Store) MediaNames(ctx context.Context) ([]string, error) {
	raw, err := s.client.Invoke(ctx, GetMediaFilesNames{Pattern: "*"})
	if err != nil {
		return nil, err
	}
	return decode[[]string]("getMediaFilesNames", raw)
}

func (s *Store) MediaContents(ctx context.Context, names []string) (map[string][]byte, error) {
	actions := make([]Action, len(names))
	for i, n := range names {
		actions[i] = RetrieveMediaFile{Filename: n}
	}
	results, err := s.client.Multi(ctx, actions)
	if err != nil {
		return nil, err
	}

	contents := make(map[string][]byte, len(results))
	for i, raw := range results {
		// Unknown files come back as false.
		var encoded string
		if json.Unmarshal(raw, &encoded) != nil {
			continue
		}
		data, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			return nil, &APIError{Action: "retrieveMediaFile", Message: fmt.Sprintf("%s: invalid base64: %v", names[i], err)}
		}
		contents[names[i]] = data
	}
	return contents, nil
}

func (s *Store) AddRecords(ctx context.Context, notes []core.NotePayload) ([]*int64, error) {
	if len(notes) == 0 {
		return nil, nil
	}
	params := make([]Note, len(notes))
	for i, n := range notes {
		params[i] = Note{DeckName: n.Group, ModelName: n.Model, Fields: n.Fields, Tags: n.Tags}
	}
	raw, err := s.client.Invoke(ctx, AddNotes{Notes: params})
	if err != nil {
		return nil, err
	}
	ids, err := decode[[]*int64]("addNotes", raw)
	if err != nil {
		return nil, err
	}
	if len(ids) != len(notes) {
		return nil, &APIError{Action: "addNotes", Message: fmt.Sprintf("got %d results for %d notes", len(ids), len(notes))}
	}
	return ids, nil
}

func (s *Store) UpdateRecords(ctx context.Context, notes []core.NotePayload) error {
	actions := make([]Action, len(notes))
	for i, n := range notes {
		actions[i] = UpdateNote{Note: Note{ID: n.ID, Fields: n.Fields, Tags: n.Tags}}
	}
	_, err := s.client.Multi(ctx, actions)
	return err
}

type noteInfo struct {
	NoteID int64   `json:"noteId"`
	Cards  []int64 `json:"cards"`
}

// ChangeGroups resolves the cards of every note, since AnkiConnect moves
// cards and not notes, then issues one changeDeck per target deck.
func (s *Store) ChangeGroups(ctx context.Context, changes []core.GroupChange) error {
	if len(changes) == 0 {
		return nil
	}
	ids := make([]int64, len(changes))
	for i, c := range changes {
		ids[i] = c.ID
	}
	raw, err := s.client.Invoke(ctx, NotesInfo{Notes: ids})
	if err != nil {
		return err
	}
	infos, err := decode[[]noteInfo]("notesInfo", raw)
	if err != nil {
		return err
	}
	cards := make(map[int64][]int64, len(infos))
	for _, info := range infos {
		cards[info.NoteID] = info.Cards
	}

	byDeck := make(map[string][]int64)
	for _, c := range changes {
		byDeck[c.Group] = append(byDeck[c.Group], cards[c.ID]...)
	}
	decks := make([]string, 0, len(byDeck))
	for d, cs := range byDeck {
		if len(cs) > 0 {
			decks = append(decks, d)
		}
	}
	slices.Sort(decks)

	actions := make([]Action, len(decks))
	for i, d := range decks {
		actions[i] = ChangeDeck{Cards: byDeck[d], Deck: d}
	}
	_, err = s.client.Multi(ctx, actions)
	return err
}

func (s *Store) DeleteRecords(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := s.client.Invoke(ctx, DeleteNotes{Notes: ids})
	return err
}

func (s *Store) CreateGroups(ctx context.Context, names []string) error {
	actions := make([]Action, len(names))
	for i, n := range names {
		actions[i] = CreateDeck{Deck: n}
	}
	_, err := s.client.Multi(ctx, actions)
	return err
}

func (s *Store) StoreMedia(ctx context.Context, items []core.MediaUpload) error {
	actions := make([]Action, len(items))
	for i, m := range items {
		actions[i] = StoreMediaFile{Filename: m.Name, Data: m.Data}
	}
	_, err := s.client.Multi(ctx, actions)
	return err
}
