// Package anki implements core.Store on top of the AnkiConnect JSON API
// (protocol version 6).
package anki

// Version is the AnkiConnect protocol version spoken by the client.
const Version = 6

// Action is one AnkiConnect request. The set of actions is closed: only the
// types of this package implement it.
type Action interface {
	// Name is the AnkiConnect action name.
	Name() string
	// Params is the JSON-encodable parameter object, nil when none.
	Params() any
	sealed()
}

type action struct{}

func (action) sealed() {}

// Note is the note object used by addNotes and updateNote.
type Note struct {
	ID        int64             `json:"id,omitempty"`
	DeckName  string            `json:"deckName,omitempty"`
	ModelName string            `json:"modelName,omitempty"`
	Fields    map[string]string `json:"fields"`
	Tags      []string          `json:"tags"`
}

type FindNotes struct {
	action
	Query string
}

func (FindNotes) Name() string   { return "findNotes" }
func (a FindNotes) Params() any { return map[string]any{"query": a.Query} }

type NotesInfo struct {
	action
	Notes []int64
}

func (NotesInfo) Name() string   { return "notesInfo" }
func (a NotesInfo) Params() any { return map[string]any{"notes": a.Notes} }

type GetMediaFilesNames struct {
	action
	Pattern string
}

func (GetMediaFilesNames) Name() string { return "getMediaFilesNames" }
func (a GetMediaFilesNames) Params() any {
	if a.Pattern == "" {
		return nil
	}
	return map[string]any{"pattern": a.Pattern}
}

type RetrieveMediaFile struct {
	action
	Filename string
}

func (RetrieveMediaFile) Name() string   { return "retrieveMediaFile" }
func (a RetrieveMediaFile) Params() any { return map[string]any{"filename": a.Filename} }

type AddNotes struct {
	action
	Notes []Note
}

func (AddNotes) Name() string   { return "addNotes" }
func (a AddNotes) Params() any { return map[string]any{"notes": a.Notes} }

type UpdateNote struct {
	action
	Note Note
}

func (UpdateNote) Name() string   { return "updateNote" }
func (a UpdateNote) Params() any { return map[string]any{"note": a.Note} }

type ChangeDeck struct {
	action
	Cards []int64
	Deck  string
}

func (ChangeDeck) Name() string   { return "changeDeck" }
func (a ChangeDeck) Params() any { return map[string]any{"cards": a.Cards, "deck": a.Deck} }

type DeleteNotes struct {
	action
	Notes []int64
}

func (DeleteNotes) Name() string   { return "deleteNotes" }
func (a DeleteNotes) Params() any { return map[string]any{"notes": a.Notes} }

type CreateDeck struct {
	action
	Deck string
}

func (CreateDeck) Name() string   { return "createDeck" }
func (a CreateDeck) Params() any { return map[string]any{"deck": a.Deck} }

type StoreMediaFile struct {
	action
	Filename string
	Data     string // base64
}

func (StoreMediaFile) Name() string { return "storeMediaFile" }
func (a StoreMediaFile) Params() any {
	return map[string]any{"filename": a.Filename, "data": a.Data}
}

// Multi batches heterogeneous actions into one round trip. Every sub-action
// carries its own result or error.
type Multi struct {
	action
	Actions []Action
}

func (Multi) Name() string { return "multi" }
func (a Multi) Params() any {
	actions := make([]request, len(a.Actions))
	for i, sub := range a.Actions {
		actions[i] = newRequest(sub, "")
	}
	return map[string]any{"actions": actions}
}

var (
	_ Action = FindNotes{}
	_ Action = NotesInfo{}
	_ Action = GetMediaFilesNames{}
	_ Action = RetrieveMediaFile{}
	_ Action = AddNotes{}
	_ Action = UpdateNote{}
	_ Action = ChangeDeck{}
	_ Action = DeleteNotes{}
	_ Action = CreateDeck{}
	_ Action = StoreMediaFile{}
	_ Action = Multi{}
)
