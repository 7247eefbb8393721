package core

import "context"

// Store defines the contract of the remote flashcard store.
// Batched operations encode many logical sub-operations in one round trip;
// any failed sub-operation fails the whole call.
type Store interface {
	// RecordIDs returns the identifiers of every record matching query.
	RecordIDs(ctx context.Context, query string) (map[int64]struct{}, error)

	// MediaNames lists the file names of all stored media.
	MediaNames(ctx context.Context) ([]string, error)

	// MediaContents retrieves the content of the named media files.
	// Names unknown to the store are absent from the result.
	MediaContents(ctx context.Context, names []string) (map[string][]byte, error)

	// AddRecords creates records. The result corresponds positionally to
	// notes; a nil entry means the store rejected that record as a duplicate.
	AddRecords(ctx context.Context, notes []NotePayload) ([]*int64, error)

	// UpdateRecords replaces fields and tags of existing records.
	UpdateRecords(ctx context.Context, notes []NotePayload) error

	// ChangeGroups moves existing records to their target groups.
	ChangeGroups(ctx context.Context, changes []GroupChange) error

	// DeleteRecords removes records by identifier.
	DeleteRecords(ctx context.Context, ids []int64) error

	// CreateGroups creates groups. Existing groups are not an error.
	CreateGroups(ctx context.Context, names []string) error

	// StoreMedia uploads media files.
	StoreMedia(ctx context.Context, items []MediaUpload) error
}

// MediaUpload is one media file to store remotely.
type MediaUpload struct {
	Name string
	Data string // base64
}
