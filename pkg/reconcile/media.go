package reconcile

import (
	"bytes"
	"fmt"
	"slices"

	"github.com/aretw0/vaultdeck/pkg/core"
)

// MediaIndex describes the media already held by the remote store.
type MediaIndex struct {
	Names map[string]struct{}
	// Contents is only filled in fine-grained mode, for the names the
	// records reference.
	Contents    map[string][]byte
	FineGrained bool
}

// NewMediaIndex builds a filename-only index.
func NewMediaIndex(names []string) MediaIndex {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return MediaIndex{Names: set}
}

// CollectMedia returns one item per distinct media file referenced by
// records, sorted by name.
func CollectMedia(records []*core.Record, load core.MediaLoader) []*core.MediaItem {
	seen := make(map[string]struct{})
	var names []string
	for _, r := range records {
		for _, name := range r.Media {
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			names = append(names, name)
		}
	}
	slices.Sort(names)

	items := make([]*core.MediaItem, len(names))
	for i, name := range names {
		items[i] = core.NewMediaItem(name, load)
	}
	return items
}

// Referenced returns the names of the items also known to the store, which
// are the only ones whose remote content matters in fine-grained mode.
func Referenced(items []*core.MediaItem, index MediaIndex) []string {
	var names []string
	for _, m := range items {
		if _, ok := index.Names[m.Name]; ok {
			names = append(names, m.Name)
		}
	}
	return names
}

// ClassifyMedia marks every item as stored or new and returns the new ones,
// which must be uploaded. Filename-only mode trusts name membership;
// fine-grained mode also requires identical bytes. Items whose local file
// cannot be read are reported and left out.
func ClassifyMedia(items []*core.MediaItem, index MediaIndex) (upload []*core.MediaItem, warnings []string) {
	for _, m := range items {
		_, known := index.Names[m.Name]

		if known && !index.FineGrained {
			m.State = core.MediaStored
			continue
		}

		data, err := m.Data()
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("media %s: %v, not uploaded", m.Name, err))
			continue
		}
		if known {
			if remote, ok := index.Contents[m.Name]; ok && bytes.Equal(remote, data) {
				m.State = core.MediaStored
				continue
			}
		}
		m.State = core.MediaNew
		upload = append(upload, m)
	}
	return upload, warnings
}

// Uploads encodes items for the store.
func Uploads(items []*core.MediaItem) ([]core.MediaUpload, error) {
	out := make([]core.MediaUpload, 0, len(items))
	for _, m := range items {
		data, err := m.Encoded()
		if err != nil {
			return nil, fmt.Errorf("failed to encode media %s: %w", m.Name, err)
		}
		out = append(out, core.MediaUpload{Name: m.Name, Data: data})
	}
	return out, nil
}
