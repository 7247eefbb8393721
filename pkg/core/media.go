package core

import (
	"encoding/base64"
	"fmt"
	"sync"
)

// MediaState is the dedup state of a MediaItem against the remote store.
type MediaState int

const (
	MediaUnknown MediaState = iota
	MediaStored
	MediaNew
)

func (s MediaState) String() string {
	switch s {
	case MediaStored:
		return "already-stored"
	case MediaNew:
		return "new"
	default:
		return "unknown"
	}
}

// MediaLoader reads the raw bytes of a media file by name.
type MediaLoader func(name string) ([]byte, error)

// MediaItem is a binary asset referenced by one or more records. Its bytes
// are only read when first needed.
type MediaItem struct {
	Name  string
	State MediaState

	load MediaLoader
	once sync.Once
	data []byte
	err  error
}

// NewMediaItem creates an item whose content is read lazily through load.
func NewMediaItem(name string, load MediaLoader) *MediaItem {
	return &MediaItem{Name: name, load: load}
}

// Data returns the raw bytes, loading them on first use.
func (m *MediaItem) Data() ([]byte, error) {
	m.once.Do(func() {
		if m.load == nil {
			m.err = fmt.Errorf("media %s: no loader", m.Name)
			return
		}
		m.data, m.err = m.load(m.Name)
	})
	return m.data, m.err
}

// Encoded returns the base64 payload sent to the remote store.
func (m *MediaItem) Encoded() (string, error) {
	data, err := m.Data()
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(data), nil
}
