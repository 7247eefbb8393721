package fs

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/vaultdeck/pkg/core"
)

// groupKeys are the frontmatter keys naming the target group, by priority.
var groupKeys = []string{"deck", "target deck", "target_deck"}

// parseFrontmatter reads the leading YAML block of a Markdown document.
// Documents without one yield empty metadata. Keys are lower-cased.
func parseFrontmatter(data []byte) (core.Metadata, error) {
	meta := make(core.Metadata)

	if !bytes.HasPrefix(data, []byte("---\n")) && !bytes.HasPrefix(data, []byte("---\r\n")) {
		return meta, nil
	}

	rest := data[3:]
	parts := bytes.SplitN(rest, []byte("\n---"), 2)
	if len(parts) == 1 {
		return meta, errors.New("frontmatter started but no closing delimiter found")
	}

	var raw map[string]any
	if err := yaml.Unmarshal(parts[0], &raw); err != nil {
		return meta, fmt.Errorf("failed to parse frontmatter: %w", err)
	}
	for k, v := range raw {
		meta[strings.ToLower(k)] = v
	}
	return meta, nil
}

// metadataTags accepts tags written as a YAML list or as a comma separated
// string.
func metadataTags(meta core.Metadata) []string {
	var tags []string
	switch v := meta["tags"].(type) {
	case []any:
		for _, t := range v {
			if t == nil {
				continue
			}
			tags = append(tags, strings.TrimSpace(fmt.Sprint(t)))
		}
	case string:
		for _, t := range strings.Split(v, ",") {
			tags = append(tags, strings.TrimSpace(t))
		}
	}
	out := tags[:0]
	for _, t := range tags {
		if t != "" {
			out = append(out, t)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// metadataGroup returns the target group declared in meta, or fallback.
func metadataGroup(meta core.Metadata, fallback string) string {
	for _, k := range groupKeys {
		v, ok := meta[k]
		if !ok || v == nil {
			continue
		}
		if s := strings.TrimSpace(fmt.Sprint(v)); s != "" {
			return s
		}
	}
	return fallback
}
