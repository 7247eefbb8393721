package notes

import (
	"net/url"
	"path"
	"regexp"
	"strings"
)

const (
	imageExts = `png|jpe?g|gif|bmp|svg|webp|tiff?|avif`
	audioExts = `mp3|wav|ogg|m4a|flac`
)

var (
	// ![[dir/name.ext]] and ![[name.ext|300]]
	wikiImagePattern = regexp.MustCompile(`(?i)!\[\[([^\]|\n]*?\.(` + imageExts + `))(?:\|[^\]\n]*)?\]\]`)
	wikiAudioPattern = regexp.MustCompile(`(?i)!\[\[([^\]|\n]*?\.(` + audioExts + `))(?:\|[^\]\n]*)?\]\]`)
	// ![alt](dir/name.ext), remote URLs excluded by the caller.
	markdownImagePattern = regexp.MustCompile(`(?i)!\[([^\]\n]*)\]\(([^)\s]+?\.(` + imageExts + `))\)`)
)

type ref struct {
	name string // base file name
	ext  string
	alt  string
}

// parseRef decodes one match of the media patterns. ok is false for remote
// images, which are not media files of the vault.
func parseRef(text string, re *regexp.Regexp, m []int) (ref, bool) {
	sub := func(i int) string {
		if m[2*i] < 0 {
			return ""
		}
		return text[m[2*i]:m[2*i+1]]
	}
	if re == markdownImagePattern {
		target := sub(2)
		lower := strings.ToLower(target)
		if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
			return ref{}, false
		}
		if unescaped, err := url.PathUnescape(target); err == nil {
			target = unescaped
		}
		return ref{name: baseName(target), ext: strings.ToLower(sub(3)), alt: sub(1)}, true
	}
	return ref{name: baseName(sub(1)), ext: strings.ToLower(sub(2))}, true
}

func baseName(p string) string {
	return path.Base(strings.ReplaceAll(p, `\`, "/"))
}

// MediaRefs returns the file names of every local image and audio file
// embedded in text, in order of appearance and without duplicates.
func MediaRefs(text string) []string {
	var names []string
	for _, re := range []*regexp.Regexp{wikiImagePattern, markdownImagePattern, wikiAudioPattern} {
		for _, m := range re.FindAllStringSubmatchIndex(text, -1) {
			if r, ok := parseRef(text, re, m); ok {
				names = append(names, r.name)
			}
		}
	}
	return dedup(names)
}

func replaceRefs(text string, re *regexp.Regexp, render func(ref) string) string {
	matches := re.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return text
	}
	var b strings.Builder
	last := 0
	for _, m := range matches {
		r, ok := parseRef(text, re, m)
		if !ok {
			continue
		}
		b.WriteString(text[last:m[0]])
		b.WriteString(render(r))
		last = m[1]
	}
	b.WriteString(text[last:])
	return b.String()
}
