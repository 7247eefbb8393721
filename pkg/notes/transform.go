package notes

import (
	"bytes"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"
)

// Transformer is one pure step of a field pipeline.
type Transformer func(string) string

// Pipeline applies its transformers in order.
type Pipeline []Transformer

// Apply runs text through every step.
func (p Pipeline) Apply(text string) string {
	for _, t := range p {
		text = t(text)
	}
	return text
}

// FrontPipeline transforms the first field of a record. It ends with a
// backlink to the source document.
func FrontPipeline(vault, file string) Pipeline {
	return Pipeline{
		Pictures,
		Audio,
		Math,
		Markdown,
		Backlink(vault, file),
		Wikilinks(vault),
	}
}

// BackPipeline transforms every other field.
func BackPipeline(vault string) Pipeline {
	return Pipeline{
		Pictures,
		Audio,
		Math,
		Markdown,
		Wikilinks(vault),
	}
}

var (
	imageURLPattern = regexp.MustCompile(`(?i)(\s)(https?://\S+\.(?:` + imageExts + `))(\s)`)

	displayMathPattern = regexp.MustCompile(`\$\$([\s\S]*?)\$\$`)
	inlineMathPattern  = regexp.MustCompile(`\$([^\s$](?:[^$]*?[^\s$])?)\$`)

	wikilinkPattern = regexp.MustCompile(`\[\[([^\n]*?)\]\]`)
)

// Pictures replaces embedded local images and bare image URLs with <img> tags
// pointing at the media file name.
func Pictures(text string) string {
	text = imageURLPattern.ReplaceAllString(text, `$1<img src="$2">$3`)
	text = replaceRefs(text, wikiImagePattern, func(r ref) string {
		return fmt.Sprintf(`<img src="%s">`, r.name)
	})
	return replaceRefs(text, markdownImagePattern, func(r ref) string {
		if r.alt == "" {
			return fmt.Sprintf(`<img src="%s">`, r.name)
		}
		return fmt.Sprintf(`<img src="%s" alt="%s">`, r.name, r.alt)
	})
}

// Audio replaces embedded audio files with an <audio> player.
func Audio(text string) string {
	return replaceRefs(text, wikiAudioPattern, func(r ref) string {
		return fmt.Sprintf(`<audio controls><source src="%s" type="audio/%s"></audio>`, r.name, r.ext)
	})
}

// Math converts $$..$$ and $..$ delimiters to the \[..\] and \(..\) form.
// Backslashes are doubled because Markdown rendering consumes one of them.
func Math(text string) string {
	text = displayMathPattern.ReplaceAllString(text, `\\[${1}\\]`)
	return inlineMathPattern.ReplaceAllString(text, `\\(${1}\\)`)
}

// Fenced code is highlighted with CSS classes inside a div.highlight wrapper,
// so card templates can style it.
var markdown = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		extension.Footnote,
		highlighting.NewHighlighting(
			highlighting.WithFormatOptions(chromahtml.WithClasses(true)),
			highlighting.WithWrapperRenderer(highlightWrapper),
		),
	),
	goldmark.WithRendererOptions(html.WithHardWraps(), html.WithUnsafe()),
)

func highlightWrapper(w util.BufWriter, _ highlighting.CodeBlockContext, entering bool) {
	if entering {
		_, _ = w.WriteString(`<div class="highlight">`)
		return
	}
	_, _ = w.WriteString(`</div>`)
}

// Markdown renders text to HTML. Raw HTML produced by earlier steps is kept.
func Markdown(text string) string {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(text), &buf); err != nil {
		return text
	}
	return strings.TrimSpace(buf.String())
}

// Backlink appends a link opening the source document in Obsidian.
func Backlink(vault, file string) Transformer {
	link := obsidianLink(vault, file, "Obsidian")
	return func(text string) string {
		return text + "<br>" + link
	}
}

// Wikilinks replaces [[target]] and [[target|alias]] with Obsidian links.
// Embeds, written ![[..]], are left alone.
func Wikilinks(vault string) Transformer {
	return func(text string) string {
		matches := wikilinkPattern.FindAllStringSubmatchIndex(text, -1)
		if len(matches) == 0 {
			return text
		}
		var b strings.Builder
		last := 0
		for _, m := range matches {
			if m[0] > 0 && text[m[0]-1] == '!' {
				continue
			}
			target, alias, _ := strings.Cut(text[m[2]:m[3]], "|")
			if alias == "" {
				alias = target
			}
			b.WriteString(text[last:m[0]])
			b.WriteString(obsidianLink(vault, target, alias))
			last = m[1]
		}
		b.WriteString(text[last:])
		return b.String()
	}
}

func obsidianLink(vault, file, alias string) string {
	return fmt.Sprintf(`<a href="obsidian://open?vault=%s&file=%s">%s</a>`, quote(vault), quote(file), alias)
}

// quote percent-encodes everything except unreserved characters and '/'.
func quote(s string) string {
	return quoteReplacer.Replace(url.QueryEscape(s))
}

// QueryEscape writes spaces as '+' and escapes '/'; a literal '+' is already
// %2B at this point.
var quoteReplacer = strings.NewReplacer("+", "%20", "%2F", "/")
