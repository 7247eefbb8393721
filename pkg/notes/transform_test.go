package notes_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aretw0/vaultdeck/pkg/notes"
)

func TestPictures(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"wikilink", "see ![[attachments/cat.png]]", `see <img src="cat.png">`},
		{"wikilink with size", "![[cat.JPG|200]]", `<img src="cat.JPG">`},
		{"markdown", "![a cat](img/my%20cat.png)", `<img src="my cat.png" alt="a cat">`},
		{"remote markdown untouched", "![x](https://example.com/cat.png)", "![x](https://example.com/cat.png)"},
		{"bare url", "look https://example.com/a.gif now", `look <img src="https://example.com/a.gif"> now`},
		{"not an image", "![[notes.pdf]]", "![[notes.pdf]]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, notes.Pictures(tt.in))
		})
	}
}

func TestAudio(t *testing.T) {
	assert.Equal(t,
		`say <audio controls><source src="hello.mp3" type="audio/mp3"></audio>`,
		notes.Audio("say ![[sounds/hello.mp3]]"))
}

func TestMath(t *testing.T) {
	assert.Equal(t, `\\(x^2\\)`, notes.Math("$x^2$"))
	assert.Equal(t, `\\[a+b\\]`, notes.Math("$$a+b$$"))
	assert.Equal(t, "costs $5 and $ 6", notes.Math("costs $5 and $ 6"))

	rendered := notes.Markdown(notes.Math("$x$"))
	assert.Equal(t, `<p>\(x\)</p>`, rendered)
}

func TestMarkdown(t *testing.T) {
	assert.Equal(t, "<p><strong>bold</strong><br>\nnext</p>", notes.Markdown("**bold**\nnext"))
	assert.Equal(t, `<p>a <img src="cat.png"></p>`, notes.Markdown(`a <img src="cat.png">`))

	t.Run("Highlights Fenced Code", func(t *testing.T) {
		got := notes.Markdown("```go\nfunc main() {}\n```")
		assert.True(t, strings.HasPrefix(got, `<div class="highlight">`), got)
		assert.True(t, strings.HasSuffix(got, `</div>`), got)
		assert.Contains(t, got, `class="chroma"`)
		assert.Contains(t, got, `<span class="kd">func</span>`)
		assert.NotContains(t, got, `style=`)
	})
}

func TestWikilinks(t *testing.T) {
	link := notes.Wikilinks("My Vault")

	assert.Equal(t,
		`see <a href="obsidian://open?vault=My%20Vault&file=Cell%20Biology">Cell Biology</a>`,
		link("see [[Cell Biology]]"))
	assert.Equal(t,
		`<a href="obsidian://open?vault=My%20Vault&file=dir/page">alias</a>`,
		link("[[dir/page|alias]]"))
	assert.Equal(t, "![[embed.pdf]]", link("![[embed.pdf]]"))
	assert.Equal(t,
		`<a href="obsidian://open?vault=My%20Vault&file=Q%26A%2Bmore/%C3%A9t%C3%A9">Q&A+more/été</a>`,
		link("[[Q&A+more/été]]"))
}

func TestPipelines(t *testing.T) {
	front := notes.FrontPipeline("v", "bio.md").Apply("What?")
	assert.Equal(t, `<p>What?</p><br><a href="obsidian://open?vault=v&file=bio.md">Obsidian</a>`, front)

	back := notes.BackPipeline("v").Apply("That")
	assert.Equal(t, "<p>That</p>", back)
}

func TestMediaRefs(t *testing.T) {
	text := "![[a/cat.png]] ![x](b/dog.jpeg) ![y](http://remote/z.png) ![[song.ogg]] ![[cat.png]]"
	assert.Equal(t, []string{"cat.png", "dog.jpeg", "song.ogg"}, notes.MediaRefs(text))
	assert.Nil(t, notes.MediaRefs("plain text"))
}
