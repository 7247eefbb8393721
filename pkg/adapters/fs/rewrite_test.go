package fs_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/vaultdeck/pkg/adapters/fs"
	"github.com/aretw0/vaultdeck/pkg/core"
)

func TestApply(t *testing.T) {
	original := "0123456789012345678901234567890123456789"

	apply := func(t *testing.T, text string, edits []core.Edit) string {
		t.Helper()
		got, err := fs.Apply(text, edits)
		require.NoError(t, err)
		return got
	}

	t.Run("Order Independent", func(t *testing.T) {
		a := core.Edit{Offset: 10, Text: "111"}
		b := core.Edit{Offset: 30, Text: "222"}
		want := original[:10] + "111" + original[10:30] + "222" + original[30:]

		assert.Equal(t, want, apply(t, original, []core.Edit{a, b}))
		assert.Equal(t, want, apply(t, original, []core.Edit{b, a}))
	})

	t.Run("Stable For Equal Offsets", func(t *testing.T) {
		got := apply(t, "ab", []core.Edit{{Offset: 1, Text: "x"}, {Offset: 1, Text: "y"}})
		assert.Equal(t, "axyb", got)
	})

	t.Run("Replacement", func(t *testing.T) {
		got := apply(t, "A: b<!--ID: 7-->\n", []core.Edit{{Offset: 4, Length: 12, Text: "<!--ID: 99-->"}})
		assert.Equal(t, "A: b<!--ID: 99-->\n", got)
	})

	t.Run("No Edits", func(t *testing.T) {
		assert.Equal(t, original, apply(t, original, nil))
	})

	t.Run("Overlapping Edit Is Reported", func(t *testing.T) {
		got, err := fs.Apply("A: b<!--ID: 7-->\n", []core.Edit{
			{Offset: 4, Length: 12, Text: "<!--ID: 99-->"},
			{Offset: 8, Text: "<!--ID: 100-->"},
		})
		assert.ErrorIs(t, err, fs.ErrEditConflict)
		assert.ErrorContains(t, err, "<!--ID: 100-->")
		assert.Equal(t, "A: b<!--ID: 99-->\n", got)
	})

	t.Run("Out Of Range Edit Is Reported", func(t *testing.T) {
		got, err := fs.Apply("abc", []core.Edit{{Offset: 1, Text: "x"}, {Offset: 9, Text: "y"}})
		assert.ErrorIs(t, err, fs.ErrEditConflict)
		assert.Equal(t, "axbc", got)
	})
}

func TestErase(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"end of line keeps line break", "A: b<!--ID: 5-->#DELETE\nnext", "A: b\nnext"},
		{"end of line keeps crlf", "A: b<!--ID: 5-->#DELETE\r\nnext", "A: b\r\nnext"},
		{"inserted marker before blank line", "A: b<!--ID: 5-->#DELETE\n\nnext", "A: b\nnext"},
		{"inserted marker before blank crlf line", "A: b<!--ID: 5-->#DELETE\r\n\r\nnext", "A: b\r\nnext"},
		{"alone on its line", "A: b\n<!--ID: 5-->#DELETE\nnext", "A: b\nnext"},
		{"alone on its crlf line", "A: b\r\n<!--ID: 5-->#DELETE\r\nnext", "A: b\r\nnext"},
		{"start of text", "<!--ID: 5-->#DELETE\nnext", "next"},
		{"end of text", "A: b<!--ID: 5-->#DELETE", "A: b"},
		{"last line", "A: b<!--ID: 5-->#DELETE\n", "A: b"},
		{"several pairs", "A: x<!--ID: 1-->#DELETE\nQ: y\nA: z<!--ID: 2-->#DELETE\n\n", "A: x\nQ: y\nA: z\n"},
		{"lone marker kept", "A: b<!--ID: 5-->\n", "A: b<!--ID: 5-->\n"},
		{"lone delete kept", "A: b#DELETE\n", "A: b#DELETE\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, fs.Erase(tt.in))
		})
	}
}

func TestRewrite(t *testing.T) {
	t.Run("Insert Then Erase Round Trip", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "bio.md")
		original := "Q: What?\nA: That\n"
		require.NoError(t, os.WriteFile(path, []byte(original), 0644))

		doc := core.NewDocument(path, "bio.md", "bio.md", original)
		rec := &core.Record{InsertAt: 16, Doc: doc}
		rec.Assign(1234)
		doc.AddPending(rec)

		written, err := fs.Rewrite(doc)
		require.NoError(t, err)
		assert.True(t, written)

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "Q: What?\nA: That<!--ID: 1234-->\n\n", string(data))
		assert.Equal(t, core.Hash(data), doc.CurrentHash)

		marked := string(data[:31]) + "#DELETE" + string(data[31:])
		assert.Equal(t, original, fs.Erase(marked))
	})

	t.Run("Unchanged Document Is Not Written", func(t *testing.T) {
		doc := core.NewDocument(filepath.Join(t.TempDir(), "missing.md"), "missing.md", "missing.md", "text")
		written, err := fs.Rewrite(doc)
		require.NoError(t, err)
		assert.False(t, written)
	})

	t.Run("Erase Combined With Pending Edits", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "mix.md")
		original := "Q: old\nA: gone<!--ID: 5-->#DELETE\nQ: new\nA: here\n"
		require.NoError(t, os.WriteFile(path, []byte(original), 0644))

		doc := core.NewDocument(path, "mix.md", "mix.md", original)
		doc.Erase = true
		rec := &core.Record{InsertAt: len(original) - 1, Doc: doc}
		rec.Assign(6)
		doc.AddPending(rec)

		_, err := fs.Rewrite(doc)
		require.NoError(t, err)
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "Q: old\nA: gone\nQ: new\nA: here<!--ID: 6-->\n\n", string(data))
	})

	t.Run("Erase Keeps CRLF Line Breaks", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "crlf.md")
		original := "Q: old\r\nA: gone<!--ID: 5-->#DELETE\r\nQ: new\r\nA: here\r\n"
		require.NoError(t, os.WriteFile(path, []byte(original), 0644))

		doc := core.NewDocument(path, "crlf.md", "crlf.md", original)
		doc.Erase = true

		written, err := fs.Rewrite(doc)
		require.NoError(t, err)
		assert.True(t, written)
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "Q: old\r\nA: gone\r\nQ: new\r\nA: here\r\n", string(data))
	})

	t.Run("Conflicting Edit Still Writes The Rest", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "clash.md")
		original := "Q: a\nA: b\n"
		require.NoError(t, os.WriteFile(path, []byte(original), 0644))

		doc := core.NewDocument(path, "clash.md", "clash.md", original)
		good := &core.Record{InsertAt: 9, Doc: doc}
		good.Assign(1)
		doc.AddPending(good)
		lost := &core.Record{InsertAt: 99, Doc: doc}
		lost.Assign(2)
		doc.AddPending(lost)

		written, err := fs.Rewrite(doc)
		assert.True(t, written)
		assert.ErrorIs(t, err, fs.ErrEditConflict)
		assert.ErrorContains(t, err, "clash.md")

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "Q: a\nA: b<!--ID: 1-->\n\n", string(data))
	})
}
