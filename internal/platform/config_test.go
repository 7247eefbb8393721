package platform

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/vaultdeck/pkg/core"
)

type testEnv struct {
	dir   string
	vault string
	media string
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()
	dir := t.TempDir()
	env := testEnv{
		dir:   dir,
		vault: filepath.Join(dir, "notes"),
		media: filepath.Join(dir, "notes", "attachments"),
	}
	require.NoError(t, os.MkdirAll(env.media, 0755))
	return env
}

func (e testEnv) writeConfig(t *testing.T, body string) string {
	t.Helper()
	body = strings.ReplaceAll(body, "$VAULT", e.vault)
	body = strings.ReplaceAll(body, "$MEDIA", e.media)
	p := filepath.Join(e.dir, "vaultdeck.yaml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0644))
	return p
}

const minimalConfig = `
globals:
  anki:
    url: http://127.0.0.1:8765
vault:
  dir_path: $VAULT
  medias_dir_path: $MEDIA
regex:
  basic:
    - '^Q: (.+)\nA: ([^<#\n]+)'
`

func TestLoad_Defaults(t *testing.T) {
	env := newTestEnv(t)
	cfg, err := Load(env.writeConfig(t, minimalConfig))
	require.NoError(t, err)

	assert.Equal(t, "Default", cfg.Globals.Anki.DeckName)
	assert.Equal(t, "deck:*", cfg.Globals.Anki.Query)
	assert.Equal(t, 30*time.Second, cfg.Globals.Anki.Timeout)
	require.NotNil(t, cfg.Vault.ExcludeDottedDirsFromScan)
	assert.True(t, *cfg.Vault.ExcludeDottedDirsFromScan)
	assert.Equal(t, filepath.Join(env.vault, ".vaultdeck"), cfg.HashesCacheDir)
	assert.Equal(t, filepath.Join(env.vault, ".vaultdeck", ".notes_file_hashes.json"), cfg.CachePath())

	templates, err := cfg.Templates()
	require.NoError(t, err)
	require.Len(t, templates, 1)
	assert.Equal(t, core.Basic, templates[0].Variant)
}

func TestLoad_FullConfig(t *testing.T) {
	env := newTestEnv(t)
	cacheDir := filepath.Join(env.dir, "cache")
	require.NoError(t, os.Mkdir(cacheDir, 0755))
	t.Setenv("VAULTDECK_TEST_KEY", "s3cret")

	cfg, err := Load(env.writeConfig(t, `
globals:
  anki:
    url: http://localhost:9999
    deck_name: Inbox
    tags: [vault, review]
    fine_grained_image_search: true
    query: "deck:Inbox"
    api_key: ${VAULTDECK_TEST_KEY}
    timeout: 5s
    requests_per_second: 10
vault:
  dir_path: $VAULT
  medias_dir_path: $MEDIA
  exclude_dirs_from_scan: [templates]
  exclude_dotted_dirs_from_scan: false
  file_patterns_to_exclude: ["**/draft-*.md"]
regex:
  basic_reversed: ['^R: (.+)\n([^<#\n]+)']
  type_answer: ['^T: (.+)\n([^<#\n]+)']
  cloze: ['^C: ([^<#\n]+)']
hashes_cache_dir: `+cacheDir+`
workers: 3
`))
	require.NoError(t, err)

	anki := cfg.Globals.Anki
	assert.Equal(t, "Inbox", anki.DeckName)
	assert.Equal(t, []string{"vault", "review"}, anki.Tags)
	assert.True(t, anki.FineGrainedImageSearch)
	assert.Equal(t, "s3cret", anki.APIKey)
	assert.Equal(t, 5*time.Second, anki.Timeout)
	assert.Equal(t, 10.0, anki.RequestsPerSecond)
	assert.False(t, *cfg.Vault.ExcludeDottedDirsFromScan)
	assert.Equal(t, cacheDir, cfg.HashesCacheDir)
	assert.Equal(t, 3, cfg.Workers)

	templates, err := cfg.Templates()
	require.NoError(t, err)
	require.Len(t, templates, 3)
	assert.Equal(t, core.BasicReversed, templates[0].Variant)
	assert.Equal(t, core.TypeAnswer, templates[1].Variant)
	assert.Equal(t, core.Cloze, templates[2].Variant)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		config  string
		wantErr string
	}{
		{
			name:    "Missing Vault",
			config:  "globals: {anki: {url: http://127.0.0.1:8765}}\nregex: {cloze: ['^C: (.+)']}\n",
			wantErr: "vault.dir_path is required",
		},
		{
			name:    "Vault Does Not Exist",
			config:  "vault: {dir_path: $VAULT/nope, medias_dir_path: $MEDIA}\nregex: {cloze: ['^C: (.+)']}\n",
			wantErr: "vault.dir_path",
		},
		{
			name:    "Bad URL",
			config:  "globals: {anki: {url: 'ftp://x'}}\nvault: {dir_path: $VAULT, medias_dir_path: $MEDIA}\nregex: {cloze: ['^C: (.+)']}\n",
			wantErr: "globals.anki.url",
		},
		{
			name:    "No Templates",
			config:  "vault: {dir_path: $VAULT, medias_dir_path: $MEDIA}\n",
			wantErr: "at least one regex",
		},
		{
			name:    "Too Few Groups",
			config:  "vault: {dir_path: $VAULT, medias_dir_path: $MEDIA}\nregex: {basic: ['^Q: (.+)']}\n",
			wantErr: "regex.basic[0]",
		},
		{
			name:    "Lookaround",
			config:  "vault: {dir_path: $VAULT, medias_dir_path: $MEDIA}\nregex: {cloze: ['^C: (?=x)(.+)']}\n",
			wantErr: "regex.cloze[0]",
		},
		{
			name:    "Reserved Group Name",
			config:  "vault: {dir_path: $VAULT, medias_dir_path: $MEDIA}\nregex: {cloze: ['^C: (?P<delete>.+)']}\n",
			wantErr: "regex.cloze[0]",
		},
		{
			name:    "Bad Exclusion Pattern",
			config:  "vault: {dir_path: $VAULT, medias_dir_path: $MEDIA, file_patterns_to_exclude: ['[']}\nregex: {cloze: ['^C: (.+)']}\n",
			wantErr: "file_patterns_to_exclude",
		},
		{
			name:    "Cache Dir Does Not Exist",
			config:  "vault: {dir_path: $VAULT, medias_dir_path: $MEDIA}\nregex: {cloze: ['^C: (.+)']}\nhashes_cache_dir: $VAULT/missing\n",
			wantErr: "hashes_cache_dir",
		},
		{
			name:    "Not YAML",
			config:  "globals: [",
			wantErr: "failed to parse config file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			_, err := Load(env.writeConfig(t, tt.config))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorContains(t, err, "failed to read config file")
}

func TestLoad_TemplateErrorsWrapSentinel(t *testing.T) {
	env := newTestEnv(t)
	cfg, err := Load(env.writeConfig(t, minimalConfig))
	require.NoError(t, err)

	cfg.Regex.Basic = []string{"^Q: (.+)"}
	_, err = cfg.Templates()
	assert.ErrorIs(t, err, core.ErrInvalidTemplate)
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, "vault"), expandPath("~/vault"))
	assert.Equal(t, home, expandPath("~"))
	assert.Equal(t, "/abs/vault", expandPath("/abs/vault"))
	assert.Equal(t, "~other/vault", expandPath("~other/vault"))
}
