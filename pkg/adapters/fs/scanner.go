package fs

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/sync/errgroup"

	"github.com/aretw0/vaultdeck/pkg/core"
)

// Config holds the configuration for the vault scanner.
type Config struct {
	Root            string
	ExcludeDirs     []string // directory names skipped anywhere in the tree
	ExcludeDotted   bool     // skip directories whose name starts with a dot
	ExcludePatterns []string // doublestar globs matched against name and relative path
	DefaultGroup    string
	Workers         int // defaults to runtime.NumCPU()
	Logger          *slog.Logger
}

// Scanner finds and loads the Markdown documents of a vault.
type Scanner struct {
	config Config

	mu        sync.RWMutex
	lastScan  *time.Time
	documents int
}

// NewScanner creates a scanner. Patterns are expected to be valid, see
// ValidatePatterns.
func NewScanner(config Config) *Scanner {
	if config.Workers <= 0 {
		config.Workers = runtime.NumCPU()
	}
	if config.Logger == nil {
		config.Logger = slog.New(slog.DiscardHandler)
	}
	return &Scanner{config: config}
}

// ValidatePatterns reports the first malformed exclusion pattern.
func ValidatePatterns(patterns []string) error {
	for _, p := range patterns {
		if !doublestar.ValidatePattern(p) {
			return fmt.Errorf("invalid exclusion pattern %q", p)
		}
	}
	return nil
}

// Root returns the vault root directory.
func (s *Scanner) Root() string {
	return s.config.Root
}

// VaultName is the base name of the vault root.
func (s *Scanner) VaultName() string {
	return filepath.Base(filepath.Clean(s.config.Root))
}

// SkipDir reports whether the directory named name is excluded from scans.
func (s *Scanner) SkipDir(name string) bool {
	if s.config.ExcludeDotted && strings.HasPrefix(name, ".") && name != "." {
		return true
	}
	return slices.Contains(s.config.ExcludeDirs, name)
}

// Included reports whether the file at relPath (slash separated) is a
// Markdown document taking part in the sync.
func (s *Scanner) Included(relPath string) bool {
	if filepath.Ext(relPath) != ".md" {
		return false
	}
	name := baseName(relPath)
	for _, p := range s.config.ExcludePatterns {
		if ok, _ := doublestar.Match(p, name); ok {
			return false
		}
		if ok, _ := doublestar.Match(p, relPath); ok {
			return false
		}
	}
	return true
}

func baseName(relPath string) string {
	if i := strings.LastIndex(relPath, "/"); i >= 0 {
		return relPath[i+1:]
	}
	return relPath
}

// Paths walks the vault and returns the absolute paths of every included
// document, sorted.
func (s *Scanner) Paths(ctx context.Context) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(s.config.Root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			if p != s.config.Root && s.SkipDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		rel, err := s.rel(p)
		if err != nil {
			return err
		}
		if s.Included(rel) {
			paths = append(paths, p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan vault %s: %w", s.config.Root, err)
	}
	slices.Sort(paths)
	return paths, nil
}

func (s *Scanner) rel(p string) (string, error) {
	rel, err := filepath.Rel(s.config.Root, p)
	if err != nil {
		return "", err
	}
	return filepath.ToSlash(rel), nil
}

// Scan loads every included document. Files are read and hashed by a
// bounded pool of workers; the result is sorted by path. Frontmatter
// problems are reported as warnings, in path order, and the document keeps
// default metadata.
func (s *Scanner) Scan(ctx context.Context, report *core.Report) ([]*core.Document, error) {
	paths, err := s.Paths(ctx)
	if err != nil {
		return nil, err
	}

	docs := make([]*core.Document, len(paths))
	warns := make([]error, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.config.Workers)
	for i, p := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			doc, warn, err := s.Load(p)
			if err != nil {
				return err
			}
			docs[i], warns[i] = doc, warn
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	for i, warn := range warns {
		if warn != nil && report != nil {
			report.Warn("%s: %v", docs[i].RelPath, warn)
		}
	}

	now := time.Now()
	s.mu.Lock()
	s.lastScan = &now
	s.documents = len(docs)
	s.mu.Unlock()

	s.config.Logger.Debug("vault scanned", "root", s.config.Root, "documents", len(docs))
	return docs, nil
}

// Load reads one document. warn carries a non-fatal frontmatter problem.
func (s *Scanner) Load(p string) (doc *core.Document, warn error, err error) {
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read %s: %w", p, err)
	}
	rel, err := s.rel(p)
	if err != nil {
		return nil, nil, err
	}

	doc = core.NewDocument(p, rel, filepath.Base(p), string(data))
	meta, warn := parseFrontmatter(data)
	doc.Metadata = meta
	doc.Tags = metadataTags(meta)
	doc.Group = metadataGroup(meta, s.config.DefaultGroup)
	return doc, warn, nil
}

// LoadMedia returns a loader reading media files from dir.
func LoadMedia(dir string) core.MediaLoader {
	return func(name string) ([]byte, error) {
		return os.ReadFile(filepath.Join(dir, filepath.FromSlash(name)))
	}
}
