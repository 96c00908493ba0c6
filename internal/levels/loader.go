// Package levels provides level discovery and loading.
// This package depends on sim but sim does not depend on levels.
package levels

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/vovakirdan/tui-slide/internal/levels/formats"
	"github.com/vovakirdan/tui-slide/internal/sim"
)

//go:embed builtin/*.yaml builtin/*.toml
var builtinFS embed.FS

// Level represents a complete level definition.
type Level struct {
	ID          string
	Name        string
	Description string
	Spec        sim.LevelSpec
	Metadata    map[string]string
	FilePath    string
}

// Title returns the display name, falling back to the ID.
func (l *Level) Title() string {
	if l.Name != "" {
		return l.Name
	}
	return l.ID
}

// NewBoard creates a board in the level's starting configuration.
func (l *Level) NewBoard(opts ...sim.Option) *sim.Board {
	return sim.NewBoard(l.Spec, opts...)
}

// LoadError describes why a level file could not be loaded.
type LoadError struct {
	Path  string
	Field string
	Msg   string
	Err   error
}

func (e *LoadError) Error() string {
	var b strings.Builder
	b.WriteString(e.Path)
	if e.Field != "" {
		b.WriteString(": ")
		b.WriteString(e.Field)
	}
	b.WriteString(": ")
	b.WriteString(e.Msg)
	return b.String()
}

func (e *LoadError) Unwrap() error { return e.Err }

// Loader handles loading levels from a file system.
type Loader struct {
	// Root is shown in file paths and error messages.
	Root string
	fsys fs.FS
}

// NewLoader creates a loader over fsys.
func NewLoader(root string, fsys fs.FS) *Loader {
	return &Loader{Root: root, fsys: fsys}
}

// NewDirLoader creates a loader over a directory on disk.
func NewDirLoader(dir string) *Loader {
	return NewLoader(dir, os.DirFS(dir))
}

// Builtin returns a loader over the levels compiled into the binary.
func Builtin() *Loader {
	sub, err := fs.Sub(builtinFS, "builtin")
	if err != nil {
		panic(fmt.Sprintf("levels: builtin levels: %v", err))
	}
	return NewLoader("builtin", sub)
}

// LoadAll recursively scans and loads all level files.
// Invalid files are skipped; use Check to report them.
// Returns levels sorted by ID for deterministic ordering.
func (l *Loader) LoadAll() ([]Level, error) {
	var levels []Level
	err := l.walk(func(p string) {
		if level, err := l.LoadFile(p); err == nil {
			levels = append(levels, level)
		}
	})
	if err != nil {
		return nil, err
	}

	sortLevels(levels)
	return dedupe(levels), nil
}

// Check loads every level file and returns one error per file that failed,
// plus one per duplicated ID.
func (l *Loader) Check() ([]error, error) {
	var (
		problems []error
		seen     = make(map[string]string)
	)
	err := l.walk(func(p string) {
		level, err := l.LoadFile(p)
		if err != nil {
			problems = append(problems, err)
			return
		}
		if prev, dup := seen[level.ID]; dup {
			problems = append(problems, &LoadError{
				Path:  level.FilePath,
				Field: "id",
				Msg:   fmt.Sprintf("duplicate level id %q (also in %s)", level.ID, prev),
			})
			return
		}
		seen[level.ID] = level.FilePath
	})
	return problems, err
}

func (l *Loader) walk(fn func(p string)) error {
	err := fs.WalkDir(l.fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !isSupportedExtension(strings.ToLower(path.Ext(p))) {
			return nil
		}
		fn(p)
		return nil
	})
	if err != nil {
		return fmt.Errorf("walking directory %s: %w", l.Root, err)
	}
	return nil
}

// LoadFile loads a single level file, given relative to the loader root.
func (l *Loader) LoadFile(p string) (Level, error) {
	display := path.Join(l.Root, p)

	data, err := fs.ReadFile(l.fsys, p)
	if err != nil {
		return Level{}, &LoadError{Path: display, Msg: "reading file", Err: err}
	}
	return parse(display, data)
}

// LoadByID loads a specific level by ID.
func (l *Loader) LoadByID(id string) (Level, error) {
	levels, err := l.LoadAll()
	if err != nil {
		return Level{}, err
	}
	return findByID(levels, id)
}

// ListIDs returns all level IDs in sorted order.
func (l *Loader) ListIDs() ([]string, error) {
	levels, err := l.LoadAll()
	if err != nil {
		return nil, err
	}
	return ids(levels), nil
}

// LoadPath loads a level file from anywhere on disk.
func LoadPath(p string) (Level, error) {
	data, err := os.ReadFile(p)
	if err != nil {
		return Level{}, &LoadError{Path: p, Msg: "reading file", Err: err}
	}
	return parse(p, data)
}

func parse(display string, data []byte) (Level, error) {
	parsed, err := formats.Parse(data, strings.ToLower(path.Ext(display)))
	if err != nil {
		le := &LoadError{Path: display, Msg: err.Error(), Err: err}
		var fe *formats.FieldError
		if errors.As(err, &fe) {
			le.Field, le.Msg = fe.Field, fe.Msg
		}
		return Level{}, le
	}

	id := parsed.ID
	if id == "" {
		base := filepath.Base(display)
		id = strings.TrimSuffix(base, filepath.Ext(base))
	}

	return Level{
		ID:          id,
		Name:        parsed.Name,
		Description: parsed.Description,
		Spec:        parsed.Spec,
		Metadata:    parsed.Metadata,
		FilePath:    display,
	}, nil
}

// Stack searches several loaders. Earlier loaders win when IDs collide,
// so a user directory can override a builtin level.
type Stack []*Loader

// LoadAll merges the levels of every loader, sorted by ID.
func (s Stack) LoadAll() ([]Level, error) {
	var all []Level
	for _, l := range s {
		levels, err := l.LoadAll()
		if err != nil {
			return nil, err
		}
		all = append(all, levels...)
	}
	sortLevels(all)
	return dedupe(all), nil
}

// LoadByID loads a specific level by ID.
func (s Stack) LoadByID(id string) (Level, error) {
	levels, err := s.LoadAll()
	if err != nil {
		return Level{}, err
	}
	return findByID(levels, id)
}

// ListIDs returns all level IDs in sorted order.
func (s Stack) ListIDs() ([]string, error) {
	levels, err := s.LoadAll()
	if err != nil {
		return nil, err
	}
	return ids(levels), nil
}

// sortLevels orders by ID; the stable sort keeps loader order for
// duplicates so dedupe keeps the first.
func sortLevels(levels []Level) {
	sort.SliceStable(levels, func(i, j int) bool {
		return levels[i].ID < levels[j].ID
	})
}

func dedupe(levels []Level) []Level {
	out := levels[:0]
	for i, lvl := range levels {
		if i > 0 && lvl.ID == levels[i-1].ID {
			continue
		}
		out = append(out, lvl)
	}
	return out
}

func findByID(levels []Level, id string) (Level, error) {
	for _, lvl := range levels {
		if lvl.ID == id {
			return lvl, nil
		}
	}
	return Level{}, fmt.Errorf("level not found: %s", id)
}

func ids(levels []Level) []string {
	out := make([]string, len(levels))
	for i, lvl := range levels {
		out[i] = lvl.ID
	}
	return out
}

// isSupportedExtension checks if extension is supported.
func isSupportedExtension(ext string) bool {
	for _, supported := range formats.FormatExtensions() {
		if ext == supported {
			return true
		}
	}
	return false
}
