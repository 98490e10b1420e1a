// Package bookmark implements the directory-alias store from spec.md §6,
// a direct Go port of the original tsh's bookmark.c: a plain-text file of
// alternating alias/path lines at $HOME/.tshinfo, loaded eagerly at
// startup and rewritten in full on every mutation.
package bookmark

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// DefaultFilename is the bookmark file's name inside $HOME, matching the
// original ".tshinfo".
const DefaultFilename = ".tshinfo"

// DefaultPath returns $HOME/.tshinfo, or "" if $HOME can't be resolved.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ""
	}
	return filepath.Join(home, DefaultFilename)
}

// Store is an ordered alias -> path map. Insertion order is preserved so
// `marks` lists bookmarks in the order they were added, matching the
// original's list_bookmarks traversal of a singly-linked list.
type Store struct {
	path    string
	order   []string
	entries map[string]string
}

// New creates an empty store bound to path. Load must be called to
// populate it from disk.
func New(path string) *Store {
	if path == "" {
		path = DefaultPath()
	}
	return &Store{path: path, entries: make(map[string]string)}
}

// Load reads the bookmark file, tolerating a missing file exactly like
// the original (treated as an empty store, not an error).
func (s *Store) Load() error {
	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer f.Close()

	s.order = nil
	s.entries = make(map[string]string)

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		alias := scanner.Text()
		if !scanner.Scan() {
			break // truncated file: odd line count, ignore the dangling alias
		}
		path := scanner.Text()
		s.set(alias, path)
	}
	return scanner.Err()
}

// Save rewrites the bookmark file in full, alias then path per line, in
// insertion order.
func (s *Store) Save() error {
	if s.path == "" {
		return fmt.Errorf("bookmark: no file path configured")
	}
	f, err := os.Create(s.path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, alias := range s.order {
		fmt.Fprintln(w, alias)
		fmt.Fprintln(w, s.entries[alias])
	}
	return w.Flush()
}

func (s *Store) set(alias, path string) {
	if _, exists := s.entries[alias]; !exists {
		s.order = append(s.order, alias)
	}
	s.entries[alias] = path
}

// Add records or overwrites an alias and persists the store.
func (s *Store) Add(alias, path string) error {
	s.set(alias, path)
	return s.Save()
}

// Remove deletes an alias and persists the store. Reports whether the
// alias existed.
func (s *Store) Remove(alias string) (bool, error) {
	if _, ok := s.entries[alias]; !ok {
		return false, nil
	}
	delete(s.entries, alias)
	for i, a := range s.order {
		if a == alias {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true, s.Save()
}

// Get resolves an alias to its path. ok is false on miss.
func (s *Store) Get(alias string) (string, bool) {
	path, ok := s.entries[alias]
	return path, ok
}

// Pair is one alias/path entry.
type Pair struct {
	Alias, Path string
}

// List returns every bookmark in insertion order, for the `marks` builtin.
func (s *Store) List() []Pair {
	out := make([]Pair, 0, len(s.order))
	for _, alias := range s.order {
		out = append(out, Pair{Alias: alias, Path: s.entries[alias]})
	}
	return out
}

// Sorted returns every bookmark sorted by alias.
func (s *Store) Sorted() []Pair {
	out := s.List()
	sort.Slice(out, func(i, j int) bool { return out[i].Alias < out[j].Alias })
	return out
}
