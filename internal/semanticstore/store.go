// Package semanticstore implements the TF-IDF engine's persistent cache: a
// single content-hash-keyed file at <repo>/.omen/search.db, holding a version
// byte followed by a gob-encoded payload. Re-indexing skips extraction for
// files whose content hash is unchanged, and re-fits the whole corpus
// whenever any file was added, changed, or removed, so the fitted vocabulary
// never drifts.
package semanticstore

import (
	"bytes"
	"encoding/gob"
	"hash/fnv"
	"os"
	"path/filepath"
	"sort"

	"github.com/panbanda/omen/internal/errkind"
	"github.com/panbanda/omen/internal/model"
	"github.com/panbanda/omen/internal/semantic"
)

// formatVersion is the single byte prefixed to every cache file. A reader
// encountering an unknown version treats the file as absent and rebuilds.
const formatVersion byte = 1

// dirName and fileName together locate the cache file under a repository
// root: <repo>/.omen/search.db.
const (
	dirName  = ".omen"
	fileName = "search.db"
)

// fileEntry is one cached file's extracted documents and their already-
// fitted vectors, keyed externally by repository-relative path.
type fileEntry struct {
	ContentHash string
	Documents   []model.Document
	Vectors     []model.SparseVector
}

// onDisk is the gob payload following the version byte.
type onDisk struct {
	VocabFingerprint uint64
	Terms            []string
	IDF              []float32
	Entries          map[string]fileEntry
}

// Store manages the on-disk cache for one repository root.
type Store struct {
	path     string
	state    onDisk
	maxVocab int
}

// SetMaxVocab overrides the vocabulary cap used on the next refit, letting
// a configured semantic.max_vocab override the engine's package default.
// A non-positive value restores the default.
func (s *Store) SetMaxVocab(n int) { s.maxVocab = n }

// Path returns the cache file path under repoRoot (<repo>/.omen/search.db).
func Path(repoRoot string) string {
	return filepath.Join(repoRoot, dirName, fileName)
}

// Open loads the cache for repoRoot, or returns an empty Store if no cache
// file exists yet (cold start) or the file carries an unrecognized version
// (treated as absent rather than a hard error).
func Open(repoRoot string) (*Store, error) {
	path := Path(repoRoot)

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &Store{path: path, state: onDisk{Entries: map[string]fileEntry{}}}, nil
	}
	if err != nil {
		return nil, errkind.Wrap(errkind.Io, "read semantic cache", err)
	}

	if len(data) == 0 || data[0] != formatVersion {
		return &Store{path: path, state: onDisk{Entries: map[string]fileEntry{}}}, nil
	}

	var state onDisk
	if err := gob.NewDecoder(bytes.NewReader(data[1:])).Decode(&state); err != nil {
		return nil, errkind.Wrap(errkind.Io, "decode semantic cache", err)
	}
	if state.Entries == nil {
		state.Entries = map[string]fileEntry{}
	}

	return &Store{path: path, state: state}, nil
}

// Extractor turns one file's current content into zero or more indexed
// documents (typically one per top-level symbol).
type Extractor func(path string) ([]model.Document, error)

// FileSet maps each file currently in scope to its content hash.
type FileSet map[string]string

// Reindex brings the cache up to date against the given file set and
// returns a fitted Engine over the resulting corpus. Files whose hash is
// unchanged from the last index skip extraction entirely; files absent
// from fileSet have their cache entries dropped. force wipes all cached
// entries first, forcing full re-extraction and re-fit regardless of
// hashes.
func (s *Store) Reindex(fileSet FileSet, extract Extractor, force bool) (*semantic.Engine, error) {
	if force {
		s.state.Entries = map[string]fileEntry{}
	}

	dirty := false

	next := make(map[string]fileEntry, len(fileSet))
	for path, hash := range fileSet {
		if existing, ok := s.state.Entries[path]; ok && existing.ContentHash == hash {
			next[path] = existing
			continue
		}

		docs, err := extract(path)
		if err != nil {
			return nil, err
		}

		next[path] = fileEntry{ContentHash: hash, Documents: docs}
		dirty = true
	}

	if len(next) != len(s.state.Entries) {
		dirty = true
	}

	s.state.Entries = next

	if !dirty && s.state.Terms != nil {
		return s.restoreEngine(), nil
	}

	return s.refit(), nil
}

// Engine returns a fitted Engine from the store's current state without
// reindexing, or nil if the store has never been fitted.
func (s *Store) Engine() *semantic.Engine {
	if s.state.Terms == nil {
		return nil
	}
	return s.restoreEngine()
}

func (s *Store) restoreEngine() *semantic.Engine {
	var docs []model.DocMetadata
	var vectors []model.SparseVector

	for _, path := range sortedKeys(s.state.Entries) {
		entry := s.state.Entries[path]
		for i, d := range entry.Documents {
			docs = append(docs, d.Metadata)
			if i < len(entry.Vectors) {
				vectors = append(vectors, entry.Vectors[i])
			} else {
				vectors = append(vectors, model.SparseVector{})
			}
		}
	}

	return semantic.Restore(s.state.Terms, s.state.IDF, vectors, docs)
}

func (s *Store) refit() *semantic.Engine {
	var allDocs []model.Document
	for _, path := range sortedKeys(s.state.Entries) {
		allDocs = append(allDocs, s.state.Entries[path].Documents...)
	}

	engine := semantic.FitN(allDocs, s.maxVocab)

	s.state.Terms = engine.Terms()
	s.state.IDF = engine.IDF()
	s.state.VocabFingerprint = fingerprint(s.state.Terms)

	vectors := engine.Vectors()
	offset := 0
	for _, path := range sortedKeys(s.state.Entries) {
		entry := s.state.Entries[path]
		entry.Vectors = vectors[offset : offset+len(entry.Documents)]
		offset += len(entry.Documents)
		s.state.Entries[path] = entry
	}

	return engine
}

// Save writes the cache to disk, creating its parent directory if needed.
func (s *Store) Save() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return errkind.Wrap(errkind.Io, "create semantic cache directory", err)
	}

	var buf bytes.Buffer
	buf.WriteByte(formatVersion)

	if err := gob.NewEncoder(&buf).Encode(s.state); err != nil {
		return errkind.Wrap(errkind.Io, "encode semantic cache", err)
	}

	if err := os.WriteFile(s.path, buf.Bytes(), 0o644); err != nil {
		return errkind.Wrap(errkind.Io, "write semantic cache", err)
	}

	return nil
}

// Wipe deletes the on-disk cache file and clears in-memory state,
// implementing the --force "wipe the store first" behavior.
func (s *Store) Wipe() error {
	s.state = onDisk{Entries: map[string]fileEntry{}}

	err := os.Remove(s.path)
	if err != nil && !os.IsNotExist(err) {
		return errkind.Wrap(errkind.Io, "remove semantic cache", err)
	}

	return nil
}

// VocabFingerprint reports the FNV-64a fingerprint of the currently fitted
// vocabulary's sorted term list, for diagnostics.
func (s *Store) VocabFingerprint() uint64 { return s.state.VocabFingerprint }

func fingerprint(terms []string) uint64 {
	sorted := make([]string, len(terms))
	copy(sorted, terms)
	sort.Strings(sorted)

	h := fnv.New64a()
	for _, t := range sorted {
		_, _ = h.Write([]byte(t))
		_, _ = h.Write([]byte{0})
	}
	return h.Sum64()
}

func sortedKeys(m map[string]fileEntry) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
