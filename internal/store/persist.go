package store

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/hassaaali/research-chatbot/internal/models"
	"github.com/hassaaali/research-chatbot/internal/vector"
)

// The three artifacts of one generation, plus a CURRENT pointer file. A
// reader follows CURRENT to a complete generation, so a crash between writes
// can never expose the index without its matching metadata or payloads: the
// new generation only becomes visible when the CURRENT rename lands.
const currentFileName = "CURRENT"

func indexFileName(gen uint64) string    { return fmt.Sprintf("index-%06d.bin", gen) }
func metadataFileName(gen uint64) string { return fmt.Sprintf("metadata-%06d.json", gen) }
func chunksFileName(gen uint64) string   { return fmt.Sprintf("chunks-%06d.json", gen) }

// persistLocked writes the index, metadata table, and chunk payloads as a new
// generation, then commits it by atomically replacing CURRENT. Caller holds
// the write lock.
func (s *Store) persistLocked() error {
	if s.dir == "" {
		return nil
	}
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("create index dir: %w", err)
	}

	gen := s.generation + 1
	writes := []struct {
		name  string
		write func(io.Writer) error
	}{
		{indexFileName(gen), s.index.WriteTo},
		{metadataFileName(gen), func(w io.Writer) error {
			return json.NewEncoder(w).Encode(s.metadata)
		}},
		{chunksFileName(gen), func(w io.Writer) error {
			return json.NewEncoder(w).Encode(s.chunks)
		}},
	}
	for _, art := range writes {
		if err := writeFileAtomic(filepath.Join(s.dir, art.name), art.write); err != nil {
			return err
		}
	}
	if err := writeFileAtomic(filepath.Join(s.dir, currentFileName), func(w io.Writer) error {
		_, err := io.WriteString(w, strconv.FormatUint(gen, 10))
		return err
	}); err != nil {
		return err
	}
	syncDir(s.dir)

	s.generation = gen
	s.removeStaleGenerations(gen)
	return nil
}

// load restores the generation referenced by CURRENT. A missing CURRENT means
// no store has been persisted yet and leaves the empty store in place.
func (s *Store) load() error {
	content, err := os.ReadFile(filepath.Join(s.dir, currentFileName))
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read CURRENT: %w", err)
	}
	gen, err := strconv.ParseUint(strings.TrimSpace(string(content)), 10, 64)
	if err != nil {
		return fmt.Errorf("parse CURRENT: %w", err)
	}

	indexFile, err := os.Open(filepath.Join(s.dir, indexFileName(gen)))
	if err != nil {
		return fmt.Errorf("open index artifact: %w", err)
	}
	defer indexFile.Close()
	idx, err := vector.ReadFlatIndex(indexFile, s.embedder.Dimensions())
	if err != nil {
		return fmt.Errorf("read index artifact: %w", err)
	}

	var metadata []models.ChunkMeta
	if err := readJSONFile(filepath.Join(s.dir, metadataFileName(gen)), &metadata); err != nil {
		return fmt.Errorf("read metadata artifact: %w", err)
	}
	chunks := make(map[string]map[int]string)
	if err := readJSONFile(filepath.Join(s.dir, chunksFileName(gen)), &chunks); err != nil {
		return fmt.Errorf("read chunks artifact: %w", err)
	}

	if len(metadata) != idx.Size() {
		return fmt.Errorf("artifacts inconsistent: %d metadata entries for %d vectors", len(metadata), idx.Size())
	}
	for pos, meta := range metadata {
		if _, ok := chunks[meta.DocumentID][meta.ChunkIndex]; !ok {
			return fmt.Errorf("artifacts inconsistent: position %d has no chunk payload", pos)
		}
	}

	s.index = idx
	s.metadata = metadata
	s.chunks = chunks
	s.generation = gen
	s.logger.Info("loaded vector store",
		zap.Uint64("generation", gen),
		zap.Int("total_vectors", idx.Size()),
	)
	return nil
}

// removeStaleGenerations deletes artifact files from generations other than
// keep. Best effort; leftover files are harmless.
func (s *Store) removeStaleGenerations(keep uint64) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return
	}
	keepNames := map[string]bool{
		indexFileName(keep):    true,
		metadataFileName(keep): true,
		chunksFileName(keep):   true,
		currentFileName:        true,
	}
	for _, e := range entries {
		name := e.Name()
		if keepNames[name] {
			continue
		}
		if strings.HasPrefix(name, "index-") || strings.HasPrefix(name, "metadata-") || strings.HasPrefix(name, "chunks-") {
			_ = os.Remove(filepath.Join(s.dir, name))
		}
	}
}

// writeFileAtomic writes via a temp file in the same directory, fsyncs, and
// renames into place.
func writeFileAtomic(path string, write func(io.Writer) error) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
	}
	if err := write(tmp); err != nil {
		cleanup()
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	if err := tmp.Sync(); err != nil {
		cleanup()
		return fmt.Errorf("sync %s: %w", filepath.Base(path), err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close %s: %w", filepath.Base(path), err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("rename %s: %w", filepath.Base(path), err)
	}
	return nil
}

// syncDir fsyncs a directory so renames survive a crash. Best effort; some
// platforms do not support syncing directories.
func syncDir(dir string) {
	d, err := os.Open(dir)
	if err != nil {
		return
	}
	_ = d.Sync()
	_ = d.Close()
}

func readJSONFile(path string, v interface{}) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return json.NewDecoder(f).Decode(v)
}
