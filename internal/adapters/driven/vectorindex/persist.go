package vectorindex

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/docchat/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/docchat/internal/adapters/driven/vectorindex/migrations"
	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/logger"
)

// SchemaVersion is the on-disk format version written by Save.
const SchemaVersion = 1

// Meta keys.
const (
	metaDimensions = "dimensions"
	metaCount      = "count"
	metaModel      = "embedding_model"
	metaChecksum   = "checksum"
	metaSavedAt    = "saved_at"
)

// Save persists vectors and chunk metadata to path. The file is written
// next to path and renamed over it, so a crash never leaves a torn index.
func (i *Index) Save(ctx context.Context, path string) error {
	i.writeMu.Lock()
	defer i.writeMu.Unlock()

	snap, dims := i.current()
	if snap == nil {
		return domain.ErrIndexNotReady
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("creating index directory: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.Remove(tmp); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("removing stale temp index: %w", err)
	}

	if err := i.write(ctx, tmp, snap, dims); err != nil {
		_ = os.Remove(tmp)
		return err
	}

	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replacing index file: %w", err)
	}

	logger.Debug("vector index saved to %s (%d chunks)", path, len(snap.chunks))
	return nil
}

func (i *Index) write(ctx context.Context, path string, snap *snapshot, dims int) error {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("opening index file: %w", err)
	}
	defer db.Close()

	if err := sqlite.Migrate(ctx, db, migrations.FS); err != nil {
		return fmt.Errorf("creating index schema: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chunks (seq, id, source_path, filename, sequence_index, char_offset, text, embedding)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for n, c := range snap.chunks {
		if _, err := stmt.ExecContext(ctx, n, c.ID, c.SourcePath, c.Filename,
			c.SequenceIndex, c.Offset, c.Text, float32SliceToBytes(snap.vectors[n])); err != nil {
			return fmt.Errorf("writing chunk %d: %w", n, err)
		}
	}

	meta := map[string]string{
		metaDimensions: strconv.Itoa(dims),
		metaCount:      strconv.Itoa(len(snap.chunks)),
		metaModel:      i.embedder.ModelName(),
		metaChecksum:   checksum(snap),
		metaSavedAt:    time.Now().UTC().Format(time.RFC3339),
	}
	for key, value := range meta {
		if _, err := tx.ExecContext(ctx, "INSERT INTO meta (key, value) VALUES (?, ?)", key, value); err != nil {
			return fmt.Errorf("writing meta %s: %w", key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing index: %w", err)
	}
	return nil
}

// Load restores the index from path. A missing file returns false; a file
// that fails any structural or checksum check returns domain.ErrCorruptIndex
// and leaves the current contents untouched.
func (i *Index) Load(ctx context.Context, path string) (bool, error) {
	i.writeMu.Lock()
	defer i.writeMu.Unlock()

	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking index file: %w", err)
	}
	if info.IsDir() {
		return false, fmt.Errorf("%w: %s is a directory", domain.ErrCorruptIndex, path)
	}

	snap, dims, model, err := read(ctx, path)
	if err != nil {
		return false, err
	}

	if want := i.embedder.Dimensions(); want > 0 && len(snap.chunks) > 0 && dims != want {
		return false, fmt.Errorf("%w: index has %d dimensions, embedder %s produces %d",
			domain.ErrDimensionMismatch, dims, i.embedder.ModelName(), want)
	}
	if model != i.embedder.ModelName() {
		logger.Warn("index at %s was built with %q, current embedder is %q; consider a rebuild",
			path, model, i.embedder.ModelName())
	}

	i.swap(snap, dims)
	logger.Debug("vector index loaded from %s (%d chunks)", path, len(snap.chunks))
	return true, nil
}

func read(ctx context.Context, path string) (*snapshot, int, string, error) {
	corrupt := func(format string, args ...any) error {
		return fmt.Errorf("%w: %s: %s", domain.ErrCorruptIndex, path, fmt.Sprintf(format, args...))
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, 0, "", corrupt("open: %v", err)
	}
	defer db.Close()

	version, err := sqlite.SchemaVersion(ctx, db)
	if err != nil {
		return nil, 0, "", corrupt("%v", err)
	}
	if version != SchemaVersion {
		return nil, 0, "", corrupt("schema version %d, want %d", version, SchemaVersion)
	}

	meta := map[string]string{}
	rows, err := db.QueryContext(ctx, "SELECT key, value FROM meta")
	if err != nil {
		return nil, 0, "", corrupt("reading meta: %v", err)
	}
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			rows.Close()
			return nil, 0, "", corrupt("scanning meta: %v", err)
		}
		meta[key] = value
	}
	rows.Close()

	dims, err := strconv.Atoi(meta[metaDimensions])
	if err != nil || dims < 0 {
		return nil, 0, "", corrupt("invalid dimensions %q", meta[metaDimensions])
	}
	count, err := strconv.Atoi(meta[metaCount])
	if err != nil || count < 0 {
		return nil, 0, "", corrupt("invalid count %q", meta[metaCount])
	}

	rows, err = db.QueryContext(ctx, `
		SELECT id, source_path, filename, sequence_index, char_offset, text, embedding
		FROM chunks ORDER BY seq
	`)
	if err != nil {
		return nil, 0, "", corrupt("reading chunks: %v", err)
	}
	defer rows.Close()

	snap := &snapshot{
		chunks:  make([]domain.Chunk, 0, count),
		vectors: make([][]float32, 0, count),
	}
	for rows.Next() {
		var c domain.Chunk
		var blob []byte
		if err := rows.Scan(&c.ID, &c.SourcePath, &c.Filename, &c.SequenceIndex,
			&c.Offset, &c.Text, &blob); err != nil {
			return nil, 0, "", corrupt("scanning chunk: %v", err)
		}
		if len(blob) != dims*4 {
			return nil, 0, "", corrupt("chunk %s has %d vector bytes, want %d", c.ID, len(blob), dims*4)
		}
		snap.chunks = append(snap.chunks, c)
		snap.vectors = append(snap.vectors, bytesToFloat32Slice(blob))
	}
	if err := rows.Err(); err != nil {
		return nil, 0, "", corrupt("iterating chunks: %v", err)
	}

	if len(snap.chunks) != count {
		return nil, 0, "", corrupt("%d chunks stored, meta says %d", len(snap.chunks), count)
	}
	if sum := checksum(snap); sum != meta[metaChecksum] {
		return nil, 0, "", corrupt("checksum mismatch")
	}

	return snap, dims, meta[metaModel], nil
}

// checksum hashes every stored chunk column and vector in order. Fields are
// length prefixed so shifting bytes between adjacent columns changes the sum.
func checksum(snap *snapshot) string {
	h := sha256.New()
	var num [binary.MaxVarintLen64]byte
	writeInt := func(v int) {
		h.Write(num[:binary.PutVarint(num[:], int64(v))])
	}
	writeString := func(v string) {
		writeInt(len(v))
		h.Write([]byte(v))
	}
	for n, c := range snap.chunks {
		writeString(c.ID)
		writeString(c.SourcePath)
		writeString(c.Filename)
		writeInt(c.SequenceIndex)
		writeInt(c.Offset)
		writeString(c.Text)
		h.Write(float32SliceToBytes(snap.vectors[n]))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// float32SliceToBytes converts a []float32 to a little-endian byte slice.
func float32SliceToBytes(floats []float32) []byte {
	buf := make([]byte, len(floats)*4)
	for n, f := range floats {
		binary.LittleEndian.PutUint32(buf[n*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts a byte slice back to []float32.
func bytesToFloat32Slice(data []byte) []float32 {
	floats := make([]float32, len(data)/4)
	for n := range floats {
		floats[n] = math.Float32frombits(binary.LittleEndian.Uint32(data[n*4:]))
	}
	return floats
}
