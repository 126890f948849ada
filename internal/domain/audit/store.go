package audit

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"
)

// Store persists run records.
type Store interface {
	// Append records a run
	Append(ctx context.Context, rec RunRecord) error

	// Query returns matching runs, newest first
	Query(ctx context.Context, filter QueryFilter) ([]RunRecord, error)

	// Close releases any resources
	Close() error
}

const (
	currentFile   = "runs.jsonl"
	rotatedPrefix = "runs-"
)

// FileStoreConfig configures the file store.
type FileStoreConfig struct {
	// Dir is the directory for history files
	Dir string

	// MaxSize is the size of runs.jsonl that triggers rotation (default: 5MB)
	MaxSize int64

	// MaxRotations is the number of rotated files to keep (default: 5)
	MaxRotations int

	// Now is the clock used to name rotated files
	Now func() time.Time
}

// FileStore appends run records to <dir>/runs.jsonl, rotating it to
// runs-<timestamp>.jsonl once it exceeds MaxSize.
type FileStore struct {
	mu       sync.Mutex
	dir      string
	maxSize  int64
	rotation int
	now      func() time.Time
	file     *os.File
	size     int64
}

// NewFileStore creates the directory if needed and opens the history file.
func NewFileStore(cfg FileStoreConfig) (*FileStore, error) {
	if cfg.Dir == "" {
		return nil, fmt.Errorf("history directory is empty")
	}
	if cfg.MaxSize <= 0 {
		cfg.MaxSize = 5 * 1024 * 1024
	}
	if cfg.MaxRotations <= 0 {
		cfg.MaxRotations = 5
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if err := os.MkdirAll(cfg.Dir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}

	s := &FileStore{
		dir:      cfg.Dir,
		maxSize:  cfg.MaxSize,
		rotation: cfg.MaxRotations,
		now:      cfg.Now,
	}
	if err := s.openOrCreate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Append writes rec as one JSON line and syncs the file.
func (s *FileStore) Append(_ context.Context, rec RunRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.file == nil {
		return fmt.Errorf("history store is closed")
	}
	if s.size >= s.maxSize {
		if err := s.rotate(); err != nil {
			return fmt.Errorf("failed to rotate history: %w", err)
		}
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal run record: %w", err)
	}
	data = append(data, '\n')

	n, err := s.file.Write(data)
	if err != nil {
		return fmt.Errorf("failed to write run record: %w", err)
	}
	s.size += int64(n)
	return s.file.Sync()
}

// Query reads every history file and returns matching runs, newest first.
func (s *FileStore) Query(_ context.Context, filter QueryFilter) ([]RunRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	files, err := s.listFiles()
	if err != nil {
		return nil, err
	}

	var result []RunRecord
	for i := len(files) - 1; i >= 0; i-- {
		records, err := readFile(files[i])
		if err != nil {
			continue // Skip unreadable files
		}
		for j := len(records) - 1; j >= 0; j-- {
			if !filter.Matches(records[j]) {
				continue
			}
			result = append(result, records[j])
			if filter.Limit > 0 && len(result) >= filter.Limit {
				return result, nil
			}
		}
	}
	return result, nil
}

// Close releases the file handle.
func (s *FileStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.file == nil {
		return nil
	}
	err := s.file.Close()
	s.file = nil
	return err
}

// Path returns the current history file.
func (s *FileStore) Path() string {
	return filepath.Join(s.dir, currentFile)
}

func (s *FileStore) openOrCreate() error {
	file, err := os.OpenFile(s.Path(), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o640)
	if err != nil {
		return fmt.Errorf("failed to open history: %w", err)
	}
	info, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return fmt.Errorf("failed to stat history: %w", err)
	}
	s.file = file
	s.size = info.Size()
	return nil
}

func (s *FileStore) rotate() error {
	if err := s.file.Close(); err != nil {
		return err
	}
	s.file = nil

	rotated := filepath.Join(s.dir, fmt.Sprintf("%s%s.jsonl", rotatedPrefix, s.now().UTC().Format("20060102-150405.000")))
	if err := os.Rename(s.Path(), rotated); err != nil && !os.IsNotExist(err) {
		return err
	}
	s.pruneRotated()
	return s.openOrCreate()
}

// pruneRotated removes the oldest rotated files beyond the limit.
func (s *FileStore) pruneRotated() {
	files, err := s.listFiles()
	if err != nil {
		return
	}
	var rotated []string
	for _, f := range files {
		if filepath.Base(f) != currentFile {
			rotated = append(rotated, f)
		}
	}
	if len(rotated) > s.rotation {
		for _, f := range rotated[:len(rotated)-s.rotation] {
			_ = os.Remove(f)
		}
	}
}

// listFiles returns history files oldest first; runs.jsonl sorts last.
func (s *FileStore) listFiles() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && filepath.Ext(entry.Name()) == ".jsonl" {
			files = append(files, filepath.Join(s.dir, entry.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

func readFile(path string) ([]RunRecord, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = file.Close() }()

	var records []RunRecord
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		var rec RunRecord
		if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
			continue // Skip malformed lines
		}
		records = append(records, rec)
	}
	return records, scanner.Err()
}

// MemoryStore implements Store in memory (for testing).
type MemoryStore struct {
	mu      sync.RWMutex
	records []RunRecord
}

// NewMemoryStore creates a new in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Append records a run.
func (s *MemoryStore) Append(_ context.Context, rec RunRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, rec)
	return nil
}

// Query returns matching runs, newest first.
func (s *MemoryStore) Query(_ context.Context, filter QueryFilter) ([]RunRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []RunRecord
	for i := len(s.records) - 1; i >= 0; i-- {
		if filter.Matches(s.records[i]) {
			result = append(result, s.records[i])
			if filter.Limit > 0 && len(result) >= filter.Limit {
				break
			}
		}
	}
	return result, nil
}

// Close is a no-op for the memory store.
func (s *MemoryStore) Close() error {
	return nil
}

// Records returns all stored records in append order.
func (s *MemoryStore) Records() []RunRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]RunRecord, len(s.records))
	copy(out, s.records)
	return out
}

// Ensure implementations satisfy Store.
var (
	_ Store = (*FileStore)(nil)
	_ Store = (*MemoryStore)(nil)
)
