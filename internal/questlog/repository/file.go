package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/questlog/questlog/internal/questlog"
	"github.com/questlog/questlog/pkg/logger"
)

// Ext is the filename extension of every stored document.
const Ext = ".quest"

// FileRepo stores each document as {id}.quest inside a single directory.
// Writers and deleters of the same id are serialized by a per-id lock; readers are not.
type FileRepo struct {
	dir string

	mu    sync.Mutex
	locks map[string]*idLock
}

// idLock is dropped from the table once no goroutine holds or waits on it.
type idLock struct {
	sync.Mutex
	refs int
}

// NewFileRepo returns a repository rooted at dir, creating the directory if needed.
func NewFileRepo(dir string) (*FileRepo, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: create %s: %w", questlog.ErrStorage, dir, err)
	}
	return &FileRepo{dir: dir, locks: make(map[string]*idLock)}, nil
}

// Dir returns the backing directory.
func (f *FileRepo) Dir() string { return f.dir }

func (f *FileRepo) path(id string) string {
	return filepath.Join(f.dir, id+Ext)
}

// lock acquires the mutex for id and returns its release func.
func (f *FileRepo) lock(id string) func() {
	f.mu.Lock()
	l, ok := f.locks[id]
	if !ok {
		l = &idLock{}
		f.locks[id] = l
	}
	l.refs++
	f.mu.Unlock()

	l.Lock()
	return func() {
		l.Unlock()
		f.mu.Lock()
		if l.refs--; l.refs == 0 {
			delete(f.locks, id)
		}
		f.mu.Unlock()
	}
}

func (f *FileRepo) entries() ([]fs.DirEntry, error) {
	all, err := os.ReadDir(f.dir)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", questlog.ErrStorage, f.dir, err)
	}
	out := all[:0]
	for _, e := range all {
		if e.IsDir() || !strings.HasSuffix(e.Name(), Ext) {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

// List parses every document in the directory. Unreadable or malformed files are
// logged and skipped.
func (f *FileRepo) List(ctx context.Context) ([]*questlog.QuestLog, error) {
	entries, err := f.entries()
	if err != nil {
		return nil, err
	}
	out := make([]*questlog.QuestLog, 0, len(entries))
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		doc, err := f.read(filepath.Join(f.dir, e.Name()))
		if err != nil {
			logger.Warnf("skipping %s: %v", e.Name(), err)
			continue
		}
		out = append(out, doc)
	}
	return out, nil
}

func (f *FileRepo) read(path string) (*questlog.QuestLog, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc questlog.QuestLog
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (f *FileRepo) Get(ctx context.Context, id string) (*questlog.QuestLog, error) {
	if err := questlog.ValidateID(id); err != nil {
		return nil, err
	}
	doc, err := f.read(f.path(id))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%q: %w", id, questlog.ErrNotFound)
		}
		return nil, fmt.Errorf("%w: read %q: %w", questlog.ErrStorage, id, err)
	}
	return doc, nil
}

// Put writes doc to a temp file and renames it over {id}.quest.
func (f *FileRepo) Put(ctx context.Context, doc *questlog.QuestLog) error {
	if err := doc.Validate(); err != nil {
		return err
	}
	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encode %q: %w", questlog.ErrStorage, doc.ID, err)
	}
	unlock := f.lock(doc.ID)
	defer unlock()

	tmp, err := os.CreateTemp(f.dir, "."+doc.ID+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: write %q: %w", questlog.ErrStorage, doc.ID, err)
	}
	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("%w: write %q: %w", questlog.ErrStorage, doc.ID, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("%w: write %q: %w", questlog.ErrStorage, doc.ID, err)
	}
	if err := os.Rename(tmp.Name(), f.path(doc.ID)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("%w: write %q: %w", questlog.ErrStorage, doc.ID, err)
	}
	return nil
}

func (f *FileRepo) Delete(ctx context.Context, id string) error {
	if err := questlog.ValidateID(id); err != nil {
		return err
	}
	unlock := f.lock(id)
	defer unlock()
	if err := os.Remove(f.path(id)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%q: %w", id, questlog.ErrNotFound)
		}
		return fmt.Errorf("%w: delete %q: %w", questlog.ErrStorage, id, err)
	}
	return nil
}

func (f *FileRepo) Count(ctx context.Context) (int, error) {
	entries, err := f.entries()
	if err != nil {
		return 0, err
	}
	return len(entries), nil
}
