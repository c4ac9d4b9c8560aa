package backup

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path"

	"github.com/questlog/questlog/internal/questlog"
	"github.com/questlog/questlog/internal/questlog/repository"
	"github.com/questlog/questlog/internal/storage"
	"github.com/questlog/questlog/pkg/logger"
	"github.com/questlog/questlog/pkg/metrics"
)

// ObjectStore is the subset of object storage the backup service needs.
// It is satisfied by *storage.MinIOStorage and by test fakes.
type ObjectStore interface {
	UploadFile(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error
	DownloadFile(ctx context.Context, key string) (io.ReadCloser, error)
}

// Service copies quest logs to object storage under <prefix>/<id>.quest and back.
type Service struct {
	logs   repository.Repository
	store  ObjectStore
	prefix string
}

func NewService(logs repository.Repository, store ObjectStore, prefix string) *Service {
	if prefix == "" {
		prefix = repository.LogsCollection
	}
	return &Service{logs: logs, store: store, prefix: prefix}
}

func (s *Service) key(id string) string {
	return path.Join(s.prefix, id+repository.Ext)
}

// Run uploads every readable log and returns how many were written. It stops at
// the first upload failure.
func (s *Service) Run(ctx context.Context) (int, error) {
	docs, err := s.logs.List(ctx)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, d := range docs {
		b, err := json.MarshalIndent(d, "", "  ")
		if err != nil {
			metrics.BackupObjects.WithLabelValues("error").Inc()
			return n, fmt.Errorf("%w: encode %q: %w", questlog.ErrStorage, d.ID, err)
		}
		if err := s.store.UploadFile(ctx, s.key(d.ID), bytes.NewReader(b), int64(len(b)), "application/json"); err != nil {
			metrics.BackupObjects.WithLabelValues("error").Inc()
			return n, fmt.Errorf("%w: upload %q: %w", questlog.ErrStorage, d.ID, err)
		}
		metrics.BackupObjects.WithLabelValues("ok").Inc()
		n++
	}
	logger.Infof("backed up %d quest logs to %s/", n, s.prefix)
	return n, nil
}

// Restore reads the backed up copy of id and overwrites the stored log with it.
func (s *Service) Restore(ctx context.Context, id string) (*questlog.QuestLog, error) {
	if err := questlog.ValidateID(id); err != nil {
		return nil, err
	}
	rc, err := s.store.DownloadFile(ctx, s.key(id))
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil, fmt.Errorf("backup of %q: %w", id, questlog.ErrNotFound)
		}
		return nil, fmt.Errorf("%w: download %q: %w", questlog.ErrStorage, id, err)
	}
	defer rc.Close()
	var doc questlog.QuestLog
	if err := json.NewDecoder(rc).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: decode backup %q: %w", questlog.ErrStorage, id, err)
	}
	if doc.ID != id {
		return nil, fmt.Errorf("%w: backup %q holds log %q", questlog.ErrStorage, id, doc.ID)
	}
	if err := s.logs.Put(ctx, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}
