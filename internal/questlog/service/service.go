package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"

	"github.com/google/uuid"
	"github.com/questlog/questlog/internal/questlog"
	"github.com/questlog/questlog/internal/questlog/repository"
	"github.com/questlog/questlog/pkg/logger"
	"github.com/questlog/questlog/pkg/metrics"
)

// maxIDAttempts bounds how many fresh ids are drawn before giving up on a collision.
const maxIDAttempts = 5

var whitespace = regexp.MustCompile(`\s+`)

// Service implements the quest log operations on top of two collections.
type Service struct {
	logs      repository.Repository
	templates repository.Repository
	newID     func() string
	now       func() string
}

// NewService returns a Service over the given logs and templates repositories.
func NewService(logs, templates repository.Repository) *Service {
	return &Service{logs: logs, templates: templates, newID: uuid.NewString, now: questlog.Now}
}

// NewMemoryService returns a Service backed by in-memory repositories.
func NewMemoryService() *Service {
	return NewService(repository.NewMemoryRepo(), repository.NewMemoryRepo())
}

// observe records the outcome of op and passes err through.
func observe(op string, err error) error {
	result := "ok"
	switch {
	case err == nil:
	case errors.Is(err, questlog.ErrNotFound):
		result = "not_found"
	case errors.Is(err, questlog.ErrInvalidInput):
		result = "invalid"
	default:
		result = "error"
	}
	metrics.StoreOperations.WithLabelValues(op, result).Inc()
	return err
}

// ListLogs returns the summary view of every readable log.
func (s *Service) ListLogs(ctx context.Context) ([]questlog.LogSummary, error) {
	docs, err := s.logs.List(ctx)
	if err != nil {
		return nil, observe("list_logs", err)
	}
	out := make([]questlog.LogSummary, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.Summary())
	}
	return out, observe("list_logs", nil)
}

func (s *Service) GetLog(ctx context.Context, id string) (*questlog.QuestLog, error) {
	if err := questlog.ValidateID(id); err != nil {
		return nil, observe("get_log", err)
	}
	d, err := s.logs.Get(ctx, id)
	return d, observe("get_log", err)
}

// SaveLog overwrites the log stored under doc.ID. The updated stamp is kept as sent.
func (s *Service) SaveLog(ctx context.Context, doc *questlog.QuestLog) error {
	if err := doc.Validate(); err != nil {
		return observe("save_log", err)
	}
	return observe("save_log", s.logs.Put(ctx, doc))
}

func (s *Service) DeleteLog(ctx context.Context, id string) error {
	if err := questlog.ValidateID(id); err != nil {
		return observe("delete_log", err)
	}
	return observe("delete_log", s.logs.Delete(ctx, id))
}

// ListTemplates returns the summary view of every readable template.
// It never seeds; see SeedTemplates.
func (s *Service) ListTemplates(ctx context.Context) ([]questlog.TemplateSummary, error) {
	docs, err := s.templates.List(ctx)
	if err != nil {
		return nil, observe("list_templates", err)
	}
	out := make([]questlog.TemplateSummary, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.TemplateSummary())
	}
	return out, observe("list_templates", nil)
}

// SeedTemplates writes the built-in catalogue when the templates collection is
// empty and reports how many templates were written.
func (s *Service) SeedTemplates(ctx context.Context) (int, error) {
	n, err := s.templates.Count(ctx)
	if err != nil {
		return 0, observe("seed_templates", err)
	}
	if n > 0 {
		return 0, observe("seed_templates", nil)
	}
	written := 0
	for _, t := range questlog.BuiltinTemplates(s.now()) {
		if err := s.templates.Put(ctx, t); err != nil {
			return written, observe("seed_templates", fmt.Errorf("seed %q: %w", t.ID, err))
		}
		written++
	}
	metrics.TemplatesSeeded.Add(float64(written))
	logger.Infof("seeded %d built-in templates", written)
	return written, observe("seed_templates", nil)
}

// ImportTemplate copies the template into a new log with a fresh id and stamps.
func (s *Service) ImportTemplate(ctx context.Context, templateID string) (*questlog.QuestLog, error) {
	if err := questlog.ValidateID(templateID); err != nil {
		return nil, observe("import_template", err)
	}
	t, err := s.templates.Get(ctx, templateID)
	if err != nil {
		return nil, observe("import_template", err)
	}
	id, err := s.freshID(ctx)
	if err != nil {
		return nil, observe("import_template", err)
	}
	log := t.Clone()
	log.ID = id
	log.Created = s.now()
	log.Updated = log.Created
	if err := s.logs.Put(ctx, log); err != nil {
		return nil, observe("import_template", err)
	}
	logger.Infof("imported template %s as log %s", templateID, id)
	return log, observe("import_template", nil)
}

// ImportLog stores an uploaded .quest document. When its id is already taken the
// document gets a fresh id and " (Imported)" is appended to its name.
func (s *Service) ImportLog(ctx context.Context, doc *questlog.QuestLog) (*questlog.QuestLog, error) {
	if err := doc.Validate(); err != nil {
		return nil, observe("import_log", err)
	}
	if doc.Quests == nil {
		return nil, observe("import_log", fmt.Errorf("%w: missing quests", questlog.ErrInvalidInput))
	}
	log := doc.Clone()
	_, err := s.logs.Get(ctx, log.ID)
	switch {
	case err == nil:
		id, err := s.freshID(ctx)
		if err != nil {
			return nil, observe("import_log", err)
		}
		log.ID = id
		log.Name += " (Imported)"
	case !errors.Is(err, questlog.ErrNotFound):
		return nil, observe("import_log", err)
	}
	if err := s.logs.Put(ctx, log); err != nil {
		return nil, observe("import_log", err)
	}
	return log, observe("import_log", nil)
}

// ExportLog renders the stored log as a downloadable .quest file.
func (s *Service) ExportLog(ctx context.Context, id string) (string, []byte, error) {
	log, err := s.GetLog(ctx, id)
	if err != nil {
		return "", nil, err
	}
	b, err := json.MarshalIndent(log, "", "  ")
	if err != nil {
		return "", nil, fmt.Errorf("%w: encode %q: %w", questlog.ErrStorage, id, err)
	}
	return ExportFilename(log), b, nil
}

// ExportFilename derives the download name from the log name.
func ExportFilename(log *questlog.QuestLog) string {
	name := log.Name
	if name == "" {
		name = log.ID
	}
	return whitespace.ReplaceAllString(name, "_") + repository.Ext
}

// freshID draws ids until one is not used by any existing log.
func (s *Service) freshID(ctx context.Context) (string, error) {
	for i := 0; i < maxIDAttempts; i++ {
		id := s.newID()
		_, err := s.logs.Get(ctx, id)
		if errors.Is(err, questlog.ErrNotFound) {
			return id, nil
		}
		if err == nil {
			logger.Warnf("generated id %s already in use, retrying", id)
		}
	}
	return "", fmt.Errorf("%w: could not allocate a unique log id", questlog.ErrStorage)
}
