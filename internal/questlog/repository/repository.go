package repository

import (
	"context"

	"github.com/questlog/questlog/internal/questlog"
)

// Collection names used by the quest log store.
const (
	LogsCollection      = "logs"
	TemplatesCollection = "templates"
)

// Repository persists one named collection of quest log documents keyed by id.
// Put is a full overwrite; there is no merge or patch.
type Repository interface {
	List(ctx context.Context) ([]*questlog.QuestLog, error)
	Get(ctx context.Context, id string) (*questlog.QuestLog, error)
	Put(ctx context.Context, doc *questlog.QuestLog) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}
