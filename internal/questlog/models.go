package questlog

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrStorage      = errors.New("storage error")
)

// TimeFormat is the sortable textual format used for created/updated stamps.
const TimeFormat = "2006-01-02T15:04:05.000Z07:00"

// Now returns the current time rendered in TimeFormat (UTC).
func Now() string {
	return time.Now().UTC().Format(TimeFormat)
}

// QuestLog is the persisted quest log document. Templates share the same shape.
type QuestLog struct {
	ID          string  `json:"id" bson:"id"`
	Name        string  `json:"name" bson:"name"`
	Description string  `json:"description,omitempty" bson:"description,omitempty"`
	Quests      []Quest `json:"quests" bson:"quests"`
	Created     string  `json:"created,omitempty" bson:"created,omitempty"`
	Updated     string  `json:"updated,omitempty" bson:"updated,omitempty"`
}

type Quest struct {
	ID          string      `json:"id" bson:"id"`
	Title       string      `json:"title" bson:"title"`
	Description string      `json:"description" bson:"description"`
	Objectives  []Objective `json:"objectives" bson:"objectives"`
	Created     string      `json:"created,omitempty" bson:"created,omitempty"`
	Updated     string      `json:"updated,omitempty" bson:"updated,omitempty"`
}

type Objective struct {
	ID        string `json:"id" bson:"id"`
	Title     string `json:"title" bson:"title"`
	Completed bool   `json:"completed" bson:"completed"`
}

// Template is a QuestLog stored in the templates collection.
type Template = QuestLog

// LogSummary is the listing view of a log (description omitted).
type LogSummary struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Quests  []Quest `json:"quests"`
	Created string  `json:"created"`
	Updated string  `json:"updated"`
}

// TemplateSummary is the listing view of a template.
type TemplateSummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (l *QuestLog) Summary() LogSummary {
	quests := l.Quests
	if quests == nil {
		quests = []Quest{}
	}
	return LogSummary{ID: l.ID, Name: l.Name, Quests: quests, Created: l.Created, Updated: l.Updated}
}

func (l *QuestLog) TemplateSummary() TemplateSummary {
	return TemplateSummary{ID: l.ID, Name: l.Name, Description: l.Description}
}

// Clone returns a deep copy so callers can mutate the result without touching l.
func (l *QuestLog) Clone() *QuestLog {
	out := *l
	if l.Quests != nil {
		out.Quests = make([]Quest, len(l.Quests))
		for i, q := range l.Quests {
			out.Quests[i] = q
			if q.Objectives != nil {
				out.Quests[i].Objectives = make([]Objective, len(q.Objectives))
				copy(out.Quests[i].Objectives, q.Objectives)
			}
		}
	}
	return &out
}

// Validate performs the presence checks required before a log is persisted.
func (l *QuestLog) Validate() error {
	if l == nil {
		return fmt.Errorf("%w: missing log", ErrInvalidInput)
	}
	if l.ID == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidInput)
	}
	if l.Name == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidInput)
	}
	return ValidateID(l.ID)
}

// ValidateID rejects identifiers that cannot be used as a filename stem.
func ValidateID(id string) error {
	if id == "" || id == "." || id == ".." || strings.ContainsAny(id, "/\\\x00") {
		return fmt.Errorf("%w: unsafe id %q", ErrInvalidInput, id)
	}
	return nil
}
