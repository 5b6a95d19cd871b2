package overdue

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"time"
)

const tableFile = "pending_tasks.json"

// Entry is a published, unfinished task and the end it was projected to.
type Entry struct {
	GCalID       string    `json:"gcal_id"`
	Summary      string    `json:"summary"`
	ProjectedEnd time.Time `json:"projected_end"`
}

// Table tracks published events that may run past their projected end.
type Table struct {
	Entries map[string]Entry `json:"entries"`
	Path    string           `json:"-"`
	dirty   bool
}

func NewTable(configDir string) (*Table, error) {
	t := &Table{
		Path:    filepath.Join(configDir, tableFile),
		Entries: make(map[string]Entry),
	}

	if _, err := os.Stat(t.Path); err == nil {
		if err := t.Load(); err != nil {
			return nil, err
		}
	}

	return t, nil
}

func (t *Table) Load() error {
	f, err := os.Open(t.Path)
	if err != nil {
		return err
	}
	defer f.Close()
	return json.NewDecoder(f).Decode(t)
}

func (t *Table) Save() error {
	if !t.dirty {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(t.Path), 0700); err != nil {
		return err
	}

	f, err := os.Create(t.Path)
	if err != nil {
		return err
	}
	defer f.Close()

	encoder := json.NewEncoder(f)
	encoder.SetIndent("", "  ")
	err = encoder.Encode(t)
	if err == nil {
		t.dirty = false
	}
	return err
}

// Update records the projected end of a task's event. A zero end removes it.
func (t *Table) Update(taskID string, gcalID string, summary string, projectedEnd time.Time) {
	if projectedEnd.IsZero() {
		t.Remove(taskID)
		return
	}
	old, exists := t.Entries[taskID]
	if !exists || !old.ProjectedEnd.Equal(projectedEnd) || old.GCalID != gcalID || old.Summary != summary {
		t.Entries[taskID] = Entry{
			GCalID:       gcalID,
			Summary:      summary,
			ProjectedEnd: projectedEnd,
		}
		t.dirty = true
	}
}

func (t *Table) Remove(taskID string) {
	if _, exists := t.Entries[taskID]; exists {
		delete(t.Entries, taskID)
		t.dirty = true
	}
}

// Sweep returns the entries whose projected end has passed, oldest first, and removes them.
func (t *Table) Sweep(now time.Time) []Entry {
	var swept []Entry
	for taskID, entry := range t.Entries {
		if entry.ProjectedEnd.Before(now) {
			swept = append(swept, entry)
			delete(t.Entries, taskID)
			t.dirty = true
		}
	}
	sort.Slice(swept, func(i, j int) bool {
		return swept[i].ProjectedEnd.Before(swept[j].ProjectedEnd)
	})
	return swept
}
