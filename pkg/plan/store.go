package plan

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Store keeps one plan file per day under Dir.
type Store struct {
	Dir string
	mu  sync.Mutex
}

func NewStore(dir string) *Store {
	return &Store{Dir: dir}
}

// Path returns the file holding the plan for date.
func (s *Store) Path(date time.Time) string {
	return filepath.Join(s.Dir, date.Format(dateLayout)+".yaml")
}

// Load returns the plan for date. A missing file yields an empty plan for
// that date rather than an error.
func (s *Store) Load(date time.Time) (*Plan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := Load(s.Path(date))
	if err != nil {
		if os.IsNotExist(err) {
			return &Plan{Date: truncateDay(date)}, nil
		}
		return nil, err
	}
	if p.Date.IsZero() {
		p.Date = truncateDay(date)
	}
	return p, nil
}

// Save writes p to the file for its date.
func (s *Store) Save(p *Plan) error {
	if p.Date.IsZero() {
		return fmt.Errorf("%w: plan has no date", ErrInvalidPlan)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.Dir, 0700); err != nil {
		return fmt.Errorf("failed to create plan directory: %w", err)
	}

	var buf bytes.Buffer
	if err := Encode(&buf, p); err != nil {
		return err
	}
	return os.WriteFile(s.Path(p.Date), buf.Bytes(), 0600)
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
