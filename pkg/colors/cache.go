package colors

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// SectionState is the color a section's events are painted with.
type SectionState struct {
	ColorID      string    `json:"color_id"`
	LastModified time.Time `json:"last_modified"`
}

// ColorCache hands out Google Calendar color ids per section, recycling the
// least recently used one when all eleven are taken.
type ColorCache struct {
	Path     string
	Sections map[string]*SectionState `json:"sections"`
	dirty    bool
	now      func() time.Time
}

const (
	cacheFile        = "section_colors.json"
	IntervalColor    = "8" // graphite
	UnsectionedColor = "1" // lavender
	maxColors        = 11
)

func NewColorCache(configDir string) (*ColorCache, error) {
	cache := &ColorCache{
		Path:     filepath.Join(configDir, cacheFile),
		Sections: make(map[string]*SectionState),
		now:      time.Now,
	}

	if _, err := os.Stat(cache.Path); err == nil {
		if err := cache.Load(); err != nil {
			return nil, err
		}
	}
	return cache, nil
}

func (c *ColorCache) Load() error {
	f, err := os.Open(c.Path)
	if err != nil {
		return err
	}
	defer f.Close()
	return json.NewDecoder(f).Decode(&c.Sections)
}

func (c *ColorCache) Save() error {
	if !c.dirty {
		return nil
	}
	dir := filepath.Dir(c.Path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		log.Printf("Error creating color cache directory: %v", err)
		return err
	}

	f, err := os.Create(c.Path)
	if err != nil {
		log.Printf("Error creating color cache file: %v", err)
		return err
	}
	defer f.Close()
	err = json.NewEncoder(f).Encode(c.Sections)
	if err == nil {
		c.dirty = false
	}
	return err
}

// GetColorID returns the color id for a section, assigning one on first use.
func (c *ColorCache) GetColorID(sectionID string) string {
	if sectionID == "" {
		return UnsectionedColor
	}

	state, exists := c.Sections[sectionID]
	if exists {
		// touched entries are only written on the next Save
		state.LastModified = c.now()
		c.dirty = true
		return state.ColorID
	}

	return c.assignColor(sectionID)
}

func (c *ColorCache) assignColor(sectionID string) string {
	used := make(map[string]bool)
	for _, s := range c.Sections {
		used[s.ColorID] = true
	}

	for i := 1; i <= maxColors; i++ {
		id := strconv.Itoa(i)
		if id == IntervalColor || id == UnsectionedColor {
			continue
		}
		if !used[id] {
			c.Sections[sectionID] = &SectionState{ColorID: id, LastModified: c.now()}
			c.dirty = true
			return id
		}
	}

	// all colors taken, recycle the least recently used
	var oldest string
	var oldestTime time.Time
	first := true
	for id, s := range c.Sections {
		if first || s.LastModified.Before(oldestTime) || (s.LastModified.Equal(oldestTime) && id < oldest) {
			oldestTime = s.LastModified
			oldest = id
			first = false
		}
	}

	if oldest != "" {
		recycled := c.Sections[oldest].ColorID
		delete(c.Sections, oldest)
		c.Sections[sectionID] = &SectionState{ColorID: recycled, LastModified: c.now()}
		c.dirty = true
		return recycled
	}

	return UnsectionedColor
}
