package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRemaining(t *testing.T) {
	tests := []struct {
		name      string
		estimated time.Duration
		actual    time.Duration
		want      time.Duration
	}{
		{"unstarted", 30 * time.Minute, 0, 30 * time.Minute},
		{"partly spent", 30 * time.Minute, 10 * time.Minute, 20 * time.Minute},
		{"overspent", 30 * time.Minute, 45 * time.Minute, 0},
		{"negative spent counts as zero", 10 * time.Minute, -30 * time.Minute, 10 * time.Minute},
		{"negative estimate counts as zero", -10 * time.Minute, 0, 0},
		{"both negative", -10 * time.Minute, -5 * time.Minute, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := Task{Estimated: tt.estimated, Actual: tt.actual}
			assert.Equal(t, tt.want, task.Remaining())
		})
	}
}

func TestStatusValid(t *testing.T) {
	assert.True(t, StatusOpen.Valid())
	assert.True(t, StatusInProgress.Valid())
	assert.True(t, StatusDone.Valid())
	assert.False(t, Status("blocked").Valid())
}
