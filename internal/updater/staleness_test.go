package updater

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNeedsRefresh(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	ago := func(days int) *time.Time {
		ts := now.Add(-time.Duration(days) * 24 * time.Hour)
		return &ts
	}
	rating := 7.5
	var nilRating *float64

	tests := []struct {
		name     string
		current  any
		force    bool
		synced   *time.Time
		interval int
		want     bool
	}{
		{"force with value", "Heat", true, ago(1), 30, true},
		{"present value", "Heat", false, nil, 30, false},
		{"present pointer", &rating, false, ago(100), 30, false},
		{"empty never synced", "", false, nil, 30, true},
		{"nil pointer never synced", nilRating, false, nil, 30, true},
		{"empty synced yesterday", "", false, ago(1), 30, false},
		{"empty synced 31 days ago", nil, false, ago(31), 30, true},
		{"empty synced exactly at interval", "", false, ago(30), 30, true},
		{"relation missing", false, false, ago(10), 30, false},
		{"relation present", true, false, nil, 30, false},
		{"empty slice", []string{}, false, nil, 30, true},
		{"zero interval", "", false, ago(0), 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NeedsRefresh(tt.current, tt.force, tt.synced, tt.interval, now))
		})
	}
}

func TestIsEmpty(t *testing.T) {
	zero := 0
	year := 1995
	assert.True(t, IsEmpty(nil))
	assert.True(t, IsEmpty("   "))
	assert.True(t, IsEmpty(0))
	assert.True(t, IsEmpty(0.0))
	assert.True(t, IsEmpty(&zero))
	assert.True(t, IsEmpty([]CastMember(nil)))
	assert.True(t, IsEmpty(uint(0)))

	assert.False(t, IsEmpty("x"))
	assert.False(t, IsEmpty(&year))
	assert.False(t, IsEmpty([]string{"Drama"}))
	assert.False(t, IsEmpty(true))
}
