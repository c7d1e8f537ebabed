package workflow

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agropack/artworkflow/backend/model"
)

func TestParseSLA(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		days    int
		unit    SLAUnit
		defined bool
	}{
		{"working days", "13 Working Days", 13, WorkingDay, true},
		{"calendar days", "45 Days", 45, CalendarDay, true},
		{"single day", "1 Day", 1, CalendarDay, true},
		{"not applicable", "NA", 0, CalendarDay, false},
		{"empty", "", 0, CalendarDay, false},
		{
			// "120" in "120-130 Days" does not adjoin the Day token, so the
			// first number that does wins.
			"multi duration takes first number adjoining days",
			"Bottle and Cap: 120-130 Days (New Mould), Pouch: 45 Days, Label, leaflet, Shipper box: 14 Days",
			130, CalendarDay, true,
		},
		{
			"mixed prose",
			"For validation of drawing (KLD) with existing dimensions: 2 Days. For New Design: 1. Pouch: 7-10 Days",
			2, CalendarDay, true,
		},
		{"case insensitive", "3 working days", 3, WorkingDay, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sla := ParseSLA(tt.raw)
			assert.Equal(t, tt.days, sla.Days)
			assert.Equal(t, tt.unit, sla.Unit)
			assert.Equal(t, tt.defined, sla.Defined())
			assert.Equal(t, tt.raw, sla.Raw)
		})
	}
}

func TestProgress(t *testing.T) {
	sla := ParseSLA("10 Days")
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	t.Run("no runtime", func(t *testing.T) {
		assert.Equal(t, float64(100), Progress(nil, sla, start))
	})

	t.Run("not started", func(t *testing.T) {
		rt := &model.StageRuntime{Status: model.StagePending}
		assert.Equal(t, float64(100), Progress(rt, sla, start))
	})

	t.Run("completed", func(t *testing.T) {
		rt := &model.StageRuntime{Status: model.StageCompleted, StartDate: &start}
		assert.Equal(t, float64(100), Progress(rt, sla, start.AddDate(0, 0, 20)))
	})

	t.Run("undefined sla", func(t *testing.T) {
		rt := &model.StageRuntime{Status: model.StageInProgress, StartDate: &start}
		assert.Equal(t, float64(0), Progress(rt, ParseSLA("NA"), start.AddDate(0, 0, 5)))
	})

	t.Run("halfway", func(t *testing.T) {
		rt := &model.StageRuntime{Status: model.StageInProgress, StartDate: &start}
		assert.InDelta(t, 50, Progress(rt, sla, start.AddDate(0, 0, 5)), 0.01)
	})

	t.Run("clamped at 100", func(t *testing.T) {
		rt := &model.StageRuntime{Status: model.StageInProgress, StartDate: &start}
		assert.Equal(t, float64(100), Progress(rt, sla, start.AddDate(0, 0, 30)))
	})
}

func TestClassify(t *testing.T) {
	sla := ParseSLA("13 Working Days")
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	rt := func() *model.StageRuntime {
		return &model.StageRuntime{Status: model.StageInProgress, StartDate: &start}
	}

	require.True(t, sla.Defined())

	assert.Equal(t, SLAOnTrack, Classify(rt(), sla, start.AddDate(0, 0, 5)))
	assert.Equal(t, SLAAtRisk, Classify(rt(), sla, start.AddDate(0, 0, 12)))
	assert.Equal(t, SLAOverdue, Classify(rt(), sla, start.AddDate(0, 0, 13)))
	assert.Equal(t, SLAOverdue, Classify(rt(), sla, start.AddDate(0, 0, 40)))

	t.Run("completed stays on track", func(t *testing.T) {
		done := rt()
		done.Status = model.StageCompleted
		assert.Equal(t, SLAOnTrack, Classify(done, sla, start.AddDate(0, 0, 40)))
	})

	t.Run("undefined sla never escalates", func(t *testing.T) {
		assert.Equal(t, SLAOnTrack, Classify(rt(), ParseSLA("NA"), start.AddDate(0, 0, 400)))
	})

	t.Run("not started", func(t *testing.T) {
		assert.Equal(t, SLAOnTrack, Classify(&model.StageRuntime{Status: model.StagePending}, sla, start))
	})
}
