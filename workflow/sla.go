package workflow

import (
	"regexp"
	"time"

	"github.com/agropack/artworkflow/backend/model"
)

// SLAUnit tags how an SLA duration counts days.
type SLAUnit int

const (
	CalendarDay SLAUnit = iota
	WorkingDay
)

// SLA is a stage's allotted duration, parsed once at catalogue construction.
// Raw keeps the source text; SLA expressions carrying several alternative
// durations are represented by their first integer token.
type SLA struct {
	Days int
	Unit SLAUnit
	Raw  string
}

// Defined reports whether the expression yielded a usable duration.
func (s SLA) Defined() bool { return s.Days > 0 }

var slaPattern = regexp.MustCompile(`(?i)(\d+)\s*(Working\s*)?Days?`)

// ParseSLA extracts the first integer day count and its Working qualifier from
// free-text SLA expressions like "13 Working Days" or
// "Bottle and Cap: 120-130 Days (New Mould), Pouch: 45 Days".
func ParseSLA(raw string) SLA {
	s := SLA{Raw: raw}
	m := slaPattern.FindStringSubmatch(raw)
	if m == nil {
		return s
	}
	days := 0
	for _, c := range m[1] {
		days = days*10 + int(c-'0')
	}
	s.Days = days
	if m[2] != "" {
		s.Unit = WorkingDay
	}
	return s
}

// SLAClass classifies elapsed-vs-allotted time for an in-progress stage.
type SLAClass string

const (
	SLAOnTrack SLAClass = "on-track"
	SLAAtRisk  SLAClass = "at-risk"
	SLAOverdue SLAClass = "overdue"
)

// Progress returns percent elapsed in [0,100]. Stages with no start date or
// already completed report 100; an undefined SLA reports 0.
func Progress(rt *model.StageRuntime, sla SLA, now time.Time) float64 {
	if rt == nil || rt.Status == model.StageCompleted || rt.StartDate == nil {
		return 100
	}
	if !sla.Defined() {
		return 0
	}
	elapsed := now.Sub(*rt.StartDate).Hours() / 24
	pct := elapsed / float64(sla.Days) * 100
	if pct > 100 {
		pct = 100
	}
	if pct < 0 {
		pct = 0
	}
	return pct
}

// Classify maps a progress percentage to an SLA class. Overdue means the full
// allotted duration has elapsed.
func Classify(rt *model.StageRuntime, sla SLA, now time.Time) SLAClass {
	if rt == nil || rt.StartDate == nil || rt.Status == model.StageCompleted || !sla.Defined() {
		return SLAOnTrack
	}
	elapsed := now.Sub(*rt.StartDate).Hours() / 24
	pct := elapsed / float64(sla.Days) * 100
	switch {
	case pct >= 100:
		return SLAOverdue
	case pct >= 90:
		return SLAAtRisk
	default:
		return SLAOnTrack
	}
}
