package workshop

import (
	"fmt"

	"sqlworkshop-server/models"
)

// Tally is a done/total pair.
type Tally struct {
	Done  int `json:"done"`
	Total int `json:"total"`
}

// ProgressBreakdown splits overall progress by exercise kind.
type ProgressBreakdown struct {
	Guided     Tally   `json:"guided"`
	Autonomous Tally   `json:"autonomous"`
	Objectives Tally   `json:"objectives"`
	Percent    float64 `json:"percent"`
}

// Percentage returns completed flags over all flags, scaled to [0, 100].
func Percentage(st *models.SessionState) float64 {
	b := Breakdown(st)
	return b.Percent
}

// Breakdown counts completion per kind and computes the overall percentage.
func Breakdown(st *models.SessionState) ProgressBreakdown {
	b := ProgressBreakdown{
		Guided:     tallyString(st.GuidedCompleted),
		Autonomous: tallyString(st.AutonomousCompleted),
	}
	for _, done := range st.ObjectivesCompleted {
		b.Objectives.Total++
		if done {
			b.Objectives.Done++
		}
	}

	total := b.Guided.Total + b.Autonomous.Total + b.Objectives.Total
	done := b.Guided.Done + b.Autonomous.Done + b.Objectives.Done
	if total > 0 {
		b.Percent = float64(done) / float64(total) * 100
	}
	return b
}

// GuidedSummary is the status line under the guided exercises.
func GuidedSummary(st *models.SessionState) string {
	t := tallyString(st.GuidedCompleted)
	if t.Total > 0 && t.Done == t.Total {
		return fmt.Sprintf("Excellent! You completed all %d guided exercises.", t.Total)
	}
	return fmt.Sprintf("Progress: %d/%d exercises completed", t.Done, t.Total)
}

func tallyString(m map[string]bool) Tally {
	var t Tally
	for _, done := range m {
		t.Total++
		if done {
			t.Done++
		}
	}
	return t
}
