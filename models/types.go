// ABOUTME: Sync status values and pipeline rollups shared across packages
// ABOUTME: Summarize groups creators by phase with card and revenue totals
package models

// Sync status constants.
const (
	SyncStatusIdle    = "idle"
	SyncStatusSyncing = "syncing"
	SyncStatusError   = "error"
)

// PhaseSummary aggregates the creators in one pipeline phase.
type PhaseSummary struct {
	PhaseNumber int     `json:"phaseNumber"`
	Label       string  `json:"label"`
	Creators    int     `json:"creators"`
	CardsSold   int     `json:"cardsSold"`
	TotalCards  int     `json:"totalCards"`
	Revenue     float64 `json:"revenue"`
	Stalled     int     `json:"stalled"`
}

// SellThrough is the share of cards sold in this phase, 0..1.
func (p PhaseSummary) SellThrough() float64 {
	if p.TotalCards <= 0 {
		return 0
	}
	return float64(p.CardsSold) / float64(p.TotalCards)
}

// PipelineSummary is the whole pipeline, one entry per phase in order.
type PipelineSummary struct {
	Phases       []PhaseSummary `json:"phases"`
	Creators     int            `json:"creators"`
	CardsSold    int            `json:"cardsSold"`
	Revenue      float64        `json:"revenue"`
	HighPriority int            `json:"highPriority"`
}

// StalledDays is how long a creator may sit in one phase before it counts as stalled.
const StalledDays = 7

// IsHighPriority reports creators needing attention: slow sales or stuck in a phase.
func (c *Creator) IsHighPriority() bool {
	return c.SalesVelocity == VelocityLow || c.DaysInPhase > StalledDays
}

// Summarize rolls creators up by phase. Creators with an out-of-range phase are ignored.
func Summarize(creators []Creator) PipelineSummary {
	s := PipelineSummary{Phases: make([]PhaseSummary, len(Phases))}
	for i := range Phases {
		s.Phases[i] = PhaseSummary{PhaseNumber: i, Label: PhaseLabel(i)}
	}

	for i := range creators {
		c := &creators[i]
		if c.PhaseNumber < 0 || c.PhaseNumber >= len(Phases) {
			continue
		}
		p := &s.Phases[c.PhaseNumber]
		p.Creators++
		p.CardsSold += c.CardsSold
		p.TotalCards += c.TotalCards
		p.Revenue += c.Revenue()
		if c.DaysInPhase > StalledDays {
			p.Stalled++
		}

		s.Creators++
		s.CardsSold += c.CardsSold
		s.Revenue += c.Revenue()
		if c.IsHighPriority() {
			s.HighPriority++
		}
	}

	return s
}
