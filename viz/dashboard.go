// ABOUTME: Terminal dashboard statistics and rendering
// ABOUTME: Provides an ASCII overview of the creator pipeline and the last Airtable sync
package viz

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/harperreed/stacked/db"
	"github.com/harperreed/stacked/models"
)

type DashboardStats struct {
	Pipeline models.PipelineSummary

	// Creators stalled in a phase or selling slowly
	NeedsAttention []AttentionItem

	// Last Airtable sync, nil if never synced
	Sync *db.SyncState
}

type AttentionItem struct {
	Name        string
	Phase       string
	DaysInPhase int
	Velocity    string
}

func GenerateDashboardStats(database *sql.DB) (*DashboardStats, error) {
	creators, err := db.ListCreators(database)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch creators: %w", err)
	}

	stats := &DashboardStats{Pipeline: models.Summarize(creators)}

	for i := range creators {
		c := &creators[i]
		if c.IsHighPriority() {
			stats.NeedsAttention = append(stats.NeedsAttention, AttentionItem{
				Name:        c.Name,
				Phase:       c.Phase,
				DaysInPhase: c.DaysInPhase,
				Velocity:    c.SalesVelocity,
			})
		}
	}

	stats.Sync, err = db.GetSyncState(database, db.ServiceAirtable)
	if err != nil {
		return nil, err
	}

	return stats, nil
}

func RenderDashboard(stats *DashboardStats) string {
	var out strings.Builder

	out.WriteString("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n")
	out.WriteString("  STACKED CREATOR DASHBOARD\n")
	out.WriteString("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n\n")

	out.WriteString("PIPELINE OVERVIEW\n")
	renderPipeline(&out, stats.Pipeline.Phases)
	out.WriteString("\n")

	out.WriteString("STATS\n")
	out.WriteString(fmt.Sprintf("  👤 %d creators  🃏 %d cards sold  💰 $%.2f revenue\n\n",
		stats.Pipeline.Creators, stats.Pipeline.CardsSold, stats.Pipeline.Revenue))

	if len(stats.NeedsAttention) > 0 {
		out.WriteString("NEEDS ATTENTION\n")
		for _, item := range stats.NeedsAttention {
			reason := fmt.Sprintf("%d days in phase", item.DaysInPhase)
			if item.Velocity == models.VelocityLow {
				reason = "low sales velocity"
			}
			out.WriteString(fmt.Sprintf("  ⚠️  %s (%s) - %s\n", item.Name, item.Phase, reason))
		}
		out.WriteString("\n")
	}

	out.WriteString("AIRTABLE SYNC\n")
	switch {
	case stats.Sync == nil:
		out.WriteString("  Never synced\n")
	case stats.Sync.ErrorMessage != nil:
		out.WriteString(fmt.Sprintf("  ✗ %s: %s\n", stats.Sync.Status, *stats.Sync.ErrorMessage))
	case stats.Sync.LastSyncTime != nil:
		out.WriteString(fmt.Sprintf("  ✓ %s, last run %s\n", stats.Sync.Status, stats.Sync.LastSyncTime.Local().Format("2006-01-02 15:04")))
	default:
		out.WriteString(fmt.Sprintf("  %s\n", stats.Sync.Status))
	}

	return out.String()
}

func renderPipeline(out *strings.Builder, phases []models.PhaseSummary) {
	maxCount := 0
	for _, p := range phases {
		if p.Creators > maxCount {
			maxCount = p.Creators
		}
	}
	if maxCount == 0 {
		maxCount = 1
	}

	for _, p := range phases {
		// 0-10 blocks
		barLength := (p.Creators * 10) / maxCount
		bar := strings.Repeat("█", barLength) + strings.Repeat("░", 10-barLength)

		out.WriteString(fmt.Sprintf("  %-26s %s  %2d  %3.0f%% sold  $%.0f\n",
			p.Label, bar, p.Creators, p.SellThrough()*100, p.Revenue))
	}
}
