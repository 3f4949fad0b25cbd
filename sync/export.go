// ABOUTME: CSV export and base template for Airtable bulk import
// ABOUTME: Writes every cell double-quoted in a fixed column order matching the template fields
package sync

import (
	"io"
	"strconv"
	"strings"

	"github.com/harperreed/stacked/models"
)

// CSVHeaders is the fixed column order of ExportCSV.
var CSVHeaders = []string{
	FieldName,
	FieldEmail,
	FieldPhone,
	FieldCategory,
	FieldPhase,
	FieldPhaseNumber,
	FieldCardsSold,
	FieldTotalCards,
	FieldCardPrice,
	FieldDaysInPhase,
	FieldNextTask,
	FieldSalesVelocity,
	FieldAvatar,
	FieldBio,
	FieldInstagram,
	FieldTwitter,
	FieldYouTube,
	FieldTikTok,
	FieldLaunchDate,
	FieldTargetAudience,
	FieldContentPlan,
	FieldCreatedDate,
	FieldLastUpdated,
	FieldRevenue,
	FieldProgressPercentage,
}

// ExportCSV renders creators as CSV for Airtable's importer: a header row,
// then one row per creator in input order, lines joined by "\n".
func ExportCSV(creators []models.Creator) string {
	var b strings.Builder
	_ = WriteCSV(&b, creators)
	return b.String()
}

// WriteCSV streams the ExportCSV output to w.
func WriteCSV(w io.Writer, creators []models.Creator) error {
	if _, err := io.WriteString(w, csvLine(CSVHeaders)); err != nil {
		return err
	}
	for _, c := range creators {
		if _, err := io.WriteString(w, "\n"+csvLine(csvRow(c))); err != nil {
			return err
		}
	}
	return nil
}

func csvRow(c models.Creator) []string {
	return []string{
		c.Name,
		c.Email,
		c.Phone,
		c.Category,
		c.Phase,
		strconv.Itoa(c.PhaseNumber),
		strconv.Itoa(c.CardsSold),
		strconv.Itoa(c.TotalCards),
		formatNumber(c.CardPrice),
		strconv.Itoa(c.DaysInPhase),
		c.NextTask,
		c.SalesVelocity,
		c.Avatar,
		c.Bio,
		c.SocialMedia.Instagram,
		c.SocialMedia.Twitter,
		c.SocialMedia.YouTube,
		c.SocialMedia.TikTok,
		c.Strategy.LaunchDate,
		c.Strategy.TargetAudience,
		c.Strategy.ContentPlan,
		c.CreatedAt,
		c.LastUpdated,
		formatNumber(c.Revenue()),
		strconv.Itoa(c.ProgressPercentage()),
	}
}

// csvLine quotes every cell. encoding/csv only quotes cells that need it,
// and Airtable's importer is fed fully quoted rows.
func csvLine(cells []string) string {
	quoted := make([]string, len(cells))
	for i, cell := range cells {
		quoted[i] = `"` + strings.ReplaceAll(cell, `"`, `""`) + `"`
	}
	return strings.Join(quoted, ",")
}

// formatNumber prints the shortest form: 100, 75.5.
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// BaseTemplate describes the Airtable table layout that ExportCSV and the
// field mapper expect.
func BaseTemplate() string {
	return baseTemplate
}

const baseTemplate = `# Stacked Creators - Airtable Base Template

## Table: Creators

### Fields Setup:

**Basic Info:**
- Name (Single line text) - Primary field
- Email (Email)
- Phone (Phone number)
- Category (Single select): Gaming, Music, Streaming, Lifestyle, Comedy, Fashion
- Avatar (Single line text)
- Bio (Long text)

**Pipeline:**
- Phase (Single select): Phase 0: Strategy Call, Phase 1: Drop Prep, Phase 2: Launch Week, Phase 3: Sell-Out Push, Phase 4: Post-Sellout
- Phase Number (Number)
- Days in Phase (Number)
- Next Task (Single line text)

**Performance:**
- Cards Sold (Number)
- Total Cards (Number) - Default: 100
- Card Price (Currency)
- Sales Velocity (Single select): High, Medium, Low, Pending
- Revenue (Number): Cards Sold * Card Price
- Progress Percentage (Number): ROUND((Cards Sold / Total Cards) * 100, 0)

**Social Media:**
- Instagram (Single line text)
- Twitter (Single line text)
- YouTube (Single line text)
- TikTok (Single line text)

**Strategy:**
- Launch Date (Date)
- Target Audience (Long text)
- Content Plan (Long text)

**Metadata:**
- Created Date (Date)
- Last Updated (Date)

### Views Setup:

**1. Pipeline Dashboard**
- Group by: Phase
- Sort: Days in Phase (descending)
- Show: Name, Category, Cards Sold, Sales Velocity, Next Task

**2. High Priority**
- Filter: Sales Velocity = "Low" OR Days in Phase > 7
- Sort: Days in Phase (descending)

**3. Revenue Tracking**
- Group by: Category
- Sort: Revenue (descending)
- Show: Name, Cards Sold, Card Price, Revenue, Progress Percentage

**4. Launch Calendar**
- Calendar view by Launch Date
- Show: Name, Phase, Target Audience

**5. Social Media**
- Show: Name, Instagram, Twitter, YouTube, TikTok, Category
- Filter: Social media fields are not empty
`
