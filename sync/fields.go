// ABOUTME: Field mapping between Creator and Airtable record fields
// ABOUTME: Omits empty optional fields on the way out and applies defaults on the way in
package sync

import (
	"encoding/json"
	"math"
	"strconv"
	"time"

	"github.com/harperreed/stacked/models"
)

// Airtable column names.
const (
	FieldName               = "Name"
	FieldEmail              = "Email"
	FieldPhone              = "Phone"
	FieldCategory           = "Category"
	FieldPhase              = "Phase"
	FieldPhaseNumber        = "Phase Number"
	FieldCardsSold          = "Cards Sold"
	FieldTotalCards         = "Total Cards"
	FieldCardPrice          = "Card Price"
	FieldDaysInPhase        = "Days in Phase"
	FieldNextTask           = "Next Task"
	FieldSalesVelocity      = "Sales Velocity"
	FieldAvatar             = "Avatar"
	FieldBio                = "Bio"
	FieldInstagram          = "Instagram"
	FieldTwitter            = "Twitter"
	FieldYouTube            = "YouTube"
	FieldTikTok             = "TikTok"
	FieldLaunchDate         = "Launch Date"
	FieldTargetAudience     = "Target Audience"
	FieldContentPlan        = "Content Plan"
	FieldCreatedDate        = "Created Date"
	FieldLastUpdated        = "Last Updated"
	FieldRevenue            = "Revenue"
	FieldProgressPercentage = "Progress Percentage"
)

// Fields is the flat field map of one Airtable record.
type Fields map[string]any

// setOptional writes value only when it is non-empty. An absent key leaves the
// Airtable cell untouched, while an empty string would clear it.
func (f Fields) setOptional(key, value string) {
	if value == "" {
		return
	}
	f[key] = value
}

// Text returns the string value of key, or "" when absent or not a string.
func (f Fields) Text(key string) string {
	s, _ := f[key].(string)
	return s
}

// Number returns the numeric value of key. ok is false when the key is absent
// or holds something that is not a finite number.
func (f Fields) Number(key string) (float64, bool) {
	n, ok := f.rawNumber(key)
	if !ok || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}

func (f Fields) rawNumber(key string) (float64, bool) {
	switch v := f[key].(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case json.Number:
		n, err := v.Float64()
		return n, err == nil
	case string:
		n, err := strconv.ParseFloat(v, 64)
		return n, err == nil
	}
	return 0, false
}

func (f Fields) textOr(key, def string) string {
	if s := f.Text(key); s != "" {
		return s
	}
	return def
}

func (f Fields) intOr(key string, def int) int {
	n, ok := f.Number(key)
	if !ok {
		return def
	}
	n = math.Round(n)
	if n > math.MaxInt32 || n < math.MinInt32 {
		return def
	}
	return int(n)
}

func (f Fields) floatOr(key string, def float64) float64 {
	if n, ok := f.Number(key); ok {
		return n
	}
	return def
}

// Mapper converts creators to and from Airtable fields.
type Mapper struct {
	// Now supplies the default date for records missing timestamps.
	Now func() time.Time
}

func NewMapper() *Mapper {
	return &Mapper{Now: time.Now}
}

func (m *Mapper) today() string {
	now := time.Now
	if m != nil && m.Now != nil {
		now = m.Now
	}
	return now().UTC().Format(models.DateLayout)
}

// ToExternal maps a creator to Airtable fields. Revenue and progress are
// always recomputed from the creator's current numbers.
func (m *Mapper) ToExternal(c models.Creator) Fields {
	f := Fields{
		FieldName:               c.Name,
		FieldCategory:           c.Category,
		FieldPhase:              c.Phase,
		FieldPhaseNumber:        c.PhaseNumber,
		FieldCardsSold:          c.CardsSold,
		FieldTotalCards:         c.TotalCards,
		FieldCardPrice:          c.CardPrice,
		FieldDaysInPhase:        c.DaysInPhase,
		FieldNextTask:           c.NextTask,
		FieldSalesVelocity:      c.SalesVelocity,
		FieldCreatedDate:        c.CreatedAt,
		FieldLastUpdated:        c.LastUpdated,
		FieldRevenue:            c.Revenue(),
		FieldProgressPercentage: c.ProgressPercentage(),
	}

	f.setOptional(FieldEmail, c.Email)
	f.setOptional(FieldPhone, c.Phone)
	f.setOptional(FieldAvatar, c.Avatar)
	f.setOptional(FieldBio, c.Bio)
	f.setOptional(FieldInstagram, c.SocialMedia.Instagram)
	f.setOptional(FieldTwitter, c.SocialMedia.Twitter)
	f.setOptional(FieldYouTube, c.SocialMedia.YouTube)
	f.setOptional(FieldTikTok, c.SocialMedia.TikTok)
	f.setOptional(FieldLaunchDate, c.Strategy.LaunchDate)
	f.setOptional(FieldTargetAudience, c.Strategy.TargetAudience)
	f.setOptional(FieldContentPlan, c.Strategy.ContentPlan)

	return f
}

// FromExternal maps an Airtable record to a creator. Missing fields fall back to
// defaults; assets are never read from Airtable.
func (m *Mapper) FromExternal(r Record) models.Creator {
	f := r.Fields
	if f == nil {
		f = Fields{}
	}
	today := m.today()

	return models.Creator{
		ID:            ExternalID(r.ID),
		Name:          f.Text(FieldName),
		Email:         f.Text(FieldEmail),
		Phone:         f.Text(FieldPhone),
		Category:      f.Text(FieldCategory),
		Phase:         f.Text(FieldPhase),
		PhaseNumber:   f.intOr(FieldPhaseNumber, 0),
		CardsSold:     f.intOr(FieldCardsSold, 0),
		TotalCards:    f.intOr(FieldTotalCards, models.DefaultTotalCards),
		CardPrice:     f.floatOr(FieldCardPrice, 0),
		DaysInPhase:   f.intOr(FieldDaysInPhase, 0),
		NextTask:      f.Text(FieldNextTask),
		SalesVelocity: f.textOr(FieldSalesVelocity, models.VelocityPending),
		Avatar:        f.textOr(FieldAvatar, models.DefaultAvatar),
		Bio:           f.Text(FieldBio),
		SocialMedia: models.SocialMedia{
			Instagram: f.Text(FieldInstagram),
			Twitter:   f.Text(FieldTwitter),
			YouTube:   f.Text(FieldYouTube),
			TikTok:    f.Text(FieldTikTok),
		},
		Assets: models.EmptyAssets(),
		Strategy: models.Strategy{
			LaunchDate:     f.Text(FieldLaunchDate),
			TargetAudience: f.Text(FieldTargetAudience),
			ContentPlan:    f.Text(FieldContentPlan),
		},
		CreatedAt:   f.textOr(FieldCreatedDate, today),
		LastUpdated: f.textOr(FieldLastUpdated, today),
	}
}
