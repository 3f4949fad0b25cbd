// ABOUTME: Creator model for the launch pipeline
// ABOUTME: Defines Creator, pipeline phases, sales velocity values, and derived metrics
package models

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/go-playground/validator/v10"
)

// DateLayout is the ISO date format used for CreatedAt and LastUpdated.
const DateLayout = "2006-01-02"

// DefaultTotalCards is the card run size when none is given.
const DefaultTotalCards = 100

// DefaultAvatar is shown for creators without an avatar glyph.
const DefaultAvatar = "👤"

// Sales velocity values.
const (
	VelocityHigh    = "High"
	VelocityMedium  = "Medium"
	VelocityLow     = "Low"
	VelocityPending = "Pending"
)

// Phases is the ordered launch pipeline. PhaseNumber indexes this list.
var Phases = []string{
	"Strategy Call",
	"Drop Prep",
	"Launch Week",
	"Sell-Out Push",
	"Post-Sellout",
}

// PhaseLabel returns the display label for a phase number, e.g. "Phase 2: Launch Week".
func PhaseLabel(n int) string {
	if n < 0 || n >= len(Phases) {
		return ""
	}
	return fmt.Sprintf("Phase %d: %s", n, Phases[n])
}

type SocialMedia struct {
	Instagram string `json:"instagram,omitempty"`
	Twitter   string `json:"twitter,omitempty"`
	YouTube   string `json:"youtube,omitempty"`
	TikTok    string `json:"tiktok,omitempty"`
}

// Assets are uploaded files. They live only in the local store.
type Assets struct {
	ProfileImages []string `json:"profileImages"`
	Videos        []string `json:"videos"`
	PressKit      []string `json:"pressKit"`
}

// EmptyAssets returns Assets with non-nil empty slices.
func EmptyAssets() Assets {
	return Assets{
		ProfileImages: []string{},
		Videos:        []string{},
		PressKit:      []string{},
	}
}

type Strategy struct {
	LaunchDate     string `json:"launchDate,omitempty"`
	TargetAudience string `json:"targetAudience,omitempty"`
	ContentPlan    string `json:"contentPlan,omitempty"`
}

type Creator struct {
	ID            int64       `json:"id"`
	Name          string      `json:"name" validate:"required"`
	Email         string      `json:"email,omitempty" validate:"omitempty,email"`
	Phone         string      `json:"phone,omitempty"`
	Category      string      `json:"category"`
	Phase         string      `json:"phase"`
	PhaseNumber   int         `json:"phaseNumber" validate:"gte=0,lte=4"`
	CardsSold     int         `json:"cardsSold" validate:"gte=0,ltefield=TotalCards"`
	TotalCards    int         `json:"totalCards" validate:"gte=0"`
	CardPrice     float64     `json:"cardPrice" validate:"gte=0"`
	DaysInPhase   int         `json:"daysInPhase" validate:"gte=0"`
	NextTask      string      `json:"nextTask"`
	SalesVelocity string      `json:"salesVelocity" validate:"oneof=High Medium Low Pending"`
	Avatar        string      `json:"avatar"`
	Bio           string      `json:"bio"`
	SocialMedia   SocialMedia `json:"socialMedia"`
	Assets        Assets      `json:"assets"`
	Strategy      Strategy    `json:"strategy"`
	CreatedAt     string      `json:"createdAt" validate:"required,datetime=2006-01-02"`
	LastUpdated   string      `json:"lastUpdated" validate:"required,datetime=2006-01-02"`
}

// NewCreator returns a creator at the start of the pipeline with defaults applied.
func NewCreator(name string, now time.Time) Creator {
	today := now.Format(DateLayout)
	return Creator{
		Name:          name,
		Phase:         PhaseLabel(0),
		TotalCards:    DefaultTotalCards,
		SalesVelocity: VelocityPending,
		Avatar:        DefaultAvatar,
		Assets:        EmptyAssets(),
		CreatedAt:     today,
		LastUpdated:   today,
	}
}

// Revenue is cards sold times card price.
func (c *Creator) Revenue() float64 {
	return float64(c.CardsSold) * c.CardPrice
}

// ProgressPercentage is the rounded share of the card run sold.
// A run with zero total cards reports 0.
func (c *Creator) ProgressPercentage() int {
	if c.TotalCards <= 0 {
		return 0
	}
	return int(math.Round(float64(c.CardsSold) / float64(c.TotalCards) * 100))
}

// AdvancePhase moves the creator to the next pipeline phase.
// Returns false when the creator is already in the last phase.
func (c *Creator) AdvancePhase(now time.Time) bool {
	if c.PhaseNumber >= len(Phases)-1 {
		return false
	}
	c.PhaseNumber++
	c.Phase = PhaseLabel(c.PhaseNumber)
	c.DaysInPhase = 0
	c.LastUpdated = now.Format(DateLayout)
	return true
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// ErrInvalidCreator is wrapped by every validation failure.
var ErrInvalidCreator = errors.New("invalid creator")

// Validate checks the creator invariants.
func (c *Creator) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("%w: field %s failed %q", ErrInvalidCreator, fe.Field(), fe.Tag())
		}
		return fmt.Errorf("%w: %v", ErrInvalidCreator, err)
	}

	// ISO dates order lexically.
	if c.LastUpdated < c.CreatedAt {
		return fmt.Errorf("%w: lastUpdated %s is before createdAt %s", ErrInvalidCreator, c.LastUpdated, c.CreatedAt)
	}

	return nil
}
