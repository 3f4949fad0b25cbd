// ABOUTME: Tests for the Creator model
// ABOUTME: Covers derived metrics, phase advancement, and validation rules
package models

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validCreator() Creator {
	return Creator{
		ID:            1,
		Name:          "Kurama",
		Email:         "kurama@example.com",
		Category:      "Gaming",
		Phase:         PhaseLabel(2),
		PhaseNumber:   2,
		CardsSold:     67,
		TotalCards:    100,
		CardPrice:     100,
		DaysInPhase:   2,
		SalesVelocity: VelocityHigh,
		Assets:        EmptyAssets(),
		CreatedAt:     "2025-06-10",
		LastUpdated:   "2025-06-16",
	}
}

func TestPhaseLabel(t *testing.T) {
	assert.Equal(t, "Phase 0: Strategy Call", PhaseLabel(0))
	assert.Equal(t, "Phase 4: Post-Sellout", PhaseLabel(4))
	assert.Empty(t, PhaseLabel(5))
	assert.Empty(t, PhaseLabel(-1))
}

func TestRevenue(t *testing.T) {
	c := validCreator()
	assert.Equal(t, 6700.0, c.Revenue())

	c.CardPrice = 12.5
	c.CardsSold = 3
	assert.Equal(t, 37.5, c.Revenue())
}

func TestProgressPercentage(t *testing.T) {
	tests := []struct {
		name  string
		sold  int
		total int
		want  int
	}{
		{"two thirds", 67, 100, 67},
		{"rounds half up", 1, 8, 13},
		{"rounds down", 1, 3, 33},
		{"sold out", 50, 50, 100},
		{"zero total", 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Creator{CardsSold: tt.sold, TotalCards: tt.total}
			assert.Equal(t, tt.want, c.ProgressPercentage())
		})
	}
}

func TestNewCreatorDefaults(t *testing.T) {
	now := time.Date(2025, 6, 20, 9, 0, 0, 0, time.UTC)
	c := NewCreator("Nina Lin", now)

	assert.Equal(t, "Nina Lin", c.Name)
	assert.Equal(t, "Phase 0: Strategy Call", c.Phase)
	assert.Equal(t, DefaultTotalCards, c.TotalCards)
	assert.Equal(t, VelocityPending, c.SalesVelocity)
	assert.Equal(t, DefaultAvatar, c.Avatar)
	assert.Equal(t, "2025-06-20", c.CreatedAt)
	assert.Equal(t, "2025-06-20", c.LastUpdated)
	assert.NotNil(t, c.Assets.PressKit)
	require.NoError(t, c.Validate())
}

func TestAdvancePhase(t *testing.T) {
	now := time.Date(2025, 6, 21, 0, 0, 0, 0, time.UTC)
	c := validCreator()

	assert.True(t, c.AdvancePhase(now))
	assert.Equal(t, 3, c.PhaseNumber)
	assert.Equal(t, "Phase 3: Sell-Out Push", c.Phase)
	assert.Equal(t, 0, c.DaysInPhase)
	assert.Equal(t, "2025-06-21", c.LastUpdated)

	assert.True(t, c.AdvancePhase(now))
	assert.False(t, c.AdvancePhase(now), "last phase cannot advance")
	assert.Equal(t, 4, c.PhaseNumber)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Creator)
	}{
		{"missing name", func(c *Creator) { c.Name = "" }},
		{"phase out of range", func(c *Creator) { c.PhaseNumber = 5 }},
		{"negative days", func(c *Creator) { c.DaysInPhase = -1 }},
		{"oversold", func(c *Creator) { c.CardsSold = 101 }},
		{"negative price", func(c *Creator) { c.CardPrice = -1 }},
		{"unknown velocity", func(c *Creator) { c.SalesVelocity = "Blazing" }},
		{"bad email", func(c *Creator) { c.Email = "not-an-email" }},
		{"bad date", func(c *Creator) { c.CreatedAt = "June 10" }},
		{"updated before created", func(c *Creator) { c.LastUpdated = "2025-06-01" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validCreator()
			tt.mutate(&c)
			err := c.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidCreator))
		})
	}

	valid := validCreator()
	assert.NoError(t, valid.Validate())
}
