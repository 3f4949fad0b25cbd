// ABOUTME: Creator MCP tool handlers
// ABOUTME: Implements add_creator, find_creators, update_creator, and advance_creator tools
package handlers

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/stacked/db"
	"github.com/harperreed/stacked/models"
)

type CreatorHandlers struct {
	db  *sql.DB
	now func() time.Time
}

func NewCreatorHandlers(database *sql.DB) *CreatorHandlers {
	return &CreatorHandlers{db: database, now: time.Now}
}

type AddCreatorInput struct {
	Name          string   `json:"name" jsonschema:"Creator name (required, unique)"`
	Email         string   `json:"email,omitempty" jsonschema:"Contact email"`
	Phone         string   `json:"phone,omitempty" jsonschema:"Contact phone"`
	Category      string   `json:"category,omitempty" jsonschema:"Category such as Gaming, Music, Streaming"`
	PhaseNumber   int      `json:"phase_number,omitempty" jsonschema:"Pipeline phase 0-4 (default 0)"`
	CardsSold     int      `json:"cards_sold,omitempty" jsonschema:"Cards sold so far"`
	TotalCards    *int     `json:"total_cards,omitempty" jsonschema:"Total cards in the run (default 100)"`
	CardPrice     float64  `json:"card_price,omitempty" jsonschema:"Price per card"`
	NextTask      string   `json:"next_task,omitempty" jsonschema:"Next task for this creator"`
	SalesVelocity string   `json:"sales_velocity,omitempty" jsonschema:"High, Medium, Low, or Pending (default Pending)"`
	Avatar        string   `json:"avatar,omitempty" jsonschema:"Avatar glyph"`
	Bio           string   `json:"bio,omitempty" jsonschema:"Short bio"`
	Instagram     string   `json:"instagram,omitempty" jsonschema:"Instagram handle"`
	Twitter       string   `json:"twitter,omitempty" jsonschema:"Twitter handle"`
	YouTube       string   `json:"youtube,omitempty" jsonschema:"YouTube channel"`
	TikTok        string   `json:"tiktok,omitempty" jsonschema:"TikTok handle"`
	LaunchDate    string   `json:"launch_date,omitempty" jsonschema:"Launch date YYYY-MM-DD"`
	Audience      string   `json:"target_audience,omitempty" jsonschema:"Target audience"`
	ContentPlan   string   `json:"content_plan,omitempty" jsonschema:"Content plan"`
	PressKit      []string `json:"press_kit,omitempty" jsonschema:"Press kit file references"`
}

type CreatorOutput struct {
	ID                 int64   `json:"id"`
	Name               string  `json:"name"`
	Email              string  `json:"email,omitempty"`
	Category           string  `json:"category,omitempty"`
	Phase              string  `json:"phase"`
	PhaseNumber        int     `json:"phase_number"`
	CardsSold          int     `json:"cards_sold"`
	TotalCards         int     `json:"total_cards"`
	CardPrice          float64 `json:"card_price"`
	Revenue            float64 `json:"revenue"`
	ProgressPercentage int     `json:"progress_percentage"`
	DaysInPhase        int     `json:"days_in_phase"`
	NextTask           string  `json:"next_task,omitempty"`
	SalesVelocity      string  `json:"sales_velocity"`
	LaunchDate         string  `json:"launch_date,omitempty"`
	CreatedAt          string  `json:"created_at"`
	LastUpdated        string  `json:"last_updated"`
}

func creatorToOutput(c *models.Creator) CreatorOutput {
	return CreatorOutput{
		ID:                 c.ID,
		Name:               c.Name,
		Email:              c.Email,
		Category:           c.Category,
		Phase:              c.Phase,
		PhaseNumber:        c.PhaseNumber,
		CardsSold:          c.CardsSold,
		TotalCards:         c.TotalCards,
		CardPrice:          c.CardPrice,
		Revenue:            c.Revenue(),
		ProgressPercentage: c.ProgressPercentage(),
		DaysInPhase:        c.DaysInPhase,
		NextTask:           c.NextTask,
		SalesVelocity:      c.SalesVelocity,
		LaunchDate:         c.Strategy.LaunchDate,
		CreatedAt:          c.CreatedAt,
		LastUpdated:        c.LastUpdated,
	}
}

func (h *CreatorHandlers) AddCreator(_ context.Context, request *mcp.CallToolRequest, input AddCreatorInput) (*mcp.CallToolResult, CreatorOutput, error) {
	if input.Name == "" {
		return nil, CreatorOutput{}, fmt.Errorf("name is required")
	}

	c := models.NewCreator(input.Name, h.now())
	c.Email = input.Email
	c.Phone = input.Phone
	c.Category = input.Category
	c.PhaseNumber = input.PhaseNumber
	c.Phase = models.PhaseLabel(input.PhaseNumber)
	c.CardsSold = input.CardsSold
	if input.TotalCards != nil {
		c.TotalCards = *input.TotalCards
	}
	c.CardPrice = input.CardPrice
	c.NextTask = input.NextTask
	if input.SalesVelocity != "" {
		c.SalesVelocity = input.SalesVelocity
	}
	if input.Avatar != "" {
		c.Avatar = input.Avatar
	}
	c.Bio = input.Bio
	c.SocialMedia = models.SocialMedia{
		Instagram: input.Instagram,
		Twitter:   input.Twitter,
		YouTube:   input.YouTube,
		TikTok:    input.TikTok,
	}
	c.Strategy = models.Strategy{
		LaunchDate:     input.LaunchDate,
		TargetAudience: input.Audience,
		ContentPlan:    input.ContentPlan,
	}
	if len(input.PressKit) > 0 {
		c.Assets.PressKit = input.PressKit
	}

	if err := db.CreateCreator(h.db, &c); err != nil {
		return nil, CreatorOutput{}, fmt.Errorf("failed to create creator: %w", err)
	}

	return nil, creatorToOutput(&c), nil
}

type FindCreatorsInput struct {
	Query       string `json:"query,omitempty" jsonschema:"Search query (matches name and category)"`
	PhaseNumber *int   `json:"phase_number,omitempty" jsonschema:"Filter by pipeline phase 0-4"`
	Limit       int    `json:"limit,omitempty" jsonschema:"Maximum number of results (default 10)"`
}

type FindCreatorsOutput struct {
	Creators []CreatorOutput `json:"creators"`
}

func (h *CreatorHandlers) FindCreators(_ context.Context, request *mcp.CallToolRequest, input FindCreatorsInput) (*mcp.CallToolResult, FindCreatorsOutput, error) {
	limit := input.Limit
	if limit == 0 {
		limit = 10
	}

	creators, err := db.FindCreators(h.db, input.Query, input.PhaseNumber, limit)
	if err != nil {
		return nil, FindCreatorsOutput{}, fmt.Errorf("failed to find creators: %w", err)
	}

	result := make([]CreatorOutput, len(creators))
	for i := range creators {
		result[i] = creatorToOutput(&creators[i])
	}

	return nil, FindCreatorsOutput{Creators: result}, nil
}

type UpdateCreatorInput struct {
	ID            int64    `json:"id" jsonschema:"Creator ID (required)"`
	Name          string   `json:"name,omitempty" jsonschema:"Updated name"`
	Email         string   `json:"email,omitempty" jsonschema:"Updated email"`
	Category      string   `json:"category,omitempty" jsonschema:"Updated category"`
	CardsSold     *int     `json:"cards_sold,omitempty" jsonschema:"Updated cards sold"`
	TotalCards    *int     `json:"total_cards,omitempty" jsonschema:"Updated total cards"`
	CardPrice     *float64 `json:"card_price,omitempty" jsonschema:"Updated card price"`
	DaysInPhase   *int     `json:"days_in_phase,omitempty" jsonschema:"Updated days in phase"`
	NextTask      string   `json:"next_task,omitempty" jsonschema:"Updated next task"`
	SalesVelocity string   `json:"sales_velocity,omitempty" jsonschema:"High, Medium, Low, or Pending"`
	LaunchDate    string   `json:"launch_date,omitempty" jsonschema:"Updated launch date YYYY-MM-DD"`
}

func (h *CreatorHandlers) getCreator(id int64) (*models.Creator, error) {
	if id == 0 {
		return nil, fmt.Errorf("id is required")
	}

	c, err := db.GetCreator(h.db, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get creator: %w", err)
	}
	if c == nil {
		return nil, fmt.Errorf("creator not found")
	}
	return c, nil
}

func (h *CreatorHandlers) UpdateCreator(_ context.Context, request *mcp.CallToolRequest, input UpdateCreatorInput) (*mcp.CallToolResult, CreatorOutput, error) {
	c, err := h.getCreator(input.ID)
	if err != nil {
		return nil, CreatorOutput{}, err
	}

	if input.Name != "" {
		c.Name = input.Name
	}
	if input.Email != "" {
		c.Email = input.Email
	}
	if input.Category != "" {
		c.Category = input.Category
	}
	if input.CardsSold != nil {
		c.CardsSold = *input.CardsSold
	}
	if input.TotalCards != nil {
		c.TotalCards = *input.TotalCards
	}
	if input.CardPrice != nil {
		c.CardPrice = *input.CardPrice
	}
	if input.DaysInPhase != nil {
		c.DaysInPhase = *input.DaysInPhase
	}
	if input.NextTask != "" {
		c.NextTask = input.NextTask
	}
	if input.SalesVelocity != "" {
		c.SalesVelocity = input.SalesVelocity
	}
	if input.LaunchDate != "" {
		c.Strategy.LaunchDate = input.LaunchDate
	}
	c.LastUpdated = h.now().Format(models.DateLayout)

	if err := db.UpdateCreator(h.db, c); err != nil {
		return nil, CreatorOutput{}, fmt.Errorf("failed to update creator: %w", err)
	}

	return nil, creatorToOutput(c), nil
}

type AdvanceCreatorInput struct {
	ID int64 `json:"id" jsonschema:"Creator ID (required)"`
}

func (h *CreatorHandlers) AdvanceCreator(_ context.Context, request *mcp.CallToolRequest, input AdvanceCreatorInput) (*mcp.CallToolResult, CreatorOutput, error) {
	c, err := h.getCreator(input.ID)
	if err != nil {
		return nil, CreatorOutput{}, err
	}

	if !c.AdvancePhase(h.now()) {
		return nil, CreatorOutput{}, fmt.Errorf("creator %s is already in the final phase", c.Name)
	}

	if err := db.UpdateCreator(h.db, c); err != nil {
		return nil, CreatorOutput{}, fmt.Errorf("failed to update creator: %w", err)
	}

	return nil, creatorToOutput(c), nil
}
