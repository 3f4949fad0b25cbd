// ABOUTME: MCP prompt handlers for reusable creator workflow templates
// ABOUTME: Provides creator-summary, pipeline-review, and launch-plan prompts
package handlers

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/stacked/db"
	"github.com/harperreed/stacked/models"
)

type PromptHandlers struct {
	db *sql.DB
}

func NewPromptHandlers(database *sql.DB) *PromptHandlers {
	return &PromptHandlers{db: database}
}

// GetPrompt generates the prompt message based on the template
func (h *PromptHandlers) GetPrompt(ctx context.Context, request *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	name := request.Params.Name
	arguments := request.Params.Arguments
	switch name {
	case "creator-summary":
		return h.getCreatorSummaryPrompt(arguments)
	case "pipeline-review":
		return h.getPipelineReviewPrompt()
	case "launch-plan":
		return h.getLaunchPlanPrompt(arguments)
	default:
		return nil, fmt.Errorf("unknown prompt: %s", name)
	}
}

func userPrompt(description, text string) *mcp.GetPromptResult {
	return &mcp.GetPromptResult{
		Description: description,
		Messages: []*mcp.PromptMessage{
			{
				Role:    "user",
				Content: &mcp.TextContent{Text: text},
			},
		},
	}
}

func (h *PromptHandlers) creatorFromArgs(args map[string]string) (*models.Creator, error) {
	idStr, ok := args["creator_id"]
	if !ok {
		return nil, fmt.Errorf("creator_id is required")
	}

	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid creator_id: %w", err)
	}

	creator, err := db.GetCreator(h.db, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch creator: %w", err)
	}
	if creator == nil {
		return nil, fmt.Errorf("creator not found: %d", id)
	}
	return creator, nil
}

func writeCreatorDetails(b *strings.Builder, c *models.Creator) {
	fmt.Fprintf(b, "Name: %s\n", c.Name)
	if c.Category != "" {
		fmt.Fprintf(b, "Category: %s\n", c.Category)
	}
	fmt.Fprintf(b, "Phase: %s (%d days in phase)\n", c.Phase, c.DaysInPhase)
	fmt.Fprintf(b, "Cards sold: %d of %d (%d%%)\n", c.CardsSold, c.TotalCards, c.ProgressPercentage())
	fmt.Fprintf(b, "Card price: $%.2f\n", c.CardPrice)
	fmt.Fprintf(b, "Revenue: $%.2f\n", c.Revenue())
	fmt.Fprintf(b, "Sales velocity: %s\n", c.SalesVelocity)
	if c.NextTask != "" {
		fmt.Fprintf(b, "Next task: %s\n", c.NextTask)
	}
	if c.Strategy.LaunchDate != "" {
		fmt.Fprintf(b, "Launch date: %s\n", c.Strategy.LaunchDate)
	}
	if c.Strategy.TargetAudience != "" {
		fmt.Fprintf(b, "Target audience: %s\n", c.Strategy.TargetAudience)
	}
	if c.Strategy.ContentPlan != "" {
		fmt.Fprintf(b, "Content plan: %s\n", c.Strategy.ContentPlan)
	}
}

func (h *PromptHandlers) getCreatorSummaryPrompt(args map[string]string) (*mcp.GetPromptResult, error) {
	creator, err := h.creatorFromArgs(args)
	if err != nil {
		return nil, err
	}

	var b strings.Builder
	b.WriteString("Summarize where this creator stands in the card launch pipeline and suggest the next best action.\n\n")
	writeCreatorDetails(&b, creator)

	return userPrompt(fmt.Sprintf("Summary of %s", creator.Name), b.String()), nil
}

func (h *PromptHandlers) getPipelineReviewPrompt() (*mcp.GetPromptResult, error) {
	creators, err := db.ListCreators(h.db)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch creators: %w", err)
	}

	summary := models.Summarize(creators)

	var b strings.Builder
	b.WriteString("Review the creator pipeline below. Call out stalled creators and slow sellers, and propose priorities for this week.\n\n")
	fmt.Fprintf(&b, "Total: %d creators, %d cards sold, $%.2f revenue\n\n", summary.Creators, summary.CardsSold, summary.Revenue)

	for _, p := range summary.Phases {
		fmt.Fprintf(&b, "%s: %d creators, %.0f%% sold, $%.2f revenue", p.Label, p.Creators, p.SellThrough()*100, p.Revenue)
		if p.Stalled > 0 {
			fmt.Fprintf(&b, ", %d stalled", p.Stalled)
		}
		b.WriteString("\n")
	}

	if summary.HighPriority > 0 {
		b.WriteString("\nNeeds attention:\n")
		for i := range creators {
			c := &creators[i]
			if c.IsHighPriority() {
				fmt.Fprintf(&b, "- %s (%s, %d days, velocity %s)\n", c.Name, c.Phase, c.DaysInPhase, c.SalesVelocity)
			}
		}
	}

	return userPrompt("Creator pipeline review", b.String()), nil
}

func (h *PromptHandlers) getLaunchPlanPrompt(args map[string]string) (*mcp.GetPromptResult, error) {
	creator, err := h.creatorFromArgs(args)
	if err != nil {
		return nil, err
	}

	var b strings.Builder
	b.WriteString("Draft a launch plan that moves this creator to the next pipeline phase. Include content ideas for their audience and a timeline.\n\n")
	writeCreatorDetails(&b, creator)

	socials := []struct{ label, handle string }{
		{"Instagram", creator.SocialMedia.Instagram},
		{"Twitter", creator.SocialMedia.Twitter},
		{"YouTube", creator.SocialMedia.YouTube},
		{"TikTok", creator.SocialMedia.TikTok},
	}
	for _, s := range socials {
		if s.handle != "" {
			fmt.Fprintf(&b, "%s: %s\n", s.label, s.handle)
		}
	}

	return userPrompt(fmt.Sprintf("Launch plan for %s", creator.Name), b.String()), nil
}
