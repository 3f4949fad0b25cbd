// ABOUTME: Tests for MCP resources, prompts, and the pipeline graph tool
// ABOUTME: Checks stacked:// URI routing and prompt content against seeded creators
package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harperreed/stacked/models"
)

func readResource(t *testing.T, h *ResourceHandlers, uri string) (*mcp.ReadResourceResult, error) {
	t.Helper()
	return h.ReadResource(context.Background(), &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{URI: uri},
	})
}

func TestReadCreatorResources(t *testing.T) {
	database := setupTestDB(t)
	ch := newCreatorHandlers(database)
	_, created, err := ch.AddCreator(context.Background(), nil, AddCreatorInput{Name: "Kurama", PhaseNumber: 2, CardsSold: 5, CardPrice: 10})
	require.NoError(t, err)

	h := NewResourceHandlers(database)

	result, err := readResource(t, h, "stacked://creators")
	require.NoError(t, err)
	require.Len(t, result.Contents, 1)
	assert.Equal(t, "application/json", result.Contents[0].MIMEType)

	var all []CreatorOutput
	require.NoError(t, json.Unmarshal([]byte(result.Contents[0].Text), &all))
	require.Len(t, all, 1)
	assert.Equal(t, "Kurama", all[0].Name)

	uri := fmt.Sprintf("stacked://creators/%d", created.ID)
	result, err = readResource(t, h, uri)
	require.NoError(t, err)
	assert.Equal(t, uri, result.Contents[0].URI)

	var one models.Creator
	require.NoError(t, json.Unmarshal([]byte(result.Contents[0].Text), &one))
	assert.Equal(t, created.ID, one.ID)

	result, err = readResource(t, h, "stacked://pipeline")
	require.NoError(t, err)
	var summary models.PipelineSummary
	require.NoError(t, json.Unmarshal([]byte(result.Contents[0].Text), &summary))
	assert.Equal(t, 1, summary.Creators)
	assert.Equal(t, 1, summary.Phases[2].Creators)
}

func TestReadResourceErrors(t *testing.T) {
	h := NewResourceHandlers(setupTestDB(t))

	for _, uri := range []string{
		"crm://contacts",
		"stacked://deals",
		"stacked://creators/abc",
		"stacked://creators/42",
	} {
		_, err := readResource(t, h, uri)
		assert.Error(t, err, uri)
	}

	_, err := readResource(t, h, "stacked://sync")
	assert.NoError(t, err)
}

func getPrompt(t *testing.T, h *PromptHandlers, name string, args map[string]string) (*mcp.GetPromptResult, error) {
	t.Helper()
	return h.GetPrompt(context.Background(), &mcp.GetPromptRequest{
		Params: &mcp.GetPromptParams{Name: name, Arguments: args},
	})
}

func promptText(t *testing.T, result *mcp.GetPromptResult) string {
	t.Helper()
	require.Len(t, result.Messages, 1)
	text, ok := result.Messages[0].Content.(*mcp.TextContent)
	require.True(t, ok)
	return text.Text
}

func TestPrompts(t *testing.T) {
	database := setupTestDB(t)
	ch := newCreatorHandlers(database)
	_, created, err := ch.AddCreator(context.Background(), nil, AddCreatorInput{
		Name:          "Kurama",
		CardsSold:     67,
		CardPrice:     100,
		SalesVelocity: models.VelocityLow,
		Instagram:     "@kurama",
	})
	require.NoError(t, err)

	h := NewPromptHandlers(database)
	id := fmt.Sprintf("%d", created.ID)

	result, err := getPrompt(t, h, "creator-summary", map[string]string{"creator_id": id})
	require.NoError(t, err)
	text := promptText(t, result)
	assert.Contains(t, text, "Name: Kurama")
	assert.Contains(t, text, "Revenue: $6700.00")

	result, err = getPrompt(t, h, "pipeline-review", nil)
	require.NoError(t, err)
	text = promptText(t, result)
	assert.Contains(t, text, "Total: 1 creators")
	assert.Contains(t, text, "Needs attention")
	assert.Contains(t, text, "- Kurama")

	result, err = getPrompt(t, h, "launch-plan", map[string]string{"creator_id": id})
	require.NoError(t, err)
	assert.Contains(t, promptText(t, result), "Instagram: @kurama")

	_, err = getPrompt(t, h, "creator-summary", nil)
	assert.ErrorContains(t, err, "creator_id is required")

	_, err = getPrompt(t, h, "creator-summary", map[string]string{"creator_id": "999"})
	assert.ErrorContains(t, err, "not found")

	_, err = getPrompt(t, h, "deal-analysis", nil)
	assert.ErrorContains(t, err, "unknown prompt")
}

func TestGeneratePipelineGraphTool(t *testing.T) {
	database := setupTestDB(t)
	ch := newCreatorHandlers(database)
	_, _, err := ch.AddCreator(context.Background(), nil, AddCreatorInput{Name: "Kurama"})
	require.NoError(t, err)

	h := NewVizHandlers(database)

	_, out, err := h.GeneratePipelineGraph(context.Background(), nil, GenerateGraphInput{})
	require.NoError(t, err)
	assert.Equal(t, "dot", out.Format)
	assert.Contains(t, out.Source, "Kurama")
	assert.Equal(t, len(out.Source), out.Bytes)

	_, _, err = h.GeneratePipelineGraph(context.Background(), nil, GenerateGraphInput{Format: "gif"})
	assert.ErrorContains(t, err, "unknown format")
}
