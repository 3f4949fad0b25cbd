// ABOUTME: Airtable REST client for one table
// ABOUTME: Bearer-authenticated list, probe, create, and update calls paced under the API rate limit
package sync

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

// DefaultRequestsPerSecond is Airtable's per-base request limit.
const DefaultRequestsPerSecond = 5

const listPageSize = 100

// Record is an Airtable record. ID is empty for records not yet created.
type Record struct {
	ID          string `json:"id,omitempty"`
	CreatedTime string `json:"createdTime,omitempty"`
	Fields      Fields `json:"fields"`
}

type listResponse struct {
	Records []Record `json:"records"`
	Offset  string   `json:"offset,omitempty"`
}

type writeRequest struct {
	Fields Fields `json:"fields"`
}

// airtableClient is bound to one Config for the lifetime of one operation.
type airtableClient struct {
	http     *http.Client
	tableURL string
	limiter  *rate.Limiter
	logger   *zap.Logger
}

func newAirtableClient(ctx context.Context, cfg Config, base *http.Client, rps rate.Limit, logger *zap.Logger) *airtableClient {
	if base == nil {
		base = http.DefaultClient
	}
	ctx = context.WithValue(ctx, oauth2.HTTPClient, base)

	// StaticTokenSource sends "Authorization: Bearer <api key>" on every request.
	httpClient := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.APIKey}))
	httpClient.Timeout = base.Timeout

	return &airtableClient{
		http:     httpClient,
		tableURL: cfg.TableURL(),
		limiter:  rate.NewLimiter(rps, 1),
		logger:   logger,
	}
}

// Probe fetches at most one record to check reachability and authorization.
func (c *airtableClient) Probe(ctx context.Context) error {
	q := url.Values{}
	q.Set("maxRecords", "1")
	return c.do(ctx, http.MethodGet, c.tableURL+"?"+q.Encode(), nil, nil)
}

// ListRecords fetches every record in the table, following pagination.
func (c *airtableClient) ListRecords(ctx context.Context) ([]Record, error) {
	var records []Record
	offset := ""

	for {
		q := url.Values{}
		q.Set("pageSize", strconv.Itoa(listPageSize))
		if offset != "" {
			q.Set("offset", offset)
		}

		var page listResponse
		if err := c.do(ctx, http.MethodGet, c.tableURL+"?"+q.Encode(), nil, &page); err != nil {
			return nil, err
		}

		records = append(records, page.Records...)

		if page.Offset == "" {
			break
		}
		offset = page.Offset
	}

	return records, nil
}

// CreateRecord creates one record and returns it with its new id.
func (c *airtableClient) CreateRecord(ctx context.Context, fields Fields) (*Record, error) {
	var created Record
	if err := c.do(ctx, http.MethodPost, c.tableURL, writeRequest{Fields: fields}, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateRecord patches the given fields of one record.
func (c *airtableClient) UpdateRecord(ctx context.Context, id string, fields Fields) (*Record, error) {
	var updated Record
	endpoint := c.tableURL + "/" + url.PathEscape(id)
	if err := c.do(ctx, http.MethodPatch, endpoint, writeRequest{Fields: fields}, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (c *airtableClient) do(ctx context.Context, method, endpoint string, body, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	}
	defer func() { _ = resp.Body.Close() }()

	c.logger.Debug("airtable request",
		zap.String("method", method),
		zap.String("url", endpoint),
		zap.Int("status", resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: failed to decode response: %w", ErrConnectionFailed, err)
	}

	return nil
}

// decodeAPIError reads Airtable's error body, which is either
// {"error":{"type":...,"message":...}} or {"error":"NOT_FOUND"}.
func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	var envelope struct {
		Error json.RawMessage `json:"error"`
	}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if json.Unmarshal(data, &envelope) == nil && len(envelope.Error) > 0 {
		var detail struct {
			Type    string `json:"type"`
			Message string `json:"message"`
		}
		var code string
		if json.Unmarshal(envelope.Error, &detail) == nil {
			apiErr.Type = detail.Type
			apiErr.Message = detail.Message
		} else if json.Unmarshal(envelope.Error, &code) == nil {
			apiErr.Type = code
		}
	}

	if apiErr.Type == "" && apiErr.Message == "" {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}

	return apiErr
}
