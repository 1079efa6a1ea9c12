// Package dealstore is the HTTP client for the deal-store API. It is the
// only network boundary the pipeline coordinator suspends on.
package dealstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"dealdesk/internal/models"
	"dealdesk/internal/pipeline"
)

type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

func NewClient(baseURL, token string) *Client {
	return NewClientWithHTTP(baseURL, token, &http.Client{Timeout: 15 * time.Second})
}

func NewClientWithHTTP(baseURL, token string, hc *http.Client) *Client {
	return &Client{baseURL: baseURL, token: token, http: hc}
}

var _ pipeline.DealStore = (*Client)(nil)

func (c *Client) ListByPipeline(ctx context.Context, f pipeline.Filter) (models.PipelineBoard, error) {
	q := url.Values{}
	if f.DealTypeID != 0 {
		q.Set("deal_type_id", strconv.FormatInt(f.DealTypeID, 10))
	}
	if f.AssignedTo != 0 {
		q.Set("assigned_to", strconv.FormatInt(f.AssignedTo, 10))
	}
	if f.Limit != 0 {
		q.Set("limit", strconv.Itoa(f.Limit))
	}
	path := "/deals/pipeline"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var board models.PipelineBoard
	if err := c.do(ctx, http.MethodGet, path, nil, &board); err != nil {
		return models.PipelineBoard{}, err
	}
	return board, nil
}

func (c *Client) ChangeStage(ctx context.Context, dealID int64, req models.ChangeStageRequest) (*models.Deal, error) {
	var deal models.Deal
	path := fmt.Sprintf("/deals/%d/stage", dealID)
	if err := c.do(ctx, http.MethodPost, path, req, &deal); err != nil {
		return nil, err
	}
	return &deal, nil
}

// GetDealType fetches a deal type so callers can classify its stages. Not
// part of pipeline.DealStore; the transition engine needs the stage list
// before any store call happens.
func (c *Client) GetDealType(ctx context.Context, id int64) (*models.DealType, error) {
	var dt models.DealType
	path := fmt.Sprintf("/deal-types/%d", id)
	if err := c.do(ctx, http.MethodGet, path, nil, &dt); err != nil {
		return nil, err
	}
	return &dt, nil
}

func (c *Client) UpdateDeal(ctx context.Context, dealID int64, patch models.DealPatch) (*models.Deal, error) {
	var deal models.Deal
	path := fmt.Sprintf("/deals/%d", dealID)
	if err := c.do(ctx, http.MethodPut, path, patch, &deal); err != nil {
		return nil, err
	}
	return &deal, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("deal store: encode request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("deal store: build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("deal store: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr struct {
			Error string `json:"error"`
		}
		raw, _ := io.ReadAll(resp.Body)
		if json.Unmarshal(raw, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("deal store: %s %s: %s (status %d)", method, path, apiErr.Error, resp.StatusCode)
		}
		return fmt.Errorf("deal store: %s %s: status %d", method, path, resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("deal store: decode response: %w", err)
	}
	return nil
}
