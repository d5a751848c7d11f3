// Package backend implements the document service HTTP client. The engine
// issues no other network I/O: every call here corresponds to one of the
// consumed endpoints (action execution, draft update, ancillary lookups).
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/officedrive/approvalflow/internal/domain/entity"
)

// Config holds backend client configuration.
type Config struct {
	BaseURL     string
	BearerToken string
	Timeout     time.Duration
}

// Client is the document service HTTP client.
type Client struct {
	baseURL     string
	bearerToken string
	httpClient  *http.Client
	logger      *zap.Logger
}

// NewClient creates a client with the configured timeout applied to every
// request on top of the caller's context.
func NewClient(cfg Config, logger *zap.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		bearerToken: cfg.BearerToken,
		httpClient:  &http.Client{Timeout: timeout},
		logger:      logger,
	}
}

// ExecuteAction PUTs the composed submission payload to the execution
// endpoint for the given service slug.
func (c *Client) ExecuteAction(ctx context.Context, service string, payload entity.SubmissionPayload) error {
	path := "/service-workers/" + url.PathEscape(service)
	return c.put(ctx, path, payload, nil)
}

// UpdateDraft commits an input-flow action's data against the draft.
func (c *Client) UpdateDraft(ctx context.Context, draftID int64, update entity.DraftUpdate) error {
	path := fmt.Sprintf("/documentUpdates/%d", draftID)
	return c.put(ctx, path, update, nil)
}

// FetchDocumentByRef looks up a document by its reference string.
func (c *Client) FetchDocumentByRef(ctx context.Context, reference string) (*entity.Document, error) {
	var doc entity.Document
	path := "/documents/ref/" + url.PathEscape(reference)
	if err := c.get(ctx, path, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// FetchAuthorisingStaff lists the staff who may authorise submissions for
// a group.
func (c *Client) FetchAuthorisingStaff(ctx context.Context, groupID int64) ([]entity.AuthorisingStaff, error) {
	var staff []entity.AuthorisingStaff
	path := fmt.Sprintf("/groups/%d/authorising-staff", groupID)
	if err := c.get(ctx, path, &staff); err != nil {
		return nil, err
	}
	return staff, nil
}

func (c *Client) put(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPut, path, body, out)
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.bearerToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.bearerToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.logger.Warn("backend request rejected",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode))
		return fmt.Errorf("%s %s: status %d: %s", method, path, resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
