// Package remote implements the client side of the applications service
// HTTP API and classifies every failure into a model.FailureKind.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gregjones/httpcache"

	"github.com/mb3rlab/pilotdesk/internal/domain/model"
	"github.com/mb3rlab/pilotdesk/internal/domain/port/driven"
)

const (
	applicationsPath = "/api/applications"
	adminPassHeader  = "X-Admin-Pass"

	// maxBodySize caps how much of a response body is read.
	maxBodySize = 8 << 20
)

var (
	_ driven.RemoteFetcher   = (*Client)(nil)
	_ driven.RemoteSubmitter = (*Client)(nil)
)

// Client talks to the applications service. A Client built with an empty base
// URL is valid: every call fails with model.FailureNotConfigured.
type Client struct {
	http     *http.Client
	endpoint string // Absolute URL of the applications collection; empty when not configured.
	lang     string
}

// NewClient creates a Client whose transport revalidates listings with ETags
// through an in-memory httpcache. timeout bounds each request.
func NewClient(baseURL string, timeout time.Duration, lang string) (*Client, error) {
	httpClient := &http.Client{
		Transport: httpcache.NewMemoryCacheTransport(),
		Timeout:   timeout,
	}
	return NewClientWithHTTPClient(httpClient, baseURL, lang)
}

// NewClientWithHTTPClient creates a Client with a caller-supplied http.Client.
func NewClientWithHTTPClient(httpClient *http.Client, baseURL, lang string) (*Client, error) {
	c := &Client{http: httpClient, lang: lang}

	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return c, nil
	}

	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse service URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("parse service URL: unsupported scheme %q", u.Scheme)
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + applicationsPath
	u.RawQuery = ""
	c.endpoint = u.String()

	return c, nil
}

// Configured reports whether the client has a service endpoint.
func (c *Client) Configured() bool { return c.endpoint != "" }

// ListSubmissions fetches every submission, newest first.
func (c *Client) ListSubmissions(ctx context.Context, credential string) ([]model.Submission, error) {
	if !c.Configured() {
		return nil, notConfigured()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, nil)
	if err != nil {
		return nil, &driven.RemoteError{Kind: model.FailureInternal, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if credential != "" {
		req.Header.Set(adminPassHeader, credential)
	}
	c.setLanguage(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &driven.RemoteError{Kind: model.FailureUnreachable, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, &driven.RemoteError{Kind: model.FailureUnreachable, Status: resp.StatusCode, Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, classify(resp.StatusCode, body)
	}

	var payload []submissionJSON
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, malformed(resp.StatusCode, err)
	}

	subs := make([]model.Submission, 0, len(payload))
	for i, p := range payload {
		sub, err := p.toModel()
		if err != nil {
			return nil, malformed(resp.StatusCode, fmt.Errorf("record %d: %w", i, err))
		}
		subs = append(subs, sub)
	}
	return subs, nil
}

// Submit posts a submission to the intake endpoint.
func (c *Client) Submit(ctx context.Context, input model.SubmissionInput) (driven.SubmitReceipt, error) {
	if !c.Configured() {
		return driven.SubmitReceipt{}, notConfigured()
	}

	payload, err := json.Marshal(submitRequest{
		Email:   input.Email,
		Company: input.Company,
		Comment: input.Comment,
	})
	if err != nil {
		return driven.SubmitReceipt{}, &driven.RemoteError{Kind: model.FailureInternal, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return driven.SubmitReceipt{}, &driven.RemoteError{Kind: model.FailureInternal, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	c.setLanguage(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return driven.SubmitReceipt{}, &driven.RemoteError{Kind: model.FailureUnreachable, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return driven.SubmitReceipt{}, &driven.RemoteError{Kind: model.FailureUnreachable, Status: resp.StatusCode, Err: err}
	}

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return driven.SubmitReceipt{}, classify(resp.StatusCode, body)
	}

	var r receiptJSON
	if err := json.Unmarshal(body, &r); err != nil {
		return driven.SubmitReceipt{}, malformed(resp.StatusCode, err)
	}
	if r.ID == "" {
		return driven.SubmitReceipt{}, malformed(resp.StatusCode, errors.New("missing id"))
	}

	receipt := driven.SubmitReceipt{ID: string(r.ID), Country: r.Country, Message: r.Message}
	if r.CreatedAt != "" {
		receipt.CreatedAt, err = parseTimestamp(r.CreatedAt)
		if err != nil {
			return driven.SubmitReceipt{}, malformed(resp.StatusCode, err)
		}
	}
	return receipt, nil
}

func (c *Client) setLanguage(req *http.Request) {
	if c.lang != "" {
		req.Header.Set("Accept-Language", c.lang)
	}
}

// classify maps a non-success status to a failure kind. Every 5xx is treated
// as the service being unreachable.
func classify(status int, body []byte) *driven.RemoteError {
	re := &driven.RemoteError{Status: status, Message: errorMessage(body)}

	switch {
	case status == http.StatusBadRequest:
		re.Kind = model.FailureValidation
	case status == http.StatusUnauthorized:
		re.Kind = model.FailureUnauthorized
	case status == http.StatusForbidden:
		re.Kind = model.FailureForbidden
	case status == http.StatusNotFound || status == http.StatusMethodNotAllowed:
		re.Kind = model.FailureEndpointAbsent
	case status >= 400 && status < 500:
		re.Kind = model.FailureClientError
	case status >= 500:
		re.Kind = model.FailureUnreachable
	default:
		re.Kind = model.FailureInternal
	}
	return re
}

func notConfigured() *driven.RemoteError {
	return &driven.RemoteError{
		Kind: model.FailureNotConfigured,
		Err:  errors.New("no service endpoint configured"),
	}
}

func malformed(status int, err error) *driven.RemoteError {
	return &driven.RemoteError{
		Kind:   model.FailureInternal,
		Status: status,
		Err:    fmt.Errorf("decode response: %w", err),
	}
}

// errorMessage extracts {"message": ...} or {"error": ...} from an error body.
func errorMessage(body []byte) string {
	var e struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &e); err != nil {
		return ""
	}
	if e.Message != "" {
		return e.Message
	}
	return e.Error
}

// --- wire types ---

type submitRequest struct {
	Email   string `json:"email"`
	Company string `json:"company"`
	Comment string `json:"comment,omitempty"`
}

type receiptJSON struct {
	ID        flexibleID `json:"id"`
	CreatedAt string     `json:"created_at"`
	Country   string     `json:"country"`
	Message   string     `json:"message"`
}

type submissionJSON struct {
	ID        flexibleID `json:"id"`
	Email     string     `json:"email"`
	Company   string     `json:"company"`
	Comment   *string    `json:"comment"`
	Country   *string    `json:"country"`
	CreatedAt string     `json:"created_at"`
}

func (p submissionJSON) toModel() (model.Submission, error) {
	if p.ID == "" {
		return model.Submission{}, errors.New("missing id")
	}
	createdAt, err := parseTimestamp(p.CreatedAt)
	if err != nil {
		return model.Submission{}, err
	}

	sub := model.Submission{
		ID:        string(p.ID),
		Email:     p.Email,
		Company:   p.Company,
		CreatedAt: createdAt,
		Source:    model.SourceRemote,
	}
	if p.Comment != nil {
		sub.Comment = *p.Comment
	}
	if p.Country != nil {
		sub.Country = *p.Country
	}
	return sub, nil
}

// flexibleID accepts an identifier encoded as either a JSON string or number.
type flexibleID string

func (id *flexibleID) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = flexibleID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id: %w", err)
	}
	if _, err := strconv.ParseFloat(n.String(), 64); err != nil {
		return fmt.Errorf("id: %w", err)
	}
	*id = flexibleID(n.String())
	return nil
}

func parseTimestamp(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02 15:04:05", "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}
