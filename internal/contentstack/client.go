// Package contentstack talks to the Contentstack content delivery API.
package contentstack

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/iliyamo/booksphere/internal/config"
)

// Content type uids as provisioned in the stack.
const (
	TypeEvent              = "event"
	TypeBanner             = "banner"
	TypeGlobalConfig       = "global_config"
	TypeTierRule           = "tier_rule"
	TypeRecommendationRule = "recommendation_rule"
)

var (
	ErrNotConfigured = errors.New("contentstack: credentials not configured")
	ErrBadStatus     = errors.New("contentstack: unexpected status")
	ErrMalformed     = errors.New("contentstack: malformed payload")
)

// Client fetches entries of a content type.  It is safe for concurrent use.
type Client struct {
	apiKey        string
	deliveryToken string
	environment   string
	baseURL       string
	timeout       time.Duration
	logger        *logrus.Logger
	hc            *http.Client
}

// NewClient builds a client from cfg.  A nil http.Client uses
// http.DefaultClient; every request is still bounded by cfg.Timeout.
func NewClient(cfg config.ContentstackConfig, logger *logrus.Logger, hc *http.Client) *Client {
	if hc == nil {
		hc = http.DefaultClient
	}
	host := strings.TrimRight(cfg.Host, "/")
	if !strings.HasPrefix(host, "http://") && !strings.HasPrefix(host, "https://") {
		host = "https://" + host
	}
	return &Client{
		apiKey:        cfg.APIKey,
		deliveryToken: cfg.DeliveryToken,
		environment:   cfg.Environment,
		baseURL:       host,
		timeout:       cfg.Timeout,
		logger:        logger,
		hc:            hc,
	}
}

// Configured reports whether all three credentials are present.
func (c *Client) Configured() bool {
	return c.apiKey != "" && c.deliveryToken != "" && c.environment != ""
}

// Entries loads GET /v3/content_types/{type}/entries and decodes the
// "entries" array into out.
func (c *Client) Entries(ctx context.Context, contentType string, out any) error {
	if !c.Configured() {
		return ErrNotConfigured
	}
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	u := fmt.Sprintf("%s/v3/content_types/%s/entries?environment=%s",
		c.baseURL, url.PathEscape(contentType), url.QueryEscape(c.environment))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("api_key", c.apiKey)
	req.Header.Set("access_token", c.deliveryToken)
	req.Header.Set("Accept", "application/json")

	resp, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", contentType, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read %s: %w", contentType, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.WithContext(ctx).WithFields(logrus.Fields{
			"content_type": contentType,
			"status":       resp.StatusCode,
		}).Debug("contentstack returned non-success status")
		return fmt.Errorf("%w: %d", ErrBadStatus, resp.StatusCode)
	}

	var envelope struct {
		Entries json.RawMessage `json:"entries"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if len(envelope.Entries) == 0 {
		return fmt.Errorf("%w: missing entries", ErrMalformed)
	}
	if err := json.Unmarshal(envelope.Entries, out); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return nil
}
