package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"codeberg.org/snonux/wordwire/internal/language"
	"codeberg.org/snonux/wordwire/internal/session"
)

const (
	defaultTranslatePath = "/api/transapi"
	defaultSpeechPath    = "/api/speech"
	defaultTimeout       = 30 * time.Second

	// One refresh-then-retry per operation, no more
	maxRetries = 1

	// Fixed target for language detection requests
	detectTargetTag = "en"
)

// Config holds the endpoint configuration for one provider deployment.
type Config struct {
	BaseURL       string // e.g. "https://fanyi.example.com"
	TranslatePath string
	SpeechPath    string
	Timeout       time.Duration
}

func (c *Config) applyDefaults() {
	if c.TranslatePath == "" {
		c.TranslatePath = defaultTranslatePath
	}
	if c.SpeechPath == "" {
		c.SpeechPath = defaultSpeechPath
	}
	if c.Timeout == 0 {
		c.Timeout = defaultTimeout
	}
}

// Client is the translation endpoint adapter. All calls go through a
// circuit breaker so a dead endpoint trips fast instead of forcing every
// caller through the full refresh-and-retry dance.
type Client struct {
	config     Config
	httpClient *http.Client
	table      *language.Table
	store      *session.Store
	refresher  *session.Refresher
	breaker    *gobreaker.CircuitBreaker
}

// NewClient creates a provider client. httpClient may be nil, in which
// case a default client with the configured timeout is used; passing the
// visitor's jar-backed client keeps API calls on the same cookie state as
// the page visit.
func NewClient(config Config, table *language.Table, store *session.Store, refresher *session.Refresher, httpClient *http.Client) (*Client, error) {
	if config.BaseURL == "" {
		return nil, fmt.Errorf("provider base URL is required")
	}
	config.applyDefaults()

	if httpClient == nil {
		httpClient = &http.Client{Timeout: config.Timeout}
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "provider",
		Timeout: 60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})

	return &Client{
		config:     config,
		httpClient: httpClient,
		table:      table,
		store:      store,
		refresher:  refresher,
		breaker:    breaker,
	}, nil
}

// Table returns the language table the client resolves tags against.
func (c *Client) Table() *language.Table {
	return c.table
}

// Translate translates text from one canonical tag to another. fromTag
// may be "auto". A response missing the expected fields triggers exactly
// one credential refresh and one retry before failing.
func (c *Client) Translate(ctx context.Context, text, fromTag, toTag string) (*Result, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("nothing to translate")
	}

	fromCode, ok := c.table.ProviderCode(fromTag)
	if !ok {
		return nil, fmt.Errorf("unsupported source language: %s", fromTag)
	}
	toCode, ok := c.table.ProviderCode(toTag)
	if !ok || toTag == language.Auto {
		return nil, fmt.Errorf("unsupported target language: %s", toTag)
	}

	var lastStatus int
	var lastRaw string

	for attempt := 0; attempt <= maxRetries; attempt++ {
		if err := c.ensureCredentials(ctx, attempt > 0); err != nil {
			return nil, NewAPIError(0, "credential refresh failed", lastRaw, err)
		}

		status, body, err := c.postTranslate(ctx, text, fromCode, toCode)
		if err != nil {
			return nil, NewAPIError(0, "translation request failed", "", err)
		}
		lastStatus = status
		lastRaw = string(body)

		if status != http.StatusOK {
			// The provider answered; this is not a stale session
			return nil, NewAPIError(status, "provider rejected translation request", lastRaw, nil)
		}

		var resp apiResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			return nil, NewAPIError(status, "malformed provider response", lastRaw, err)
		}

		if resp.complete() {
			sourceTag := fromTag
			if fromTag == language.Auto {
				if tag, ok := c.table.CanonicalTag(resp.Translate.From); ok {
					sourceTag = tag
				}
			}
			return resp.normalize(text, sourceTag, toTag), nil
		}
		// Incomplete response: session is stale, refresh on next attempt
	}

	return nil, NewAPIError(lastStatus, "provider response missing translation after retry", lastRaw, nil)
}

// Detect sends a single auto-source request against the fixed target and
// maps the provider's reported source code back to a canonical tag.
func (c *Client) Detect(ctx context.Context, text string) (string, error) {
	result, err := c.Translate(ctx, text, language.Auto, detectTargetTag)
	if err != nil {
		return "", err
	}
	if result.SourceTag == "" || result.SourceTag == language.Auto {
		return "", NewAPIError(0, "provider reported an unknown source language", "", nil)
	}
	return result.SourceTag, nil
}

// SpeechURL builds the text-to-speech audio URL for text in the language
// identified by tag, authorized by the given session identifier.
func (c *Client) SpeechURL(text, tag, sessionID string) (string, error) {
	code, ok := c.table.ProviderCode(tag)
	if !ok || tag == language.Auto {
		return "", fmt.Errorf("unsupported speech language: %s", tag)
	}

	params := url.Values{}
	params.Set("text", text)
	params.Set("lang", code)
	params.Set("uuid", sessionID)
	return c.config.BaseURL + c.config.SpeechPath + "?" + params.Encode(), nil
}

// Refresh forces a credential refresh, used by callers recovering from
// speech failures.
func (c *Client) Refresh(ctx context.Context) error {
	_, err := c.refresher.Refresh(ctx)
	return err
}

// ensureCredentials makes sure the store holds usable tokens. force
// discards whatever is stored first (the retry path).
func (c *Client) ensureCredentials(ctx context.Context, force bool) error {
	if force {
		c.store.Clear()
	}
	if c.store.Get().Valid() {
		return nil
	}
	_, err := c.refresher.Refresh(ctx)
	return err
}

type postResult struct {
	status int
	body   []byte
}

// postTranslate performs the form-encoded POST through the breaker.
func (c *Client) postTranslate(ctx context.Context, text, fromCode, toCode string) (int, []byte, error) {
	creds := c.store.Get()

	form := url.Values{}
	form.Set("from", fromCode)
	form.Set("to", toCode)
	form.Set("text", text)
	form.Set("uid", creds.UID)
	form.Set("token", creds.Token)

	res, err := c.breaker.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, "POST",
			c.config.BaseURL+c.config.TranslatePath, strings.NewReader(form.Encode()))
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("request failed: %w", err)
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to read response: %w", err)
		}
		return &postResult{status: resp.StatusCode, body: body}, nil
	})
	if err != nil {
		return 0, nil, err
	}

	pr := res.(*postResult)
	return pr.status, pr.body, nil
}
