// Package translate wraps the MyMemory translation endpoint.
//
// Translate never returns an error: transport, status and response-shape
// failures are folded into the returned text so the chat can display them.
package translate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

const (
	DefaultEndpoint = "https://api.mymemory.translated.net/get"
	DefaultLangPair = "en|hi"

	// Matches at or below this quality are only used as a last resort.
	QualityThreshold = 70

	EmptyInputReply = "Please provide some English text to translate."
)

var (
	ErrNotFound  = errors.New("translation not found in API response")
	ErrMalformed = errors.New("malformed API response")
)

type Options struct {
	Endpoint  string
	LangPair  string
	Timeout   time.Duration // zero means no timeout
	CacheSize int           // zero disables caching
	HTTP      *http.Client
	Logger    *zap.Logger
}

type Client struct {
	endpoint string
	langPair string
	http     *http.Client
	cache    *lru.Cache[string, string]
	logger   *zap.Logger
}

func New(opts Options) (*Client, error) {
	c := &Client{
		endpoint: opts.Endpoint,
		langPair: opts.LangPair,
		http:     opts.HTTP,
		logger:   opts.Logger,
	}
	if c.endpoint == "" {
		c.endpoint = DefaultEndpoint
	}
	if c.langPair == "" {
		c.langPair = DefaultLangPair
	}
	if c.http == nil {
		c.http = &http.Client{Timeout: opts.Timeout}
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	if opts.CacheSize > 0 {
		cache, err := lru.New[string, string](opts.CacheSize)
		if err != nil {
			return nil, err
		}
		c.cache = cache
	}
	return c, nil
}

// Translate returns the translation of text, or a readable failure message.
func (c *Client) Translate(ctx context.Context, text string) string {
	if strings.TrimSpace(text) == "" {
		return EmptyInputReply
	}

	if c.cache != nil {
		if hit, ok := c.cache.Get(text); ok {
			c.logger.Debug("translation cache hit", zap.Int("chars", len(text)))
			return hit
		}
	}

	out, err := c.fetch(ctx, text)
	if err != nil {
		c.logger.Warn("translation failed", zap.Error(err))
		return FailureReply(err)
	}
	if c.cache != nil {
		c.cache.Add(text, out)
	}
	return out
}

func (c *Client) CloseIdleConnections() {
	c.http.CloseIdleConnections()
}

// FailureReply is the text shown in place of a translation when the call fails.
func FailureReply(err error) string {
	return fmt.Sprintf("Sorry, I couldn't translate that. Error: %s. Please try again.", strings.TrimSuffix(err.Error(), "."))
}

func (c *Client) fetch(ctx context.Context, text string) (string, error) {
	q := url.Values{}
	q.Set("q", text)
	q.Set("langpair", c.langPair)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return "", err
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	c.logger.Debug("translation response",
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("API request failed with status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	return ParseResponse(body)
}

// ParseResponse picks the translation out of a MyMemory response body.
//
// responseData.translatedText wins when present. Otherwise the best match
// above QualityThreshold is used, falling back to the first match.
func ParseResponse(body []byte) (string, error) {
	if !gjson.ValidBytes(body) {
		return "", ErrMalformed
	}
	doc := gjson.ParseBytes(body)
	if !doc.IsObject() {
		return "", ErrMalformed
	}

	if direct := doc.Get("responseData.translatedText").String(); direct != "" {
		return direct, nil
	}

	matches := doc.Get("matches").Array()
	if len(matches) == 0 {
		return "", ErrNotFound
	}

	best := ""
	bestQuality := float64(QualityThreshold)
	for _, m := range matches {
		tr := m.Get("translation").String()
		// quality arrives as a number or a numeric string; Float handles both
		q := m.Get("quality").Float()
		if tr != "" && q > bestQuality {
			best, bestQuality = tr, q
		}
	}
	if best != "" {
		return best, nil
	}

	if first := matches[0].Get("translation").String(); first != "" {
		return first, nil
	}
	return "", ErrNotFound
}
