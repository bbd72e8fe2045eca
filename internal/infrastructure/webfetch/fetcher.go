// Package webfetch retrieves web pages and reduces them to their
// visible text for summarization and page composition.
package webfetch

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"resty.dev/v3"

	"coursegpt-server/internal/config"
	"coursegpt-server/internal/domain/capability"
	"coursegpt-server/internal/utils/platformerrors"
)

const userAgent = "coursegpt-server/1.0"

// Fetcher implements the web fetch port with retry and a circuit
// breaker in front of the HTTP client.
type Fetcher struct {
	client   *resty.Client
	retryCfg RetryConfig
	breaker  *CircuitBreaker
}

// New builds a Fetcher from the service configuration.
func New(cfg *config.Config) *Fetcher {
	retryCfg := DefaultRetryConfig()
	if cfg.FetchRetryAttempts > 0 {
		retryCfg.MaxAttempts = cfg.FetchRetryAttempts
	}
	cbCfg := DefaultCircuitBreakerConfig()
	cbCfg.Enabled = cfg.FetchCBEnabled
	return &Fetcher{
		client:   resty.New().SetTimeout(cfg.FetchTimeout).SetHeader("User-Agent", userAgent),
		retryCfg: retryCfg,
		breaker:  NewCircuitBreaker(cbCfg),
	}
}

// Fetch downloads url and returns its visible text.
func (f *Fetcher) Fetch(ctx context.Context, url string) (capability.FetchResult, error) {
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return capability.FetchResult{}, platformerrors.NewError(ctx, platformerrors.LayerInfrastructure,
			platformerrors.ErrorTypeValidation, fmt.Sprintf("not an http(s) URL: %q", url), nil, "")
	}

	body, err := withRetry(ctx, f.retryCfg, "webfetch", func() (*[]byte, error) {
		var raw []byte
		cbErr := f.breaker.Execute("webfetch", func() error {
			resp, reqErr := f.client.R().SetContext(ctx).Get(url)
			if reqErr != nil {
				return reqErr
			}
			if resp.IsError() {
				return fmt.Errorf("fetch returned %d for %s", resp.StatusCode(), url)
			}
			raw = resp.Bytes()
			return nil
		})
		if cbErr != nil {
			return nil, cbErr
		}
		return &raw, nil
	})
	if err != nil {
		return capability.FetchResult{}, platformerrors.AsError(ctx, platformerrors.LayerInfrastructure, err, "web fetch failed")
	}

	text := extractVisibleText(*body)
	if text == "" {
		return capability.FetchResult{}, platformerrors.NewError(ctx, platformerrors.LayerInfrastructure,
			platformerrors.ErrorTypeExternal, "page had no readable text", nil, "")
	}
	return capability.FetchResult{URL: url, Text: text}, nil
}

// extractVisibleText walks the parsed document collecting text nodes,
// skipping script and style subtrees.
func extractVisibleText(htmlBytes []byte) string {
	doc, err := html.Parse(strings.NewReader(string(htmlBytes)))
	if err != nil {
		return ""
	}

	var builder strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			val := strings.Join(strings.Fields(n.Data), " ")
			if val != "" {
				if builder.Len() > 0 {
					builder.WriteString(" ")
				}
				builder.WriteString(val)
			}
		}
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return builder.String()
}
