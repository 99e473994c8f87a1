package fetcher

import (
	"context"
	"fmt"
	"marketmcp/marketmcp/config"
	httputils "marketmcp/marketmcp/utils/http"
	"marketmcp/marketmcp/utils/logging"
	"marketmcp/marketmcp/utils/types"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Fetcher performs plain HTTP GETs under the configured allowlist and size cap.
type Fetcher struct {
	client httputils.Doer
	now    func() time.Time
}

// NewFetcher uses client for every request. A nil client gets a default
// *http.Client per call, sized to the configured timeout.
func NewFetcher(client httputils.Doer) *Fetcher {
	return &Fetcher{client: client, now: time.Now}
}

// FetchURL downloads targetURL. The allowlist is checked before any network
// call; the size cap is checked before the status code.
func (f *Fetcher) FetchURL(ctx context.Context, targetURL string, cfg config.HTTPConfig) (types.FetchResult, error) {
	defer logging.LogDuration(ctx, "FetchURL")()

	if err := types.CheckHTTPURL(targetURL); err != nil {
		return types.FetchResult{}, err
	}
	u, _ := url.Parse(targetURL)

	if !Allowed(u.Hostname(), cfg.AllowDomains) {
		return types.FetchResult{}, fmt.Errorf("%w: %s", types.ErrDomainNotAllowed, u.Hostname())
	}

	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return types.FetchResult{}, err
	}
	req.Header.Set("User-Agent", cfg.UserAgent)

	client := f.client
	if client == nil {
		client = httputils.NewClient(timeout)
	}

	resp, err := client.Do(req)
	if err != nil {
		return types.FetchResult{}, fmt.Errorf("fetch %s: %w", targetURL, err)
	}
	defer resp.Body.Close()

	body, exceeded, err := httputils.ReadLimited(resp.Body, cfg.MaxContentLength)
	if err != nil {
		return types.FetchResult{}, fmt.Errorf("read %s: %w", targetURL, err)
	}
	if exceeded {
		logging.AppLogger.Warn("fetch aborted, body over cap",
			zap.String("url", targetURL),
			zap.Int64("max_content_length", cfg.MaxContentLength))
		return types.FetchResult{}, types.ErrContentTooLarge
	}

	if resp.StatusCode >= 400 {
		return types.FetchResult{}, fmt.Errorf("%w: %d %s for url: %s",
			types.ErrHTTPStatus, resp.StatusCode, http.StatusText(resp.StatusCode), finalURL(resp, targetURL))
	}

	var contentType *string
	if ct := resp.Header.Get("Content-Type"); ct != "" {
		contentType = &ct
	}

	return types.FetchResult{
		FinalURL:    finalURL(resp, targetURL),
		StatusCode:  resp.StatusCode,
		FetchedAt:   f.now().UTC(),
		ContentType: contentType,
		HTML:        string(body),
	}, nil
}

// Allowed reports whether host ends with one of domains. An empty list allows all.
func Allowed(host string, domains []string) bool {
	if len(domains) == 0 {
		return true
	}
	host = strings.ToLower(host)
	for _, d := range domains {
		if strings.HasSuffix(host, strings.ToLower(d)) {
			return true
		}
	}
	return false
}

// finalURL is the URL of the last request in the redirect chain.
func finalURL(resp *http.Response, fallback string) string {
	if resp.Request != nil && resp.Request.URL != nil {
		return resp.Request.URL.String()
	}
	return fallback
}
