package types

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// SourceRecord is a validated citation as it is written to disk.
type SourceRecord struct {
	URL           string    `json:"url"`
	FinalURL      *string   `json:"final_url"`
	FetchedAt     time.Time `json:"fetched_at"`
	Title         *string   `json:"title"`
	Publisher     *string   `json:"publisher"`
	PublishedDate *string   `json:"published_date"`
	Category      *string   `json:"category"`
	Confidence    *string   `json:"confidence"`
}

// SourceRecordParams is a record as callers send it. Everything is a string
// so missing required fields surface as validation errors rather than
// decode errors.
type SourceRecordParams struct {
	URL           string  `json:"url,omitempty" jsonschema:"source URL, required"`
	FinalURL      *string `json:"final_url,omitempty" jsonschema:"URL after redirects"`
	FetchedAt     string  `json:"fetched_at,omitempty" jsonschema:"fetch timestamp (RFC 3339), required"`
	Title         *string `json:"title,omitempty"`
	Publisher     *string `json:"publisher,omitempty"`
	PublishedDate *string `json:"published_date,omitempty"`
	Category      *string `json:"category,omitempty"`
	Confidence    *string `json:"confidence,omitempty"`
}

// naive timestamps (no zone) are read as UTC
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
}

// Record validates p. field prefixes the field name in errors, e.g. "records[2]".
func (p SourceRecordParams) Record(field string) (SourceRecord, error) {
	rawURL := strings.TrimSpace(p.URL)
	if rawURL == "" {
		return SourceRecord{}, fmt.Errorf("%w: %s.url: field required", ErrValidation, field)
	}
	if err := checkHTTPURL(rawURL); err != nil {
		return SourceRecord{}, fmt.Errorf("%w: %s.url: %v", ErrValidation, field, err)
	}

	var finalURL *string
	if p.FinalURL != nil && strings.TrimSpace(*p.FinalURL) != "" {
		u := strings.TrimSpace(*p.FinalURL)
		if err := checkHTTPURL(u); err != nil {
			return SourceRecord{}, fmt.Errorf("%w: %s.final_url: %v", ErrValidation, field, err)
		}
		finalURL = &u
	}

	if strings.TrimSpace(p.FetchedAt) == "" {
		return SourceRecord{}, fmt.Errorf("%w: %s.fetched_at: field required", ErrValidation, field)
	}
	fetchedAt, err := ParseTimestamp(p.FetchedAt)
	if err != nil {
		return SourceRecord{}, fmt.Errorf("%w: %s.fetched_at: %v", ErrValidation, field, err)
	}

	return SourceRecord{
		URL:           rawURL,
		FinalURL:      finalURL,
		FetchedAt:     fetchedAt,
		Title:         p.Title,
		Publisher:     p.Publisher,
		PublishedDate: p.PublishedDate,
		Category:      p.Category,
		Confidence:    p.Confidence,
	}, nil
}

// ParseTimestamp accepts RFC 3339 or a zone-less ISO timestamp and returns UTC.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid datetime %q", s)
}

func checkHTTPURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid URL %q", raw)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("URL scheme should be 'http' or 'https'")
	}
	if u.Host == "" {
		return fmt.Errorf("URL host required")
	}
	return nil
}

// CheckHTTPURL reports whether raw is an absolute http(s) URL.
func CheckHTTPURL(raw string) error {
	if err := checkHTTPURL(raw); err != nil {
		return fmt.Errorf("%w: url: %v", ErrValidation, err)
	}
	return nil
}
