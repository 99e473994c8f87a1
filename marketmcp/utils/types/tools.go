// marketmcp/utils/types/tools.go
package types

import (
	"encoding/json"
	"time"
)

// Tool names, in the order list_tools reports them.
const (
	ToolFetchURL              = "fetch_url"
	ToolExtractMainText       = "extract_main_text"
	ToolExtractEvidenceQuotes = "extract_evidence_quotes"
	ToolSaveSources           = "save_sources"
	ToolSaveReport            = "save_report"
)

const (
	ActionListTools = "list_tools"
	ActionInvoke    = "invoke"
)

// Request is one line of the tool protocol.
type Request struct {
	Action string          `json:"action"`
	Tool   string          `json:"tool,omitempty"`
	Params json.RawMessage `json:"params,omitempty"`
}

// Response is the envelope written back for every non-blank request line.
type Response struct {
	OK     bool   `json:"ok"`
	Result any    `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
}

type ToolList struct {
	Tools []string `json:"tools"`
}

type FetchResult struct {
	FinalURL    string    `json:"final_url"`
	StatusCode  int       `json:"status_code"`
	FetchedAt   time.Time `json:"fetched_at"`
	ContentType *string   `json:"content_type"`
	HTML        string    `json:"html"`
}

type ExtractResult struct {
	Title         *string `json:"title"`
	MainText      string  `json:"main_text"`
	PublishedDate *string `json:"published_date"`
	Publisher     *string `json:"publisher"`
}

type EvidenceExcerpt struct {
	Claim    string `json:"claim"`
	Excerpt  string `json:"excerpt"`
	Position string `json:"position"`
}

// EvidenceQuotesResult wraps excerpts for transports that require an object result.
type EvidenceQuotesResult struct {
	Excerpts []EvidenceExcerpt `json:"excerpts"`
}

type PathResult struct {
	Path string `json:"path"`
}

type FetchURLParams struct {
	URL string `json:"url" jsonschema:"absolute http or https URL to fetch"`
}

type ExtractMainTextParams struct {
	HTML    string `json:"html" jsonschema:"raw HTML document"`
	BaseURL string `json:"base_url,omitempty" jsonschema:"page URL, used for the publisher fallback"`
}

type EvidenceQuotesParams struct {
	Text   string   `json:"text" jsonschema:"full text to search"`
	Claims []string `json:"claims,omitempty" jsonschema:"claims to locate, one excerpt is returned per claim"`
}

type SaveSourcesParams struct {
	Records    []SourceRecordParams `json:"records" jsonschema:"source records, url and fetched_at are required"`
	OutputPath string               `json:"output_path,omitempty" jsonschema:"destination JSON file"`
}

type SaveReportParams struct {
	MarkdownText string `json:"markdown_text" jsonschema:"markdown written verbatim"`
	OutputPath   string `json:"output_path,omitempty" jsonschema:"destination markdown file"`
}
