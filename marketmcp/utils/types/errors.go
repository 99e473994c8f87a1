package types

import "errors"

var (
	ErrDomainNotAllowed = errors.New("Domain not allowed by allowlist")
	ErrContentTooLarge  = errors.New("Content too large; aborted")
	ErrHTTPStatus       = errors.New("HTTP error")
	ErrValidation       = errors.New("validation error")
	ErrUnknownTool      = errors.New("Unknown tool")
	ErrUnknownAction    = errors.New("unknown action")
)
