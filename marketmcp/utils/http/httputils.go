// marketmcp/utils/http/httputils.go
package httputils

import (
	"io"
	"net/http"
	"time"
)

// Doer is the part of *http.Client the fetcher needs. Tests swap in fakes.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// NewClient returns a client that follows redirects and gives up after timeout.
func NewClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}

// ReadLimited reads the whole body unless it grows past limit bytes, in which
// case it stops early and reports exceeded. A limit <= 0 reads everything.
func ReadLimited(r io.Reader, limit int64) (body []byte, exceeded bool, err error) {
	if limit <= 0 {
		body, err = io.ReadAll(r)
		return body, false, err
	}
	body, err = io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, false, err
	}
	if int64(len(body)) > limit {
		return nil, true, nil
	}
	return body, false, nil
}
