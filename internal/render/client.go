// Package render is the HTTP client for the external diagram renderer. It
// encodes source text into the request path, issues a bounded GET, and
// classifies every transport failure into the result taxonomy. It performs
// no retries; retry policy, if any, belongs to the caller.
package render

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"umlgate/internal/codec"
	"umlgate/internal/diagram"
	"umlgate/internal/result"
)

// DefaultTimeout bounds a single render call.
const DefaultTimeout = 30 * time.Second

// Client converts diagram source text to images via the renderer's
// GET {base}/{png|svg}/{encoded} endpoint.
type Client struct {
	baseURL string
	httpc   *http.Client
}

// NewClient creates a render client for the given base endpoint. A nil
// httpc gets a default client with DefaultTimeout.
func NewClient(baseURL string, httpc *http.Client) *Client {
	if httpc == nil {
		httpc = &http.Client{Timeout: DefaultTimeout}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   httpc,
	}
}

// Endpoint returns the configured base endpoint.
func (c *Client) Endpoint() string {
	return c.baseURL
}

// Render converts text to an image in the requested format and returns the
// response body.
//
// Any 2xx body is the payload, regardless of content: the renderer is
// documented to answer HTTP 200 even for syntactically invalid input,
// substituting an error image. See IsErrorImage for the unimplemented
// detection capability.
//
// Failures carry a taxonomy code: encode failure -> EncodingFailed, timeout
// -> RendererTimedOut, connection/DNS failure or non-2xx status ->
// RendererUnreachable, anything else -> RendererRejected.
func (c *Client) Render(ctx context.Context, text string, format diagram.ImageFormat) ([]byte, error) {
	encoded, err := codec.Encode(text)
	if err != nil {
		return nil, result.Fail(result.EncodingFailed{Encoding: codec.Name})
	}

	reqURL := fmt.Sprintf("%s/%s/%s", c.baseURL, format.PathSegment(), encoded)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, result.Fail(result.RendererRejected{Message: err.Error()})
	}

	start := time.Now()
	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, c.classify(err, start)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, result.Fail(result.RendererUnreachable{Endpoint: c.baseURL})
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, c.classify(err, start)
	}
	return data, nil
}

// classify maps a transport error to its taxonomy code.
func (c *Client) classify(err error, start time.Time) error {
	if isTimeout(err) {
		return result.Fail(result.RendererTimedOut{
			DurationMs: time.Since(start).Milliseconds(),
		})
	}
	if isUnreachable(err) {
		return result.Fail(result.RendererUnreachable{Endpoint: c.baseURL})
	}
	return result.Fail(result.RendererRejected{Message: err.Error()})
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func isUnreachable(err error) bool {
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}
	// url.Error with a nested syscall failure (connection refused et al.)
	// unwraps to one of the above; a bare url.Error without them is left to
	// the rejected bucket.
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		var nested *net.OpError
		return errors.As(urlErr.Err, &nested)
	}
	return false
}

// IsErrorImage reports whether a 2xx renderer payload embeds a rendered
// syntax-error image instead of a real diagram.
//
// TODO: implement detection (the renderer stamps error images with a fixed
// "Syntax Error" banner; PNG needs pixel/text sniffing, SVG a text scan).
// Until then every 2xx payload is treated as a success, matching the
// renderer's documented contract.
func IsErrorImage(data []byte) bool {
	_ = data
	return false
}
