package checker

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/shinji-kodama/handlecheck/internal/auth"
	"github.com/shinji-kodama/handlecheck/internal/model"
)

// DefaultEndpoint is the availability check endpoint.
const DefaultEndpoint = "https://api.ai.com/user/botname/check"

// Headers the API expects on every request. origin and referer mirror what
// the ai.com web app sends.
const (
	headerOrigin  = "https://ai.com"
	headerReferer = "https://ai.com/"
)

// Transport sends a single availability request for handle.
//
// A nil error means the server answered with a non-error status, which is
// returned as-is. An HTTP-level error response must be reported as an
// *HTTPError; any other error is treated as a transport failure.
type Transport interface {
	Post(ctx context.Context, handle string) (int, error)
}

// HTTPError is an HTTP response with an error status (>= 400).
type HTTPError struct {
	Status int
	Header http.Header
}

// Error satisfies the error interface.
func (e *HTTPError) Error() string {
	return fmt.Sprintf("http status %d", e.Status)
}

// checkRequest is the JSON body of a check request.
type checkRequest struct {
	Botname string `json:"botname"`
}

// RestyTransport is the production Transport. It is safe to reuse across
// handles; the underlying connection pool is shared.
type RestyTransport struct {
	client   *resty.Client
	endpoint string
	cookie   string
}

// TransportConfig configures NewRestyTransport.
type TransportConfig struct {
	// Endpoint overrides DefaultEndpoint (used by tests and the config file).
	Endpoint string

	// Timeout bounds each individual request.
	Timeout time.Duration

	// Credential is forwarded as the cookie header when non-empty.
	Credential auth.Credential

	// Logger receives resty's own warnings. May be nil.
	Logger *zap.Logger
}

// NewRestyTransport builds a RestyTransport. resty's built-in retry is left
// disabled because retrying is the Checker's job.
func NewRestyTransport(cfg TransportConfig) *RestyTransport {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}

	client := resty.New().
		SetTimeout(cfg.Timeout).
		SetRetryCount(0).
		SetHeaders(map[string]string{
			"content-type": "application/json",
			"accept":       "application/json",
			"origin":       headerOrigin,
			"referer":      headerReferer,
		})
	if cfg.Logger != nil {
		client.SetLogger(cfg.Logger.Sugar())
	}

	return &RestyTransport{
		client:   client,
		endpoint: endpoint,
		cookie:   cfg.Credential.Cookie,
	}
}

// Post implements Transport. The response body is never inspected.
func (t *RestyTransport) Post(ctx context.Context, handle string) (int, error) {
	req := t.client.R().
		SetContext(ctx).
		SetBody(checkRequest{Botname: handle})
	if t.cookie != "" {
		req.SetHeader("cookie", t.cookie)
	}

	resp, err := req.Post(t.endpoint)
	if err != nil {
		return model.StatusNetworkError, fmt.Errorf("post %s: %w", handle, err)
	}

	status := resp.StatusCode()
	if status >= http.StatusBadRequest {
		return status, &HTTPError{Status: status, Header: resp.Header()}
	}
	return status, nil
}

// Close releases idle connections held by the transport.
func (t *RestyTransport) Close() {
	t.client.GetClient().CloseIdleConnections()
}
