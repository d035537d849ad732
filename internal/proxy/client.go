package proxy

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	apperrors "github.com/edge-fabric/api-gateway/pkg/util"
)

// HeaderUserID propagates the caller's subject id to backend services.
const HeaderUserID = "X-User-ID"

// Client performs forwarded calls against one backend service. Each call
// opens its own request/response cycle; the body is always drained and
// closed. The zero timeout leaves downstream calls unbounded, which is the
// historical gateway behavior.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

// NewClient builds a client for the backend rooted at baseURL.
func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

type upstreamErrorBody struct {
	Detail string `json:"detail"`
	Error  struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Do forwards one call to the backend. A JSON body is marshalled when body is
// non-nil. On a 2xx response the raw payload and status are returned. A
// non-2xx response becomes an UpstreamError carrying the backend's detail
// message when one is present; transport failures become a generic internal
// error so backend internals never leak to callers.
func (c *Client) Do(ctx context.Context, method, path string, body any, headers map[string]string) (json.RawMessage, int, error) {
	var reqBody io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, 0, apperrors.NewInternalError(err)
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, 0, apperrors.NewInternalError(err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	for key, value := range headers {
		if value != "" {
			req.Header.Set(key, value)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Error("backend call failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err),
		)
		return nil, 0, apperrors.NewInternalError(err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, apperrors.NewInternalError(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, resp.StatusCode, apperrors.NewUpstreamError(resp.StatusCode, extractDetail(payload))
	}
	return payload, resp.StatusCode, nil
}

// extractDetail pulls the human-readable error message out of a backend error
// body, accepting both the bare detail field and the enveloped error shape.
func extractDetail(payload []byte) string {
	var body upstreamErrorBody
	if err := json.Unmarshal(payload, &body); err != nil {
		return ""
	}
	if body.Detail != "" {
		return body.Detail
	}
	return body.Error.Message
}
