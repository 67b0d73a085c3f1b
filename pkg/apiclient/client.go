package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	appErrors "github.com/noah-isme/campus-console/pkg/errors"
	"github.com/noah-isme/campus-console/pkg/middleware/requestid"
)

const maxErrorBody = 64 * 1024

// Observer receives one observation per outbound call.
type Observer interface {
	ObserveBackendCall(method, route, outcome string, duration time.Duration)
}

// Options configures a Client.
type Options struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *zap.Logger
	Observer   Observer
}

// Request describes a single call. Route is the path template used as a metrics label.
type Request struct {
	Method string
	Route  string
	Path   string
	Body   interface{}
}

// Client performs JSON requests against the institution backend. It never retries.
type Client struct {
	baseURL  string
	http     *http.Client
	logger   *zap.Logger
	observer Observer
}

// New constructs a Client.
func New(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL:  strings.TrimRight(opts.BaseURL, "/"),
		http:     httpClient,
		logger:   logger,
		observer: opts.Observer,
	}
}

// Get issues a GET request.
func (c *Client) Get(ctx context.Context, route, path string, out interface{}) error {
	return c.Do(ctx, Request{Method: http.MethodGet, Route: route, Path: path}, out)
}

// Post issues a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, route, path string, body, out interface{}) error {
	return c.Do(ctx, Request{Method: http.MethodPost, Route: route, Path: path, Body: body}, out)
}

// Put issues a PUT request with a JSON body.
func (c *Client) Put(ctx context.Context, route, path string, body, out interface{}) error {
	return c.Do(ctx, Request{Method: http.MethodPut, Route: route, Path: path, Body: body}, out)
}

// Delete issues a DELETE request.
func (c *Client) Delete(ctx context.Context, route, path string, out interface{}) error {
	return c.Do(ctx, Request{Method: http.MethodDelete, Route: route, Path: path}, out)
}

// Do performs the request and decodes a 2xx JSON body into out when out is non-nil.
// Failures are returned as *errors.Error classified as NETWORK_ERROR or REMOTE_ERROR.
func (c *Client) Do(ctx context.Context, req Request, out interface{}) error {
	method := strings.ToUpper(strings.TrimSpace(req.Method))
	if method == "" {
		method = http.MethodGet
	}
	path := req.Path
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	route := req.Route
	if route == "" {
		route = path
	}

	start := time.Now()
	err := c.do(ctx, method, path, req.Body, out)
	duration := time.Since(start)

	outcome := "success"
	switch {
	case appErrors.HasCode(err, appErrors.ErrNetwork.Code):
		outcome = "network_error"
	case err != nil:
		outcome = "remote_error"
	}
	if c.observer != nil {
		c.observer.ObserveBackendCall(method, route, outcome, duration)
	}
	fields := []zap.Field{
		zap.String("method", method),
		zap.String("route", route),
		zap.String("outcome", outcome),
		zap.Duration("latency", duration),
	}
	if reqID := requestid.FromContext(ctx); reqID != "" {
		fields = append(fields, zap.String("request_id", reqID))
	}
	if err != nil {
		c.logger.Warn("backend_call", append(fields, zap.Error(err))...)
	} else {
		c.logger.Debug("backend_call", fields...)
	}
	return err
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to encode request body")
		}
		reader = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to build request")
	}
	httpReq.Header.Set("Accept", "application/json")
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if reqID := requestid.FromContext(ctx); reqID != "" {
		httpReq.Header.Set(requestid.HeaderKey, reqID)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrNetwork.Code, appErrors.ErrNetwork.Status, appErrors.ErrNetwork.Message)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return remoteError(resp.StatusCode, raw)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrNetwork.Code, appErrors.ErrNetwork.Status, appErrors.ErrNetwork.Message)
	}
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return appErrors.Wrap(err, appErrors.ErrRemote.Code, http.StatusBadGateway, "unexpected response from server")
	}
	return nil
}

// remoteError prefers a server supplied message and falls back to a generic one.
func remoteError(status int, raw []byte) *appErrors.Error {
	message := ServerMessage(raw)
	if message == "" {
		message = fmt.Sprintf("request failed with status %d", status)
	}
	return &appErrors.Error{
		Code:    appErrors.ErrRemote.Code,
		Status:  status,
		Message: message,
		Err:     errors.New(http.StatusText(status)),
	}
}

// ServerMessage extracts a human readable message from an error body.
// It understands {"message": "..."}, {"error": "..."} and {"error": {"message": "..."}}.
func ServerMessage(raw []byte) string {
	var body struct {
		Message string          `json:"message"`
		Error   json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return ""
	}
	if msg := strings.TrimSpace(body.Message); msg != "" {
		return msg
	}
	if len(body.Error) == 0 {
		return ""
	}
	var asString string
	if err := json.Unmarshal(body.Error, &asString); err == nil {
		return strings.TrimSpace(asString)
	}
	var nested struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body.Error, &nested); err == nil {
		return strings.TrimSpace(nested.Message)
	}
	return ""
}
