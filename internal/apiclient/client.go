package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/examsetu/examsetu-client/internal/config"
	"github.com/examsetu/examsetu-client/internal/validator"
	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
)

// HeaderIdempotencyKey identifies repeated submissions of the same attempt.
const HeaderIdempotencyKey = "Idempotency-Key"

// Client is the single typed client for the ExamSetu backend.
type Client struct {
	http *resty.Client
	log  zerolog.Logger
}

// New creates a Client from configuration.
func New(cfg *config.Config, log zerolog.Logger) *Client {
	return NewWithBaseURL(cfg.APIBaseURL, cfg.APITimeout, log)
}

// NewWithBaseURL creates a Client for baseURL with a per-request timeout.
func NewWithBaseURL(baseURL string, timeout time.Duration, log zerolog.Logger) *Client {
	r := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json").
		SetHeader("Content-Type", "application/json")

	c := &Client{
		http: r,
		log:  log.With().Str("component", "api_client").Logger(),
	}
	r.SetLogger(restyLogger{log: c.log})
	return c
}

// restyLogger routes resty's internal messages into zerolog.
type restyLogger struct {
	log zerolog.Logger
}

func (l restyLogger) Errorf(format string, v ...interface{}) {
	l.log.Error().Msg(fmt.Sprintf(format, v...))
}

func (l restyLogger) Warnf(format string, v ...interface{}) {
	l.log.Warn().Msg(fmt.Sprintf(format, v...))
}

func (l restyLogger) Debugf(format string, v ...interface{}) {
	l.log.Debug().Msg(fmt.Sprintf(format, v...))
}

// SetToken attaches a bearer token to every following request.
// An empty token removes it.
func (c *Client) SetToken(token string) {
	c.http.SetAuthToken(token)
}

// errorBody captures the shapes the backend uses for failures.
type errorBody struct {
	Error   string            `json:"error"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields"`
}

type call struct {
	op      string
	method  string
	path    string
	query   map[string]string
	headers map[string]string
	body    interface{}
	out     interface{}
}

// do executes one request and normalizes every failure into *Error.
func (c *Client) do(ctx context.Context, cl call) error {
	if cl.body != nil {
		if fields := validator.Check(cl.body); fields != nil {
			return &Error{Code: ErrValidation, Op: cl.op, Fields: fields}
		}
	}

	req := c.http.R().
		SetContext(ctx).
		ForceContentType("application/json").
		SetError(&errorBody{})
	if cl.out != nil {
		req.SetResult(cl.out)
	}
	if len(cl.query) > 0 {
		req.SetQueryParams(cl.query)
	}
	if len(cl.headers) > 0 {
		req.SetHeaders(cl.headers)
	}
	if cl.body != nil {
		req.SetBody(cl.body)
	}

	start := time.Now()
	resp, err := req.Execute(cl.method, cl.path)
	if err != nil && resp != nil && resp.RawResponse != nil && resp.IsSuccess() {
		c.log.Error().Err(err).Str("op", cl.op).Int("status", resp.StatusCode()).Msg("Undecodable response")
		return &Error{Code: ErrDecode, Status: resp.StatusCode(), Op: cl.op, Err: err}
	}
	if err != nil {
		c.log.Error().Err(err).Str("op", cl.op).Str("path", cl.path).Msg("Request failed")
		return &Error{Code: ErrNetwork, Op: cl.op, Err: err}
	}

	c.log.Debug().
		Str("op", cl.op).
		Str("method", cl.method).
		Str("path", cl.path).
		Int("status", resp.StatusCode()).
		Dur("took", time.Since(start)).
		Msg("Request completed")

	if resp.IsError() {
		apiErr := &Error{Code: codeForStatus(resp.StatusCode()), Status: resp.StatusCode(), Op: cl.op}
		if body, ok := resp.Error().(*errorBody); ok && body != nil {
			apiErr.Message = body.Error
			if apiErr.Message == "" {
				apiErr.Message = body.Message
			}
			apiErr.Fields = body.Fields
		}
		c.log.Warn().
			Str("op", cl.op).
			Int("status", apiErr.Status).
			Str("code", string(apiErr.Code)).
			Str("message", apiErr.Message).
			Msg("Backend rejected request")
		return apiErr
	}

	return nil
}

// decodeValidated checks a decoded payload against its validate tags.
func decodeValidated(op string, v interface{}) error {
	if fields := validator.Check(v); fields != nil {
		return &Error{Code: ErrDecode, Status: http.StatusOK, Op: op, Fields: fields, Message: "The server sent an incomplete response."}
	}
	return nil
}
