package apiclient

import (
	"context"
	"net/http"
	"strconv"

	"github.com/examsetu/examsetu-client/internal/model"
)

// StartMockTest creates a new mock test attempt.
func (c *Client) StartMockTest(ctx context.Context, req *model.StartMockTestRequest) (*model.StartMockTestResponse, error) {
	var out model.StartMockTestResponse
	if err := c.do(ctx, call{
		op:     "start_mock_test",
		method: http.MethodPost,
		path:   "/api/mock-tests/start",
		body:   req,
		out:    &out,
	}); err != nil {
		return nil, err
	}
	if err := decodeValidated("start_mock_test", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetAttempt fetches the questions and metadata of an attempt.
func (c *Client) GetAttempt(ctx context.Context, attemptID, userID int64) (*model.AttemptDetail, error) {
	var out model.AttemptDetail
	if err := c.do(ctx, call{
		op:     "get_attempt",
		method: http.MethodGet,
		path:   "/api/mock-tests/attempt/" + strconv.FormatInt(attemptID, 10),
		query:  map[string]string{"userId": strconv.FormatInt(userID, 10)},
		out:    &out,
	}); err != nil {
		return nil, err
	}
	if err := decodeValidated("get_attempt", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SubmitAttempt posts the final answer set. The idempotency key is sent
// unchanged on every retry of the same attempt.
func (c *Client) SubmitAttempt(ctx context.Context, attemptID int64, idempotencyKey string, req *model.SubmitAttemptRequest) (*model.SubmitReceipt, error) {
	var out model.SubmitReceipt
	headers := map[string]string{}
	if idempotencyKey != "" {
		headers[HeaderIdempotencyKey] = idempotencyKey
	}
	if err := c.do(ctx, call{
		op:      "submit_attempt",
		method:  http.MethodPost,
		path:    "/api/mock-tests/attempt/" + strconv.FormatInt(attemptID, 10) + "/submit",
		headers: headers,
		body:    req,
		out:     &out,
	}); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetResponses fetches the graded responses of a finished attempt.
func (c *Client) GetResponses(ctx context.Context, attemptID, userID int64) ([]model.QuestionResponse, error) {
	var out model.AttemptResponses
	if err := c.do(ctx, call{
		op:     "get_responses",
		method: http.MethodGet,
		path:   "/api/mock-tests/attempt/" + strconv.FormatInt(attemptID, 10) + "/responses",
		query:  map[string]string{"userId": strconv.FormatInt(userID, 10)},
		out:    &out,
	}); err != nil {
		return nil, err
	}
	return out.Responses, nil
}
