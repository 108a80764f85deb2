// Package proctor streams attempt activity to an optional proctoring server.
package proctor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/examsetu/examsetu-client/internal/attempt"
	"github.com/examsetu/examsetu-client/internal/model"
	ws "github.com/examsetu/examsetu-client/internal/websocket"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// pingInterval keeps idle connections from hitting the proctor read deadline.
const pingInterval = 30 * time.Second

// Client is a proctor connection for one attempt. Send failures are logged
// and never interrupt the attempt.
type Client struct {
	conn      *websocket.Conn
	attemptID int64
	log       zerolog.Logger

	writeMu sync.Mutex
	closed  bool

	done chan struct{}
	stop chan struct{}
	once sync.Once
}

var _ attempt.AnswerListener = (*Client)(nil)

// Dial connects to rawURL with the attempt and user as query parameters.
func Dial(ctx context.Context, rawURL string, attemptID, userID int64, token string, log zerolog.Logger) (*Client, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse proctor url: %w", err)
	}
	q := u.Query()
	q.Set("attempt_id", strconv.FormatInt(attemptID, 10))
	q.Set("user_id", strconv.FormatInt(userID, 10))
	u.RawQuery = q.Encode()

	header := http.Header{}
	if token != "" {
		header.Set("Authorization", "Bearer "+token)
	}

	dialer := websocket.Dialer{HandshakeTimeout: 5 * time.Second}
	conn, _, err := dialer.DialContext(ctx, u.String(), header)
	if err != nil {
		return nil, fmt.Errorf("dial proctor: %w", err)
	}

	c := &Client{
		conn:      conn,
		attemptID: attemptID,
		log: log.With().
			Str("component", "proctor").
			Int64("attempt_id", attemptID).
			Logger(),
		done: make(chan struct{}),
		stop: make(chan struct{}),
	}
	go c.readLoop()
	go c.pingLoop()

	c.log.Info().Msg("Proctor connected")
	return c, nil
}

// AnswerSaved streams an answer change as an autosave action.
func (c *Client) AnswerSaved(_ context.Context, _ int64, q model.Question, a model.Answer) {
	req := ws.AutosaveRequest{
		Action:  ws.ActionAutosave,
		QID:     strconv.FormatInt(q.QuestionID, 10),
		OrderNo: q.OrderNo,
		Answer:  AnswerValue(a),
	}
	if err := c.send(req); err != nil {
		c.log.Warn().Err(err).Int("order_no", q.OrderNo).Msg("Autosave send failed")
	}
}

// ReportExit reports an intercepted attempt to leave the test.
func (c *Client) ReportExit(count int) {
	payload, err := json.Marshal(ws.CheatPayload{
		Type:      "exit_attempt",
		Count:     count,
		AttemptID: c.attemptID,
		At:        time.Now().Unix(),
	})
	if err != nil {
		return
	}
	if err := c.send(ws.CheatRequest{Action: ws.ActionCheat, Payload: string(payload)}); err != nil {
		c.log.Warn().Err(err).Msg("Cheat report failed")
	}
}

// ReportSubmitted tells the proctor the attempt is over.
func (c *Client) ReportSubmitted(trigger model.SubmitTrigger) {
	req := ws.SubmitRequest{Action: ws.ActionSubmit, Trigger: string(trigger), AttemptID: c.attemptID}
	if err := c.send(req); err != nil {
		c.log.Warn().Err(err).Msg("Submit notice failed")
	}
}

// Close ends the connection and waits for the reader to stop.
func (c *Client) Close() error {
	var err error
	c.once.Do(func() {
		close(c.stop)
		c.writeMu.Lock()
		c.closed = true
		_ = ws.CloseNormal(c.conn)
		c.writeMu.Unlock()

		select {
		case <-c.done:
		case <-time.After(2 * time.Second):
		}
		err = c.conn.Close()
		<-c.done
	})
	return err
}

var errClosed = errors.New("proctor connection closed")

func (c *Client) send(v interface{}) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if c.closed {
		return errClosed
	}
	return ws.WriteTyped(c.conn, v)
}

func (c *Client) readLoop() {
	defer close(c.done)
	for {
		var ev ws.EventEnvelope
		if err := ws.ReadJSON(c.conn, &ev); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				select {
				case <-c.stop:
				default:
					c.log.Warn().Err(err).Msg("Proctor read failed")
				}
			}
			return
		}

		switch ev.Event {
		case ws.EventError:
			c.log.Warn().Str("error", ev.Error).Msg("Proctor rejected message")
		case ws.EventSuccess, ws.EventPong:
			c.log.Debug().Str("event", string(ev.Event)).Str("status", ev.Status).Msg("Proctor event")
		default:
			c.log.Debug().Str("event", string(ev.Event)).Msg("Unknown proctor event")
		}
	}
}

func (c *Client) pingLoop() {
	t := time.NewTicker(pingInterval)
	defer t.Stop()
	for {
		select {
		case <-c.stop:
			return
		case <-c.done:
			return
		case <-t.C:
			if err := c.send(ws.PingRequest{Action: ws.ActionPing}); err != nil {
				return
			}
		}
	}
}

// AnswerValue renders an answer the way the proctor stores it: the option
// id for objective answers, the text otherwise.
func AnswerValue(a model.Answer) string {
	switch {
	case a.SelectedOptionID != nil:
		return strconv.FormatInt(*a.SelectedOptionID, 10)
	case a.AnswerText != nil:
		return *a.AnswerText
	default:
		return ""
	}
}
