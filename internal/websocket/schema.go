package websocket

// ─── Actions (Client → Proctor) ─────────────────────────────────────

type Action string

const (
	ActionAutosave Action = "autosave"
	ActionSubmit   Action = "submit"
	ActionPing     Action = "ping"
	ActionCheat    Action = "cheat"
)

// RequestEnvelope is used to peek at the action before full parsing.
type RequestEnvelope struct {
	Action Action `json:"action"`
}

// AutosaveRequest mirrors a single answer change.
type AutosaveRequest struct {
	Action  Action `json:"action"`
	QID     string `json:"q_id"`
	OrderNo int    `json:"order_no"`
	Answer  string `json:"ans"`
}

// CheatRequest reports an intercepted exit attempt.
type CheatRequest struct {
	Action  Action `json:"action"`
	Payload string `json:"payload"` // JSON encoded CheatPayload
}

// CheatPayload describes one cheat event.
type CheatPayload struct {
	Type      string `json:"type"`
	Count     int    `json:"count"`
	AttemptID int64  `json:"attempt_id"`
	At        int64  `json:"at"`
}

// SubmitRequest tells the proctor the attempt was submitted.
type SubmitRequest struct {
	Action    Action `json:"action"`
	Trigger   string `json:"trigger"`
	AttemptID int64  `json:"attempt_id"`
}

// PingRequest keeps the connection alive.
type PingRequest struct {
	Action Action `json:"action"`
}

// ─── Events (Proctor → Client) ──────────────────────────────────────

type Event string

const (
	EventError   Event = "error"
	EventSuccess Event = "success"
	EventPong    Event = "pong"
)

// EventEnvelope carries any server event; unused fields stay empty.
type EventEnvelope struct {
	Event  Event  `json:"event"`
	Status string `json:"status,omitempty"`
	Error  string `json:"error,omitempty"`
}

type AutosaveResponse struct {
	Event  Event  `json:"event"`
	Status string `json:"status"`
}

type ErrorResponse struct {
	Event Event  `json:"event"`
	Error string `json:"error"`
}

type PongResponse struct {
	Event Event `json:"event"`
}
