package websocket

// ─── Actions (Client → Server) ──────────────────────────────────────

type Action string

const (
	ActionSubscribe Action = "subscribe"
	ActionPing      Action = "ping"
)

// RequestEnvelope is used to peek at the action before full parsing.
type RequestEnvelope struct {
	Action Action `json:"action"`
}

// SubscribeRequest is sent by the client to start receiving schedule
// change events for a school.
type SubscribeRequest struct {
	Action Action `json:"action"`
}

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventError           Event = "error"
	EventSubscribed      Event = "subscribed"
	EventPong            Event = "pong"
	EventSlotCreated     Event = "slot_created"
	EventSlotCancelled   Event = "slot_cancelled"
	EventSlotReactivated Event = "slot_reactivated"
)

// SlotEvent is broadcast whenever a schedule slot changes state. It carries
// the identifiers a dashboard needs to decide which grids to refetch, not
// the full slot.
type SlotEvent struct {
	Event     Event  `json:"event"`
	SlotID    string `json:"slot_id"`
	CohortID  string `json:"cohort_id"`
	TeacherID string `json:"teacher_id"`
	DayOfWeek int    `json:"day_of_week"`
	Year      int    `json:"year"`
	Term      int    `json:"term"`
}

type SubscribedResponse struct {
	Event    Event  `json:"event"`
	SchoolID string `json:"school_id"`
}

type ErrorResponse struct {
	Event Event  `json:"event"`
	Error string `json:"error"`
}

type PongResponse struct {
	Event Event `json:"event"`
}
