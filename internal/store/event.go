package store

// DefaultMessage is stored when a caller appends without a message.
const DefaultMessage = "hello"

// Event is one row of the append-only log.
type Event struct {
	ID        int64  `json:"id"`
	Timestamp string `json:"timestamp"`
	Message   string `json:"message"`
}
