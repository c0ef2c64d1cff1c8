// Package hub provides a thread-safe websocket broadcast hub for the
// panel dashboard, using the channel-based fan-out pattern. One hub
// carries preview frames (binary JPEG), another carries status updates
// (JSON); slow clients are dropped rather than allowed to stall playback.
package hub

// MessageType indicates the websocket message format.
type MessageType int

const (
	// JSONMessage is a JSON-encoded message.
	JSONMessage MessageType = iota
	// BinaryMessage is raw binary data (preview JPEG frames).
	BinaryMessage
)

// Message is one payload to be broadcast to clients.
type Message struct {
	Type MessageType
	Data []byte
}

// NewJSONMessage creates a JSON message from pre-encoded bytes.
func NewJSONMessage(data []byte) Message {
	return Message{Type: JSONMessage, Data: data}
}

// NewBinaryMessage creates a binary message.
func NewBinaryMessage(data []byte) Message {
	return Message{Type: BinaryMessage, Data: data}
}
