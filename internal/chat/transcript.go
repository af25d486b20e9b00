// Package chat is the conversational front end: a bounded transcript of
// human and assistant turns, and a model that answers questions by calling
// repository tools.
package chat

// Role identifies who produced a message.
type Role string

const (
	RoleHuman     Role = "human"
	RoleAssistant Role = "assistant"
)

// DefaultMaxMessages keeps the last three exchanges.
const DefaultMaxMessages = 6

// Message is one turn of the conversation.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Transcript holds the conversation history. It is not safe for concurrent use.
type Transcript struct {
	messages    []Message
	maxMessages int
}

// NewTranscript creates an empty transcript that Trim caps at maxMessages.
// A non-positive maxMessages uses DefaultMaxMessages.
func NewTranscript(maxMessages int) *Transcript {
	if maxMessages <= 0 {
		maxMessages = DefaultMaxMessages
	}
	return &Transcript{maxMessages: maxMessages}
}

// Append adds a message at the end.
func (t *Transcript) Append(role Role, content string) {
	t.messages = append(t.messages, Message{Role: role, Content: content})
}

// DropLast removes the newest message, if any.
func (t *Transcript) DropLast() {
	if len(t.messages) > 0 {
		t.messages = t.messages[:len(t.messages)-1]
	}
}

// Trim drops the oldest messages until at most maxMessages remain.
func (t *Transcript) Trim() {
	if over := len(t.messages) - t.maxMessages; over > 0 {
		t.messages = append([]Message(nil), t.messages[over:]...)
	}
}

// Messages returns a copy of the history, oldest first.
func (t *Transcript) Messages() []Message {
	return append([]Message(nil), t.messages...)
}

// Len returns the number of messages held.
func (t *Transcript) Len() int {
	return len(t.messages)
}

// MaxMessages returns the window size.
func (t *Transcript) MaxMessages() int {
	return t.maxMessages
}
