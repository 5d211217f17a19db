package translator

import "promptbridge/internal/models"

const (
	// MessageSeparator joins the contents of merged messages.
	MessageSeparator = "\n\n"

	roleSystem = "system"
	roleUser   = "user"
)

// MessageShape describes how a provider stores one message, so the merge fold
// can be shared between flat (role + content) and nested (role + parts) layouts.
type MessageShape[T any] struct {
	// Role returns the role of an already built message.
	Role func(T) string
	// New builds a provider message holding a single text.
	New func(role, text string) T
	// Append extends the text of an existing provider message.
	Append func(msg *T, text string)
}

// NormalizeRole rewrites the system role to user for providers that only
// accept user and assistant turns.
func NormalizeRole(role string) string {
	if role == roleSystem {
		return roleUser
	}
	return role
}

// MergeAdjacent normalizes roles and folds consecutive same-role messages into
// one, joining their contents with MessageSeparator. The result is never nil,
// never longer than the input and applying it twice changes nothing.
func MergeAdjacent[T any](messages []models.Message, shape MessageShape[T]) []T {
	out := make([]T, 0, len(messages))
	for _, msg := range messages {
		role := NormalizeRole(msg.Role)
		if n := len(out); n > 0 && shape.Role(out[n-1]) == role {
			shape.Append(&out[n-1], MessageSeparator+msg.Content)
			continue
		}
		out = append(out, shape.New(role, msg.Content))
	}
	return out
}

// FlatShape is the shape of providers whose messages are plain role/content pairs.
var FlatShape = MessageShape[models.Message]{
	Role: func(m models.Message) string { return m.Role },
	New: func(role, text string) models.Message {
		return models.Message{Role: role, Content: text}
	},
	Append: func(m *models.Message, text string) {
		m.Content += text
	},
}
