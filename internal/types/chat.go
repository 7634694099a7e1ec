package types

// ChatPart is a single text part of a chat message.
type ChatPart struct {
	Text string `json:"text"`
}

// ChatMessage is one role-tagged turn of a model conversation.
// Role is "user" or "model".
type ChatMessage struct {
	Role  string     `json:"role"`
	Parts []ChatPart `json:"parts"`
}

// Text joins all parts of the message into a single string.
func (m ChatMessage) Text() string {
	switch len(m.Parts) {
	case 0:
		return ""
	case 1:
		return m.Parts[0].Text
	}
	out := ""
	for i, p := range m.Parts {
		if i > 0 {
			out += "\n"
		}
		out += p.Text
	}
	return out
}

// UserMessage builds a single-part user turn.
func UserMessage(text string) ChatMessage {
	return ChatMessage{Role: "user", Parts: []ChatPart{{Text: text}}}
}

// ModelMessage builds a single-part model turn.
func ModelMessage(text string) ChatMessage {
	return ChatMessage{Role: "model", Parts: []ChatPart{{Text: text}}}
}
