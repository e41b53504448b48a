package recipesdk

import (
	"context"
	"strings"
)

const (
	// Greeting opens every conversation.
	Greeting = "היי 😊 מה בא לך לבשל היום?"

	// FallbackReply is shown in place of the assistant's turn when a send fails.
	FallbackReply = "משהו השתבש 😅 נסי שוב בעוד רגע."
)

// Conversation is the client side of the AI chat: the full history, the
// state of the last reply and a busy flag while a turn is in flight.
type Conversation struct {
	client   *Client
	messages []ChatMessage

	busy      bool
	replyType string
	done      bool
	title     *string
}

func NewConversation(c *Client) *Conversation {
	return &Conversation{
		client:   c,
		messages: []ChatMessage{{Role: RoleAssistant, Content: Greeting}},
	}
}

// Messages returns a copy of the history, greeting included.
func (cv *Conversation) Messages() []ChatMessage {
	return append([]ChatMessage(nil), cv.messages...)
}

// CanSend reports whether text would be sent: nothing in flight and not blank.
func (cv *Conversation) CanSend(text string) bool {
	return !cv.busy && strings.TrimSpace(text) != ""
}

// Send appends text as a user turn, posts the whole history and appends the
// reply. Blank input is ignored and returns (nil, nil). On failure the
// fallback message is appended and the error returned.
func (cv *Conversation) Send(ctx context.Context, text string) (*ChatResponse, error) {
	text = strings.TrimSpace(text)
	if !cv.CanSend(text) {
		return nil, nil
	}

	cv.messages = append(cv.messages, ChatMessage{Role: RoleUser, Content: text})
	cv.busy = true
	defer func() { cv.busy = false }()

	resp, err := cv.client.Chat(ctx, cv.Messages())
	if err != nil {
		cv.messages = append(cv.messages, ChatMessage{Role: RoleAssistant, Content: FallbackReply})
		return nil, err
	}

	cv.messages = append(cv.messages, ChatMessage{Role: RoleAssistant, Content: resp.Reply})
	cv.replyType = resp.Type
	cv.done = resp.Done
	cv.title = resp.Title
	return resp, nil
}

// ReplyType is the type of the last successful reply, "" before the first.
func (cv *Conversation) ReplyType() string { return cv.replyType }

// Done reports whether the last reply was a complete recipe.
func (cv *Conversation) Done() bool { return cv.done }

// Title is the recipe title of the last reply, "" unless Done.
func (cv *Conversation) Title() string {
	if cv.title == nil {
		return ""
	}
	return *cv.title
}
