package domain

type ChatRole string

const (
	ChatRoleUser      ChatRole = "user"
	ChatRoleAssistant ChatRole = "assistant"
)

func (r ChatRole) Valid() bool {
	return r == ChatRoleUser || r == ChatRoleAssistant
}

type ChatMessage struct {
	Role    ChatRole `json:"role"`
	Content string   `json:"content"`
}

// ReplyType classifies an assistant chat reply.
type ReplyType string

const (
	ReplyQuestion ReplyType = "question"
	ReplyConfirm  ReplyType = "confirm"
	ReplyRecipe   ReplyType = "recipe"
)

// ChatReply is one classified assistant turn.
type ChatReply struct {
	Type  ReplyType
	Done  bool
	Reply string
	Title *string // set only for recipes
}

// GeneratedRecipe is the AI's answer to a free-text ingredient list.
type GeneratedRecipe struct {
	Title           string `json:"title"`
	Ingredients     string `json:"ingredients"`
	IngredientsText string `json:"ingredients_text"`
	Instructions    string `json:"instructions"`
}
