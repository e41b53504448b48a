package ai

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/aussiebroadwan/recipebox/internal/recipes/domain"
	"github.com/stretchr/testify/require"
)

func TestGenerateRecipe(t *testing.T) {
	ctx := context.Background()

	t.Run("parses the JSON reply", func(t *testing.T) {
		var seen Request
		g := &Generator{Completer: CompleterFunc(func(ctx context.Context, req Request) (string, error) {
			seen = req
			return "```json\n" + `{"title":"אורז עם עוף","ingredients":"","ingredients_text":"- כוס אורז","instructions":"1. מבשלים"}` + "\n```", nil
		})}

		rec, err := g.GenerateRecipe(ctx, "  עוף, אורז ")
		require.NoError(t, err)
		require.Equal(t, "אורז עם עוף", rec.Title)
		require.Equal(t, "עוף, אורז", rec.Ingredients)
		require.Equal(t, "- כוס אורז", rec.IngredientsText)

		require.True(t, seen.JSON)
		require.Equal(t, 700, seen.MaxTokens)
		require.Len(t, seen.Messages, 1)
		require.Contains(t, seen.Messages[0].Content, `"""עוף, אורז"""`)
	})

	t.Run("rejects empty input without calling the model", func(t *testing.T) {
		g := &Generator{Completer: CompleterFunc(func(context.Context, Request) (string, error) {
			t.Fatal("model called")
			return "", nil
		})}
		_, err := g.GenerateRecipe(ctx, "   ")
		require.ErrorIs(t, err, ErrInvalidInput)

		_, err = g.GenerateRecipe(ctx, strings.Repeat("x", maxIngredientsText+1))
		require.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("missing title", func(t *testing.T) {
		g := &Generator{Completer: CompleterFunc(func(context.Context, Request) (string, error) {
			return `{"ingredients":"x"}`, nil
		})}
		_, err := g.GenerateRecipe(ctx, "x")
		require.ErrorIs(t, err, ErrUpstream)
	})

	t.Run("non JSON reply", func(t *testing.T) {
		g := &Generator{Completer: CompleterFunc(func(context.Context, Request) (string, error) {
			return "sorry", nil
		})}
		_, err := g.GenerateRecipe(ctx, "x")
		require.ErrorIs(t, err, ErrUpstream)
	})

	t.Run("completer errors pass through", func(t *testing.T) {
		boom := errors.New("boom")
		g := &Generator{Completer: CompleterFunc(func(context.Context, Request) (string, error) {
			return "", boom
		})}
		_, err := g.GenerateRecipe(ctx, "x")
		require.ErrorIs(t, err, boom)
	})
}

func TestChatReply(t *testing.T) {
	ctx := context.Background()

	t.Run("sends only the last 30 messages", func(t *testing.T) {
		var seen Request
		c := NewChat(CompleterFunc(func(ctx context.Context, req Request) (string, error) {
			seen = req
			return "מרק עדשים\nמצרכים...\n[[TYPE:RECIPE]]", nil
		}))

		var history []domain.ChatMessage
		for i := 0; i < 41; i++ {
			role := domain.ChatRoleUser
			if i%2 == 1 {
				role = domain.ChatRoleAssistant
			}
			history = append(history, domain.ChatMessage{Role: role, Content: "m"})
		}

		reply, err := c.Reply(ctx, history)
		require.NoError(t, err)
		require.Len(t, seen.Messages, MaxMessagesToModel)
		require.Equal(t, chatSystemPrompt, seen.System)
		require.Equal(t, 900, seen.MaxTokens)

		require.Equal(t, domain.ReplyRecipe, reply.Type)
		require.True(t, reply.Done)
		require.Equal(t, "מרק עדשים\nמצרכים...", reply.Reply)
		require.NotNil(t, reply.Title)
		require.Equal(t, "מרק עדשים", *reply.Title)
	})

	t.Run("questions are not done", func(t *testing.T) {
		c := NewChat(CompleterFunc(func(context.Context, Request) (string, error) {
			return "איזה סגנון? [[TYPE:QUESTION]]", nil
		}))
		reply, err := c.Reply(ctx, []domain.ChatMessage{{Role: domain.ChatRoleUser, Content: "היי"}})
		require.NoError(t, err)
		require.Equal(t, domain.ReplyQuestion, reply.Type)
		require.False(t, reply.Done)
		require.Nil(t, reply.Title)
	})

	t.Run("invalid history", func(t *testing.T) {
		c := NewChat(CompleterFunc(func(context.Context, Request) (string, error) {
			t.Fatal("model called")
			return "", nil
		}))

		cases := map[string][]domain.ChatMessage{
			"empty":    nil,
			"bad role": {{Role: "system", Content: "x"}},
			"blank":    {{Role: domain.ChatRoleUser, Content: "  "}},
			"too long": {{Role: domain.ChatRoleUser, Content: strings.Repeat("א", MaxMessageRunes+1)}},
			"too many": make([]domain.ChatMessage, MaxHistory+1),
		}
		for name, msgs := range cases {
			t.Run(name, func(t *testing.T) {
				_, err := c.Reply(ctx, msgs)
				require.ErrorIs(t, err, ErrInvalidHistory)
			})
		}
	})
}
