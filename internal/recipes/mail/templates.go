package mail

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/aussiebroadwan/recipebox/internal/recipes/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

// Renderer turns the embedded templates into ready-to-send messages.
type Renderer struct {
	tpl *template.Template
	md  *converter.Converter
}

func NewRenderer() (*Renderer, error) {
	tpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse mail templates: %w", err)
	}
	return &Renderer{
		tpl: tpl,
		md: converter.NewConverter(
			converter.WithPlugins(
				base.NewBasePlugin(),
				commonmark.NewCommonmarkPlugin(),
			),
		),
	}, nil
}

func (r *Renderer) PasswordReset(to, link string, validMinutes int) (Message, error) {
	return r.render(to, "איפוס סיסמה - טעם של שמחה 🍲", "reset", map[string]any{
		"Link":         link,
		"ValidMinutes": validMinutes,
	})
}

func (r *Renderer) RatingNotification(to, recipeTitle string, rating int) (Message, error) {
	return r.render(to, "⭐ דירוג חדש למתכון שלך - "+recipeTitle, "rating", map[string]any{
		"Title":  recipeTitle,
		"Rating": rating,
	})
}

// RecipeShare mails the recipe itself; link may be empty.
func (r *Renderer) RecipeShare(to string, rec domain.Recipe, link string) (Message, error) {
	return r.render(to, "📩 המתכון שביקשת - "+rec.Title, "share", map[string]any{
		"Title":        rec.Title,
		"Description":  rec.Description,
		"Ingredients":  rec.Ingredients,
		"Instructions": rec.Instructions,
		"CreatorName":  rec.CreatorName,
		"Link":         link,
	})
}

func (r *Renderer) render(to, subject, name string, data any) (Message, error) {
	var buf bytes.Buffer
	if err := r.tpl.ExecuteTemplate(&buf, name, data); err != nil {
		return Message{}, fmt.Errorf("render %s: %w", name, err)
	}
	html := buf.String()

	text, err := r.md.ConvertString(html)
	if err != nil {
		return Message{}, fmt.Errorf("text part %s: %w", name, err)
	}

	return Message{
		To:      to,
		Subject: subject,
		HTML:    html,
		Text:    strings.TrimSpace(text),
	}, nil
}
