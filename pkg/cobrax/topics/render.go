package topics

import (
	"sync"

	"github.com/charmbracelet/glamour"
)

// Renderer formats topic content for the terminal
type Renderer interface {
	// Render receives the raw topic and its file extension
	Render(content string, format string) string
}

// PlainRenderer prints topics as written
type PlainRenderer struct{}

// Render returns the content unchanged
func (PlainRenderer) Render(content string, _ string) string {
	return content
}

// MarkdownRenderer renders .md topics with glamour and passes anything
// else through. The glamour renderer is built on first use.
type MarkdownRenderer struct {
	// style is a glamour standard style; empty picks one from the terminal background
	style string
	width int

	once sync.Once
	term *glamour.TermRenderer
}

// NewMarkdownRenderer renders with colours matched to the terminal
func NewMarkdownRenderer() *MarkdownRenderer {
	return &MarkdownRenderer{}
}

// NewPlainMarkdownRenderer keeps the markdown layout without colours, for
// pipes and NO_COLOR
func NewPlainMarkdownRenderer() *MarkdownRenderer {
	return &MarkdownRenderer{style: "notty", width: 80}
}

// Render formats markdown, falling back to the raw text when glamour fails
func (r *MarkdownRenderer) Render(content string, format string) string {
	if format != ".md" {
		return content
	}

	r.once.Do(r.build)
	if r.term == nil {
		return content
	}
	out, err := r.term.Render(content)
	if err != nil {
		return content
	}
	return out
}

func (r *MarkdownRenderer) build() {
	options := []glamour.TermRendererOption{glamour.WithAutoStyle()}
	if r.style != "" {
		options = []glamour.TermRendererOption{glamour.WithStandardStyle(r.style)}
	}
	if r.width > 0 {
		options = append(options, glamour.WithWordWrap(r.width))
	}

	term, err := glamour.NewTermRenderer(options...)
	if err != nil {
		return
	}
	r.term = term
}
