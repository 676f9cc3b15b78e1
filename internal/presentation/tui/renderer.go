// Package tui implements a terminal survey renderer: pages are printed as
// glamour-rendered markdown and answers are read line by line. It exists so
// the CLI can run a full survey flow without a browser front end.
package tui

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/glamour"
	"golang.org/x/term"

	"github.com/openstimuli/cadence/pkg/clock"
	"github.com/openstimuli/cadence/pkg/domain"
	"github.com/openstimuli/cadence/pkg/ports"
	"github.com/openstimuli/cadence/pkg/schema"
)

// Renderer implements ports.PageRenderer on a terminal.
type Renderer struct {
	in       *bufio.Reader
	out      io.Writer
	md       *glamour.TermRenderer
	handlers ports.Handlers
}

// NewRenderer creates a terminal renderer reading from in and writing to out.
// The markdown style and wrap width adapt to the terminal when out is one.
func NewRenderer(in io.Reader, out io.Writer) *Renderer {
	width := 80
	if f, ok := out.(*os.File); ok {
		if w, _, err := term.GetSize(int(f.Fd())); err == nil && w > 0 {
			width = w
		}
	}
	md, _ := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	return &Renderer{
		in:  bufio.NewReader(in),
		out: out,
		md:  md,
	}
}

// Subscribe installs the interpreter's callbacks for the next Present call.
func (r *Renderer) Subscribe(h ports.Handlers) {
	r.handlers = h
}

// Present prints the page's questions one by one and collects answers.
// Entering "skip" on any question ends the block early; "quit" ends the
// survey. A page-changing veto jumps back to the named target question.
func (r *Renderer) Present(ctx context.Context, page *ports.Page, settings ports.PresentSettings) (domain.CompletionCode, map[string]any, error) {
	onset := clock.New()
	answers := make(map[string]any)

	if settings.Title != "" {
		r.print("# " + settings.Title + "\n")
	}
	if page.Survey.Name != "" {
		r.print("## " + page.Survey.Name + "\n")
	}

	qs := page.Survey.Questions
	for i := 0; i < len(qs); i++ {
		if err := ctx.Err(); err != nil {
			return domain.CompletionNormal, answers, err
		}
		q := qs[i]

		r.print(r.questionMarkdown(q, i, len(qs), settings))

		line, err := r.in.ReadString('\n')
		if err != nil && line == "" {
			return domain.CompletionNormal, answers, fmt.Errorf("failed to read answer for %q: %w", q.Name, err)
		}
		input := strings.TrimSpace(line)

		switch strings.ToLower(input) {
		case "skip":
			return domain.CompletionSkipBlock, answers, nil
		case "quit":
			return domain.CompletionSkipSurvey, answers, nil
		}

		value := parseAnswer(q, input)
		answers[q.Name] = value
		if r.handlers.OnValueChanged != nil {
			r.handlers.OnValueChanged(q.Name, value, onset.GetTime())
		}

		// Page transition point: the last answered question hands control to
		// the interpreter's skip logic.
		if i == len(qs)-1 && r.handlers.OnPageChanging != nil {
			d := r.handlers.OnPageChanging()
			if d.Complete != domain.CompletionNormal {
				return d.Complete, answers, nil
			}
			if d.Veto && d.TargetQuestion != "" {
				if target := questionIndex(qs, d.TargetQuestion); target >= 0 {
					i = target - 1
					continue
				}
			}
		}
	}

	return domain.CompletionNormal, answers, nil
}

func (r *Renderer) questionMarkdown(q schema.Question, idx, total int, settings ports.PresentSettings) string {
	var sb strings.Builder
	title := q.Title
	if title == "" {
		title = q.Name
	}
	if settings.ShowProgress {
		sb.WriteString(fmt.Sprintf("**%s** _(%d/%d)_\n\n", title, idx+1, total))
	} else {
		sb.WriteString(fmt.Sprintf("**%s**\n\n", title))
	}
	for n, c := range q.Choices {
		text := c.Text
		if text == "" {
			text = fmt.Sprintf("%v", c.Value)
		}
		sb.WriteString(fmt.Sprintf("%d. %s\n", n+1, text))
	}
	return sb.String()
}

func (r *Renderer) print(markdown string) {
	out, err := r.md.Render(markdown)
	if err != nil {
		out = markdown
	}
	fmt.Fprintln(r.out, strings.TrimRight(out, "\n"))
}

// parseAnswer resolves numbered choice selections to their values; anything
// else is the raw text (numbers become numeric).
func parseAnswer(q schema.Question, input string) any {
	if n, err := strconv.Atoi(input); err == nil {
		if n >= 1 && n <= len(q.Choices) {
			return q.Choices[n-1].Value
		}
		return n
	}
	if f, err := strconv.ParseFloat(input, 64); err == nil {
		return f
	}
	return input
}

func questionIndex(qs []schema.Question, name string) int {
	for i, q := range qs {
		if q.Name == name {
			return i
		}
	}
	return -1
}
