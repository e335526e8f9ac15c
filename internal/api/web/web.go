// Package web renders the server-side companion pages.
package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"github.com/curaious/companion/pkg/companionform"
	"github.com/valyala/fasthttp"
)

//go:embed templates/*.html
var templateFS embed.FS

var (
	formPage = template.Must(template.ParseFS(templateFS, "templates/layout.html", "templates/form.html"))
	homePage = template.Must(template.ParseFS(templateFS, "templates/layout.html", "templates/home.html"))
)

const (
	CreateSubmitLabel = "Create your companion"
	UpdateSubmitLabel = "Edit your companion"
)

// Notice is a toast rendered at the top of a page.
type Notice struct {
	Message    string
	Variant    string
	DurationMs int64
}

// NewNotice converts a form notice for rendering.
func NewNotice(n companionform.Notice) *Notice {
	return &Notice{
		Message:    n.Message,
		Variant:    string(n.Variant),
		DurationMs: n.Duration.Milliseconds(),
	}
}

// FieldView is one rendered form input.
type FieldView struct {
	Name        string
	Label       string
	Kind        string // input, textarea or select
	Section     string // general or configuration
	Placeholder string
	Description string
	Value       string
	Error       string
	Options     []companionform.Category
}

type FormView struct {
	Title       string
	Action      string
	SubmitLabel string
	Disabled    bool
	Fields      []FieldView
	Notice      *Notice
}

type fieldMeta struct {
	label       string
	kind        string
	section     string
	placeholder string
	description string
}

var fieldMetas = map[companionform.Field]fieldMeta{
	companionform.FieldImageRef: {
		label: "Image", kind: "input", section: "general",
		placeholder: "https://example.com/avatar.png",
		description: "Link to the image shown for your companion.",
	},
	companionform.FieldName: {
		label: "Name", kind: "input", section: "general",
		placeholder: "Elon Musk",
		description: "This is how your AI companion will be named.",
	},
	companionform.FieldDescription: {
		label: "Description", kind: "input", section: "general",
		placeholder: "CEO & Founder of Tesla, SpaceX",
		description: "Short description for your AI companion.",
	},
	companionform.FieldCategoryID: {
		label: "Category", kind: "select", section: "general",
		placeholder: companionform.Placeholder,
		description: "Select a category for your AI.",
	},
	companionform.FieldInstructions: {
		label: "Instructions", kind: "textarea", section: "configuration",
		placeholder: "You are a fictional character whose name is Elon...",
		description: "Describe in detail your companion's backstory and relevant details.",
	},
	companionform.FieldSeed: {
		label: "Example Conversation", kind: "textarea", section: "configuration",
		placeholder: "Human: Hi Elon, how's your day been?\nElon: Busy as always...",
		description: "Write a couple of examples of a human chatting with your companion and the expected answers.",
	},
}

// NewFormView builds the page for w, showing its current values and field messages.
func NewFormView(w *companionform.Workflow, action string, notice *Notice) FormView {
	state := w.State()
	values := state.Values()
	errs := state.Errors()

	view := FormView{
		Title:       "Create companion",
		Action:      action,
		SubmitLabel: CreateSubmitLabel,
		Disabled:    state.Disabled(),
		Notice:      notice,
	}
	if w.Mode() == companionform.ModeUpdate {
		view.Title = "Edit companion"
		view.SubmitLabel = UpdateSubmitLabel
	}

	for _, f := range companionform.Fields {
		meta := fieldMetas[f]
		fv := FieldView{
			Name:        string(f),
			Label:       meta.label,
			Kind:        meta.kind,
			Section:     meta.section,
			Placeholder: meta.placeholder,
			Description: meta.description,
			Value:       values.Get(f),
			Error:       errs[f],
		}
		if f == companionform.FieldCategoryID {
			fv.Options = w.Categories()
		}
		view.Fields = append(view.Fields, fv)
	}

	return view
}

// CompanionCard is one entry of the home listing.
type CompanionCard struct {
	ID          string
	Name        string
	Description string
	Src         string
}

type HomeQuery struct {
	Name       string
	CategoryID string
}

type HomeView struct {
	Title      string
	Query      HomeQuery
	Categories []companionform.Category
	Companions []CompanionCard
	Notice     *Notice
}

// RenderForm writes the companion form page with the given status code.
func RenderForm(ctx *fasthttp.RequestCtx, status int, view FormView) error {
	return render(ctx, formPage, status, view)
}

// RenderHome writes the companion listing page.
func RenderHome(ctx *fasthttp.RequestCtx, view HomeView) error {
	if view.Title == "" {
		view.Title = "Companions"
	}
	return render(ctx, homePage, fasthttp.StatusOK, view)
}

func render(ctx *fasthttp.RequestCtx, t *template.Template, status int, data any) error {
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		return fmt.Errorf("failed to render page: %w", err)
	}

	ctx.Response.Header.SetContentType("text/html; charset=utf-8")
	ctx.SetStatusCode(status)
	ctx.SetBody(buf.Bytes())
	return nil
}
