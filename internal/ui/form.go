package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/gravitrone/roster/internal/engine"
	"github.com/gravitrone/roster/internal/ui/components"
)

// editForm holds one text input per editable field. The engine owns the
// draft; the inputs only mirror it.
type editForm struct {
	id     string
	names  []string
	inputs []textinput.Model
	focus  int
	// base is the record as loaded, used to show pending changes.
	base engine.Fields
}

func newTextInput(limit int) textinput.Model {
	in := textinput.New()
	in.Prompt = ""
	in.CharLimit = limit
	in.Cursor.SetMode(cursor.CursorStatic)
	return in
}

func newEditForm(rec engine.Record, draft engine.Fields) editForm {
	f := editForm{
		id:    rec.ID,
		names: engine.EditableFields,
		base:  rec.Fields.Clone(),
	}
	f.inputs = make([]textinput.Model, len(f.names))
	for i, name := range f.names {
		limit := 64
		if name == engine.FieldBio {
			limit = 2000
		}
		in := newTextInput(limit)
		in.SetValue(draft[name])
		f.inputs[i] = in
	}
	f.inputs[0].Focus()
	return f
}

func (f *editForm) setFocus(i int) {
	n := len(f.inputs)
	f.inputs[f.focus].Blur()
	f.focus = (i%n + n) % n
	f.inputs[f.focus].Focus()
}

func (f *editForm) next() { f.setFocus(f.focus + 1) }
func (f *editForm) prev() { f.setFocus(f.focus - 1) }

func (f editForm) focusedName() string {
	return f.names[f.focus]
}

// update feeds a key to the focused input and reports whether its value changed.
func (f *editForm) update(msg tea.KeyMsg) (string, bool, tea.Cmd) {
	before := f.inputs[f.focus].Value()
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	after := f.inputs[f.focus].Value()
	return after, after != before, cmd
}

func (f editForm) changes(draft engine.Fields) []components.DiffRow {
	var rows []components.DiffRow
	for _, name := range f.names {
		if draft[name] != f.base[name] {
			rows = append(rows, components.DiffRow{Label: fieldLabel(name), From: f.base[name], To: draft[name]})
		}
	}
	return rows
}

func (f editForm) dirty(draft engine.Fields) bool {
	return len(f.changes(draft)) > 0
}

func (f editForm) view(width int, draft engine.Fields, saving bool) string {
	labelWidth := 0
	for _, name := range f.names {
		labelWidth = max(labelWidth, lipgloss.Width(fieldLabel(name)))
	}
	inputWidth := max(components.BoxContentWidth(width)-labelWidth-4, 10)

	lines := make([]string, 0, len(f.names))
	for i, name := range f.names {
		label := fieldLabel(name) + strings.Repeat(" ", labelWidth-lipgloss.Width(fieldLabel(name)))
		marker := "  "
		style := FieldLabelStyle
		if i == f.focus {
			marker = "› "
			style = FieldFocusStyle
		}
		in := f.inputs[i]
		in.Width = inputWidth
		lines = append(lines, style.Render(marker+label)+"  "+in.View())
	}

	body := strings.Join(lines, "\n")
	if saving {
		body += "\n\n" + MutedStyle.Render("Saving...")
	}
	sections := []string{components.ActiveTitledBox("Edit employee #"+f.id, body, width)}
	if diff := components.DiffTable("Pending changes", f.changes(draft), width); diff != "" {
		sections = append(sections, diff)
	}
	return strings.Join(sections, "\n\n")
}
