package ui

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"clipsmith/internal/model"
	"clipsmith/internal/progress"
)

func (m Model) View() string {
	header := m.viewHeader()
	var body string
	switch m.screen {
	case screenMenu:
		body = m.viewMenu()
	case screenPickFile, screenPickMulti:
		body = m.viewPicker()
	case screenTrimForm, screenExtractForm, screenCropForm:
		body = m.viewForm()
	case screenConvertForm:
		body = m.viewConvert()
	case screenPreview:
		body = m.viewPreview()
	case screenRunning:
		body = m.viewRunning()
	case screenResult:
		body = m.viewResult()
	}
	return header + "\n\n" + body
}

func (m Model) viewHeader() string {
	title := m.styles.Title.Render("clipsmith")
	var hint string
	switch m.screen {
	case screenMenu:
		hint = "↑/↓: move • enter: select • q: quit"
	case screenPickFile:
		hint = "↑/↓: move • enter: pick • esc: back"
	case screenPickMulti:
		hint = "↑/↓: move • space: toggle • enter: confirm • esc: back"
	case screenTrimForm, screenExtractForm, screenCropForm:
		hint = "tab: next field • enter: continue • esc: back"
	case screenConvertForm:
		hint = "↑/↓: stream • ←/→: action • enter: continue • esc: back"
	case screenPreview:
		hint = "y/enter: run • n/esc: back"
	case screenRunning:
		hint = "esc: cancel"
	case screenResult:
		hint = "enter: menu • q: quit"
	}
	return title + "\n" + m.styles.Subtitle.Render(hint)
}

func (m Model) viewMenu() string {
	var b strings.Builder
	b.WriteString(m.styles.Label.Render("What do you want to do?"))
	b.WriteString("\n\n")
	for i, it := range menuItems {
		cursor := "  "
		style := m.styles.Item
		if i == m.menuCursor {
			cursor = m.styles.Cursor.Render("> ")
			style = m.styles.Selected
		}
		b.WriteString(cursor + style.Render(it.label) + "\n")
	}
	if m.cfg.Entry.Source != "" {
		b.WriteString("\n" + m.styles.Faint.Render("acting on: "+m.cfg.Entry.Source))
	}
	return b.String()
}

func (m Model) viewPicker() string {
	var b strings.Builder
	if m.screen == screenPickMulti {
		b.WriteString(m.styles.Label.Render(fmt.Sprintf("Pick clips to join, in order (%s):", m.pickDir)))
	} else {
		b.WriteString(m.styles.Label.Render(fmt.Sprintf("Pick a file (%s):", m.pickDir)))
	}
	b.WriteString("\n\n")

	if m.probing {
		return b.String() + m.spin.View() + " " + m.styles.Faint.Render("scanning...")
	}
	if m.pickErr != "" {
		b.WriteString(m.styles.Error.Render(m.pickErr) + "\n")
	}

	order := make(map[int]int, len(m.picked))
	for pos, idx := range m.picked {
		order[idx] = pos + 1
	}
	for i, f := range m.files {
		cursor := "  "
		style := m.styles.Item
		if i == m.fileCursor {
			cursor = m.styles.Cursor.Render("> ")
			style = m.styles.Selected
		}
		mark := ""
		if pos, ok := order[i]; ok {
			mark = m.styles.Success.Render(fmt.Sprintf(" [%d]", pos))
		}
		b.WriteString(cursor + style.Render(filepath.Base(f)) + mark + "\n")
	}
	return b.String()
}

func (m Model) viewForm() string {
	var b strings.Builder
	b.WriteString(m.styles.Label.Render(fmt.Sprintf("%s — %s", operationTitle(m.opKind), filepath.Base(m.source))))
	b.WriteString("\n\n")
	for i, in := range m.inputs {
		label := m.styles.Label.Render(m.labels[i] + ": ")
		b.WriteString(label + in.View() + "\n")
	}
	if m.formErr != "" {
		b.WriteString("\n" + m.styles.Error.Render(m.formErr))
	}
	return b.String()
}

func (m Model) viewConvert() string {
	var b strings.Builder
	b.WriteString(m.styles.Label.Render("Choose an action per stream — " + filepath.Base(m.source)))
	b.WriteString("\n\n")
	for i, row := range m.convRows {
		cursor := "  "
		style := m.styles.Item
		if i == m.convCursor {
			cursor = m.styles.Cursor.Render("> ")
			style = m.styles.Selected
		}
		s := row.stream
		desc := fmt.Sprintf("#%d %-8s %-10s", s.Index, s.Kind, s.Codec)
		choice := row.choices[row.sel]
		choiceStyle := m.styles.Value
		switch choice {
		case "drop":
			choiceStyle = m.styles.Warning
		case "keep":
			choiceStyle = m.styles.Faint
		}
		b.WriteString(fmt.Sprintf("%s%s  ← %s →\n", cursor, style.Render(desc), choiceStyle.Render(choice)))
	}
	return b.String()
}

func (m Model) viewPreview() string {
	var b strings.Builder
	b.WriteString(m.styles.Label.Render("About to run:"))
	b.WriteString("\n\n")
	for _, p := range m.plans {
		b.WriteString("  " + m.styles.Preview.Render(p.Preview) + "\n")
	}
	b.WriteString("\n" + m.styles.Label.Render("Output: ") + m.styles.Value.Render(m.outPath))
	b.WriteString("\n\n" + m.styles.Warning.Render("Run? (y/n)"))
	return b.String()
}

func (m Model) viewRunning() string {
	var b strings.Builder
	stageStyle := m.styles.Preview
	switch m.stage {
	case progress.StageCompleted:
		stageStyle = m.styles.Success
	case progress.StageError:
		stageStyle = m.styles.Error
	}
	b.WriteString(m.spin.View() + " " + stageStyle.Render(string(m.stage)) + "\n\n")

	if m.percent >= 0 && m.percent <= 100 {
		b.WriteString(fmt.Sprintf("%s %5.1f%%", m.bar.ViewAs(m.percent/100.0), m.percent))
		if m.eta != nil {
			b.WriteString(m.styles.Faint.Render(fmt.Sprintf("  ~%s left", m.eta.Round(time.Second))))
		}
		b.WriteString("\n")
	}
	b.WriteString(m.styles.Value.Render(m.status) + "\n")

	// Tail of recent tool output in verbose sessions
	if m.cfg.Verbose && len(m.logsRing) > 0 {
		from := len(m.logsRing) - 5
		if from < 0 {
			from = 0
		}
		b.WriteString("\n")
		for _, line := range m.logsRing[from:] {
			b.WriteString(m.styles.Faint.Render(line) + "\n")
		}
	}
	return b.String()
}

func (m Model) viewResult() string {
	if m.resultErr != nil {
		return m.styles.Error.Render("✗ "+m.resultErr.Error()) + "\n"
	}
	if m.resultBody != "" {
		return m.resultBody
	}
	return m.styles.Success.Render("✓ done") + "\n"
}

func operationTitle(op model.OperationKind) string {
	s := strings.ReplaceAll(string(op), "-", " ")
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
