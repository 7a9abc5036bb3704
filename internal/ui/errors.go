package ui

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"osptest/internal/domain"
	"osptest/internal/storage"
)

const maxStackLines = 10

// ErrorViewer displays the failures of the last run in an interactive TUI.
// Toggling a failure resolved is written back through the storage.
type ErrorViewer struct {
	storage storage.Storage
}

// NewErrorViewer creates a new ErrorViewer
func NewErrorViewer(st storage.Storage) *ErrorViewer {
	return &ErrorViewer{storage: st}
}

// failureList is the state behind the viewer: the failures and their resolved marks
type failureList struct {
	results *domain.TestResultsOutput
	storage storage.Storage
}

func (l *failureList) len() int { return len(l.results.Details) }

func (l *failureList) unresolved() int {
	n := 0
	for _, f := range l.results.Details {
		if !f.Resolved {
			n++
		}
	}
	return n
}

// toggle flips the resolved mark of a failure and persists the output
func (l *failureList) toggle(index int) error {
	if index < 0 || index >= l.len() {
		return nil
	}
	l.results.Details[index].Resolved = !l.results.Details[index].Resolved
	if l.storage == nil {
		return nil
	}
	return l.storage.SaveOutput(l.results)
}

func (l *failureList) itemText(index int) string {
	failure := l.results.Details[index]
	name := failure.FullName()
	if failure.TestName == "" {
		name = fmt.Sprintf("Test %d", index+1)
	}
	if failure.Resolved {
		return fmt.Sprintf("[gray]✓ [yellow]%d.[gray] %s[white]", index+1, name)
	}
	return fmt.Sprintf("[yellow]%d.[white] %s", index+1, name)
}

func (l *failureList) header() string {
	return fmt.Sprintf(" Test Failures (%d total, %d unresolved) | Use ↑↓ to navigate, [yellow]R[white] to mark resolved, → to view details, ← to go back, Ctrl+C to exit ",
		l.len(), l.unresolved())
}

// View displays test failures in an interactive TUI
func (ev *ErrorViewer) View(results *domain.TestResultsOutput) error {
	if results == nil || len(results.Details) == 0 {
		color.Green("✓ No test failures found!")
		return nil
	}

	state := &failureList{results: results, storage: ev.storage}
	app := tview.NewApplication()

	list := tview.NewList().
		ShowSecondaryText(false).
		SetHighlightFullLine(true)
	for i := range results.Details {
		list.AddItem(state.itemText(i), "", 0, nil)
	}
	list.SetMainTextColor(tview.Styles.PrimaryTextColor).
		SetSelectedTextColor(tcell.ColorWhite).
		SetSelectedBackgroundColor(tcell.ColorDarkCyan).
		SetSecondaryTextColor(tview.Styles.SecondaryTextColor)

	statsView := tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(false).
		SetWordWrap(false)

	detailsView := tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(true).
		SetWordWrap(true)

	detailsContainer := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(detailsView, 0, 1, false).
		AddItem(tview.NewBox(), 2, 0, false)

	rightSide := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(statsView, 3, 0, false).
		AddItem(detailsContainer, 0, 1, false)

	flex := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(list, 0, 1, true).
		AddItem(rightSide, 0, 2, false)

	headerView := tview.NewTextView().
		SetTextAlign(tview.AlignCenter).
		SetDynamicColors(true).
		SetText(state.header())

	updateDetails := func() {
		index := list.GetCurrentItem()
		if index < 0 || index >= state.len() {
			return
		}
		failure := results.Details[index]
		statsView.SetText(formatFailureStats(failure))
		detailsView.SetText(formatFailureDetails(failure))
	}

	var saveErr error
	list.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyEnter, tcell.KeyRight:
			app.SetFocus(detailsView)
			return nil
		case tcell.KeyCtrlC:
			app.Stop()
			return nil
		case tcell.KeyRune:
			if event.Rune() == 'r' || event.Rune() == 'R' {
				index := list.GetCurrentItem()
				if err := state.toggle(index); err != nil {
					saveErr = err
					app.Stop()
					return nil
				}
				list.SetItemText(index, state.itemText(index), "")
				headerView.SetText(state.header())
				updateDetails()
				return nil
			}
		}
		return event
	})

	detailsView.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyLeft, tcell.KeyEsc:
			app.SetFocus(list)
			return nil
		case tcell.KeyCtrlC:
			app.Stop()
			return nil
		}
		return event
	})

	list.SetChangedFunc(func(int, string, string, rune) {
		updateDetails()
	})
	updateDetails()

	mainLayout := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(headerView, 1, 0, false).
		AddItem(tview.NewBox(), 1, 0, false).
		AddItem(flex, 0, 1, true)

	if err := app.SetRoot(mainLayout, true).SetFocus(list).Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	if saveErr != nil {
		return fmt.Errorf("failed to save resolved status: %w", saveErr)
	}
	return nil
}

// formatFailureDetails formats a failure using tview color tags
func formatFailureDetails(failure domain.TestFailure) string {
	var b strings.Builder

	marker := "✗"
	if failure.Outcome == domain.OutcomeError.String() {
		marker = "!"
	}
	fmt.Fprintf(&b, "[red]%s %s: %s[white]\n\n", marker, failure.Outcome, failure.FullName())

	if failure.File != "" && failure.Line > 0 {
		fmt.Fprintf(&b, "[yellow]Location: %s:%d[white]\n\n", failure.File, failure.Line)
	}

	if failure.Message != "" {
		fmt.Fprintf(&b, "[yellow]Message:[white]\n%s\n\n", tview.Escape(failure.Message))
	}

	if len(failure.Checks) > 0 {
		fmt.Fprintf(&b, "[yellow]Failed checks:[white]\n")
		for _, check := range failure.Checks {
			fmt.Fprintf(&b, "  %s\n", tview.Escape(check))
		}
		b.WriteString("\n")
	}

	if len(failure.StackTrace) > 0 {
		fmt.Fprintf(&b, "[yellow]Stack Trace:[white]\n")
		for i, trace := range failure.StackTrace {
			if i == maxStackLines {
				fmt.Fprintf(&b, "  [gray]... and %d more lines[white]\n", len(failure.StackTrace)-maxStackLines)
				break
			}
			fmt.Fprintf(&b, "  %s\n", tview.Escape(trace))
		}
	}

	return b.String()
}

func formatFailureStats(failure domain.TestFailure) string {
	suite := failure.Suite
	if suite == "" {
		suite = "Unknown suite"
	}
	return fmt.Sprintf("[cyan]case:[white] [yellow]%s[white]::[yellow]%s[white]\n", suite, failure.TestName)
}
