// Package cli handles cmd line input for trying a choices session by hand
package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/bastiangx/choices/pkg/session"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/olekukonko/tablewriter"
)

var (
	labelStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("75"))
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("114")).Bold(true)
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
)

// InputHandler reads queries and commands line by line and prints the
// resulting choices. Lines starting with ':' are commands:
//
//	:sel <value>   select a choice
//	:rm <value>    deselect an item
//	:hl <value>    toggle the highlight on an item
//	:drop          remove highlighted items
//	:items         list selected values
//	:clear         clear the search
type InputHandler struct {
	session      *session.Session
	logger       *log.Logger
	showScores   bool
	requestCount int
}

// NewInputHandler handles initialization of the InputHandler
func NewInputHandler(sess *session.Session, logger *log.Logger, showScores bool) *InputHandler {
	return &InputHandler{
		session:    sess,
		logger:     logger,
		showScores: showScores,
	}
}

// Start runs the loop on r until it is exhausted.
func (h *InputHandler) Start(r io.Reader) error {
	h.logger.Print("choices CLI")
	h.logger.Print("type a query and press Enter to filter, :sel <value> to select (Ctrl+C to exit):")
	h.render()

	reader := bufio.NewReader(r)
	for {
		line, err := reader.ReadString('\n')
		if line = strings.TrimSpace(line); line != "" {
			h.handleInput(line)
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func (h *InputHandler) handleInput(line string) {
	h.requestCount++
	if !strings.HasPrefix(line, ":") {
		h.query(line)
		return
	}

	cmd, arg, _ := strings.Cut(strings.TrimPrefix(line, ":"), " ")
	arg = strings.TrimSpace(arg)

	var err error
	switch cmd {
	case "sel":
		err = h.session.Select(arg)
	case "rm":
		err = h.session.Deselect(arg)
	case "hl":
		err = h.toggleHighlight(arg)
	case "drop":
		var n int
		n, err = h.session.RemoveHighlighted()
		h.logger.Debugf("Removed %d highlighted items", n)
	case "items":
		h.printItems()
		return
	case "clear":
		err = h.session.ClearSearch()
	default:
		err = fmt.Errorf("unknown command %q", cmd)
	}
	if err != nil {
		h.logger.Error(err)
		return
	}
	h.render()
}

func (h *InputHandler) query(q string) {
	start := time.Now()
	n, err := h.session.Search(q)
	if err != nil {
		h.logger.Error(err)
		return
	}
	h.logger.Debugf("Took [ %v ] for query '%s'", time.Since(start), q)
	if n == 0 {
		h.logger.Warnf("No choices match '%s'", q)
		return
	}
	h.render()
}

func (h *InputHandler) toggleHighlight(value string) error {
	for _, item := range h.session.Store().Items() {
		if item.Value == value {
			return h.session.Highlight(value, !item.Highlighted)
		}
	}
	return fmt.Errorf("%w: %q", session.ErrNotFound, value)
}

func (h *InputHandler) render() {
	results := h.session.Results()
	if q := h.session.Query(); q != "" {
		h.logger.Printf("%d choices for '%s':", len(results), q)
	}
	for _, r := range results {
		style := labelStyle
		mark := " "
		if r.Item.Selected {
			style, mark = selectedStyle, "*"
		}
		if r.Item.Disabled {
			style = mutedStyle
		}
		line := fmt.Sprintf("%s %2d. %-30s %s", mark, r.Rank+1, style.Render(r.Item.Label.Display()), mutedStyle.Render(r.Item.Value))
		if h.showScores && h.session.Query() != "" {
			line += mutedStyle.Render(fmt.Sprintf(" (score: %.3f)", r.Score))
		}
		h.logger.Print(line)
	}
}

func (h *InputHandler) printItems() {
	items := h.session.Store().Items()
	if len(items) == 0 {
		h.logger.Print("no items selected")
		return
	}

	var buf strings.Builder
	table := tablewriter.NewWriter(&buf)
	table.SetHeader([]string{"#", "Value", "Label", "Highlighted"})
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetNoWhiteSpace(true)
	table.SetTablePadding("  ")
	for i, item := range items {
		table.Append([]string{
			strconv.Itoa(i + 1),
			item.Value,
			item.Label.Display(),
			strconv.FormatBool(item.Highlighted),
		})
	}
	table.Render()
	h.logger.Printf("%d items:\n%s", len(items), buf.String())
}
