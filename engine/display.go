package engine

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

const (
	heldSymbol     = "✔"
	excludedSymbol = "✖"
	unknownSymbol  = "?"
)

// Render writes the matrix as a grid for human inspection: one row per
// card grouped by category, one column per player, ✔ for held, ✖ for
// excluded, blank for undetermined, plus per-player tallies. The output
// is never read back by the engine.
func Render(w io.Writer, m *Matrix, caption string) {
	fmt.Fprint(w, buildMatrixText(m, false, caption))
}

// RenderStats writes only the per-player tallies
func RenderStats(w io.Writer, m *Matrix, caption string) {
	fmt.Fprint(w, buildMatrixText(m, true, caption))
}

func buildMatrixText(m *Matrix, onlyStats bool, caption string) string {
	players := m.Players()
	cards := m.Cards()
	if len(players) == 0 || len(cards) == 0 {
		return ""
	}

	cardColWidth := utf8.RuneCountInString(caption)
	for _, c := range cards {
		if w := utf8.RuneCountInString(c.ID()); w > cardColWidth {
			cardColWidth = w
		}
	}
	cardColWidth += 2

	playerColWidth := 0
	for _, p := range players {
		if w := utf8.RuneCountInString(p.Name); w > playerColWidth {
			playerColWidth = w
		}
	}
	playerColWidth += 2

	var b strings.Builder
	writeLine := func(line string) {
		b.WriteString(strings.TrimRight(line, " "))
		b.WriteString("\n")
	}

	header := padRight(caption, cardColWidth)
	for _, p := range players {
		header += padRight(p.Name, playerColWidth)
	}
	writeLine(header)
	writeLine(strings.Repeat("=", cardColWidth+playerColWidth*len(players)))

	if !onlyStats {
		for _, c := range cards {
			row := padRight(c.ID(), cardColWidth)
			for _, p := range players {
				var symbol string
				switch m.Get(p, c) {
				case Yes:
					symbol = heldSymbol
				case No:
					symbol = excludedSymbol
				}
				row += padRight(symbol, playerColWidth)
			}
			writeLine(row)
		}
	}

	yesRow := padRight(fmt.Sprintf("PLC(%d)", m.HeldCards().Len()), cardColWidth)
	noRow := padRight("", cardColWidth)
	unknownRow := padRight("", cardColWidth)
	for _, p := range players {
		yes, no, unknown := 0, 0, 0
		for _, c := range cards {
			switch m.Get(p, c) {
			case Yes:
				yes++
			case No:
				no++
			default:
				unknown++
			}
		}
		yesRow += padRight(fmt.Sprintf("%s%d", heldSymbol, yes), playerColWidth)
		noRow += padRight(fmt.Sprintf("%s%d", excludedSymbol, no), playerColWidth)
		unknownRow += padRight(fmt.Sprintf("%s%d", unknownSymbol, unknown), playerColWidth)
	}
	writeLine(yesRow)
	writeLine(noRow)
	writeLine(unknownRow)

	return b.String()
}

func padRight(s string, width int) string {
	if pad := width - utf8.RuneCountInString(s); pad > 0 {
		return s + strings.Repeat(" ", pad)
	}
	return s
}
