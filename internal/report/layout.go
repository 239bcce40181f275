package report

import (
	"math"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/johnfercher/maroto/v2/pkg/core"
)

// Page geometry in millimetres (US Letter, 30 pt side and top margins).
const (
	pageHeight   = 279.4
	marginSide   = 10.58
	marginTop    = 10.58
	marginBottom = 20.0025
	contentWidth = 215.9 - 2*marginSide

	// pageBudget is the height a page may fill. It sits below the printable
	// area so estimated text heights never push a unit across a page break.
	pageBudget = pageHeight - marginTop - marginBottom - 8

	// maxRowHeight caps a single text row so that a room heading and the
	// first row of its first entry always fit on one page together.
	maxRowHeight = pageBudget / 2

	ptToMM = 25.4 / 72

	imageHeightMM = 150 * ptToMM
	cellPadding   = 2.0
	entryHeight   = imageHeightMM + 2*cellPadding
	spacerHeight  = 12 * ptToMM

	// Columns out of maroto's 12-column grid.
	descriptionCols = 7
	imageCols       = 5
)

// Kind identifies what a laid-out element shows.
type Kind int

const (
	KindSpacer Kind = iota
	KindTitle
	KindField
	KindGeneralObservations
	KindRoomHeading
	KindEntry
	KindObservation
	KindSignature
	// KindContinuation carries the rest of a text too tall for one row.
	KindContinuation
)

// Element is one row of the report.
type Element struct {
	Kind   Kind
	Text   string
	Detail string // image placeholder for entries without an embeddable image
	Height float64
	rows   []core.Row
}

// Unit is a run of elements that must land on the same page.
type Unit struct {
	Elements []Element
	Height   float64
}

func (u *Unit) add(elements ...Element) {
	for _, e := range elements {
		u.Elements = append(u.Elements, e)
		u.Height += e.Height
	}
}

// Plan is the paginated layout of a report.
type Plan struct {
	Pages [][]Unit
}

// Count returns the number of elements of the given kind across all pages.
func (p *Plan) Count(kind Kind) int {
	n := 0
	for _, page := range p.Pages {
		for _, unit := range page {
			for _, e := range unit.Elements {
				if e.Kind == kind {
					n++
				}
			}
		}
	}
	return n
}

// Elements returns the elements of the given kind in document order.
func (p *Plan) Elements(kind Kind) []Element {
	var out []Element
	for _, page := range p.Pages {
		for _, unit := range page {
			for _, e := range unit.Elements {
				if e.Kind == kind {
					out = append(out, e)
				}
			}
		}
	}
	return out
}

func (p *Plan) rows(page int) []core.Row {
	var rows []core.Row
	for _, unit := range p.Pages[page] {
		for _, e := range unit.Elements {
			rows = append(rows, e.rows...)
		}
	}
	return rows
}

// paginate places units greedily. A unit that does not fit in the remaining
// space starts a new page; a unit taller than a whole page gets its own page.
func paginate(units []Unit, budget float64) [][]Unit {
	var pages [][]Unit
	var current []Unit
	used := 0.0

	for _, unit := range units {
		if len(current) > 0 && used+unit.Height > budget {
			pages = append(pages, current)
			current = nil
			used = 0
		}
		current = append(current, unit)
		used += unit.Height
	}
	if len(current) > 0 {
		pages = append(pages, current)
	}
	return pages
}

// textHeight estimates the height of wrapped Helvetica text of the given size
// in a column span of maroto's 12-column grid.
func textHeight(s string, size float64, cols int) float64 {
	width := contentWidth*float64(cols)/12 - 2*cellPadding
	charWidth := size * 0.55 * ptToMM
	perLine := int(math.Max(1, math.Floor(width/charWidth)))

	lines := 0
	for _, paragraph := range strings.Split(s, "\n") {
		n := utf8.RuneCountInString(paragraph)
		lines += int(math.Max(1, math.Ceil(float64(n)/float64(perLine))))
	}

	lineHeight := size * ptToMM * 1.3
	return float64(lines)*lineHeight + 2*cellPadding
}

// splitText breaks s into pieces whose estimated height stays within
// maxHeight, preferring to break at whitespace. Empty input yields one empty piece.
func splitText(s string, size float64, cols int, maxHeight float64) []string {
	rest := []rune(s)
	if len(rest) == 0 {
		return []string{""}
	}

	var pieces []string
	for len(rest) > 0 {
		if textHeight(string(rest), size, cols) <= maxHeight {
			pieces = append(pieces, string(rest))
			break
		}

		// Largest prefix that still fits.
		lo, hi := 1, len(rest)
		for lo < hi {
			mid := (lo + hi + 1) / 2
			if textHeight(string(rest[:mid]), size, cols) <= maxHeight {
				lo = mid
			} else {
				hi = mid - 1
			}
		}

		n := lo
		for i := n - 1; i > n/2; i-- {
			if unicode.IsSpace(rest[i]) {
				n = i + 1
				break
			}
		}

		pieces = append(pieces, strings.TrimRightFunc(string(rest[:n]), unicode.IsSpace))
		rest = []rune(strings.TrimLeftFunc(string(rest[n:]), unicode.IsSpace))
	}
	return pieces
}
