// Package report renders an inspection report PDF with maroto.
// Rows are measured and paginated here so that a room heading always shares
// a page with its first photo, then each page is handed to maroto as is.
package report

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/image"
	"github.com/johnfercher/maroto/v2/pkg/components/page"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/border"
	"github.com/johnfercher/maroto/v2/pkg/consts/extension"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/vistoria-app/vistoria/internal/models"
)

// ── Colour palette ──────────────────────────────────────────────────────

var (
	colorHeader    = &props.Color{Red: 0, Green: 115, Blue: 230} // #0073e6
	colorSubheader = &props.Color{Red: 0, Green: 91, Blue: 181}  // #005bb5
	colorText      = &props.Color{Red: 0, Green: 0, Blue: 0}
	colorRed       = &props.Color{Red: 255, Green: 0, Blue: 0}
	colorGrid      = &props.Color{Red: 128, Green: 128, Blue: 128}
)

const (
	sizeHeader    = 14.0
	sizeSubheader = 12.0
	sizeNormal    = 10.0

	signatureLine = "__________________________"
)

// Data is everything a report is rendered from.
type Data struct {
	Rooms    models.GroupedRooms
	Metadata models.InspectionMetadata
	// ImageDir is the folder the entries' image filenames are resolved against.
	ImageDir string
}

// Generator renders inspection reports.
type Generator struct {
	lenientDates bool
}

// Option configures a Generator.
type Option func(*Generator)

// WithLenientDates renders an unparseable start date as a visible
// placeholder instead of failing the report.
func WithLenientDates(lenient bool) Option {
	return func(g *Generator) {
		g.lenientDates = lenient
	}
}

func NewGenerator(opts ...Option) *Generator {
	g := &Generator{}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate renders the report and returns the PDF bytes.
func (g *Generator) Generate(data Data) ([]byte, error) {
	plan, err := g.Plan(data)
	if err != nil {
		return nil, err
	}

	cfg := config.NewBuilder().
		WithPageSize(pagesize.Letter).
		WithLeftMargin(marginSide).
		WithTopMargin(marginTop).
		WithRightMargin(marginSide).
		Build()

	m := maroto.New(cfg)
	for i := range plan.Pages {
		m.AddPages(page.New().Add(plan.rows(i)...))
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("generate PDF: %w", err)
	}

	slog.Info("Rendered inspection report",
		"rooms", len(data.Rooms),
		"entries", data.Rooms.TotalEntries(),
		"pages", len(plan.Pages))
	return doc.GetBytes(), nil
}

// Plan lays out the report without producing a PDF.
func (g *Generator) Plan(data Data) (*Plan, error) {
	meta := data.Metadata.WithDefaults()

	header, err := g.buildHeader(meta)
	if err != nil {
		return nil, err
	}

	units := []Unit{header}
	if meta.GeneralObservations != "" {
		units = append(units, buildGeneralObservations(meta.GeneralObservations)...)
	}

	for _, group := range data.Rooms {
		units = append(units, buildRoom(group, data.ImageDir)...)
	}

	units = append(units, buildSignatureBlock(meta))

	return &Plan{Pages: paginate(units, pageBudget)}, nil
}

// ── Title block ─────────────────────────────────────────────────────────

func (g *Generator) buildHeader(meta models.InspectionMetadata) (Unit, error) {
	startDate, err := startDateLine(meta.StartDate, g.lenientDates)
	if err != nil {
		return Unit{}, err
	}

	var unit Unit
	unit.add(
		textElement(KindTitle, fmt.Sprintf("VISTORIA DE %s: %s", strings.ToUpper(meta.InspectionType), meta.BuildingName), headerStyle()),
		textElement(KindTitle, "APARTAMENTO "+meta.UnitNumber, subheaderStyle()),
		textElement(KindField, "Vistoriador: "+meta.InspectorName, normalStyle()),
		textElement(KindField, "Locador: "+meta.Landlord, normalStyle()),
		textElement(KindField, "Locatário: "+meta.Tenant, normalStyle()),
		textElement(KindField, "Data de Início: "+startDate, normalStyle()),
		textElement(KindField, "Endereço: "+meta.Address, normalStyle()),
		spacer(spacerHeight),
	)
	return unit, nil
}

// ── General observations ────────────────────────────────────────────────

func buildGeneralObservations(observations string) []Unit {
	var units []Unit
	unit := Unit{}
	unit.add(textElement(KindGeneralObservations, "Observações Gerais:", subheaderStyle()))
	for i, piece := range splitText(observations, sizeNormal, 12, maxRowHeight) {
		kind := KindGeneralObservations
		if i > 0 {
			kind = KindContinuation
			units = append(units, unit)
			unit = Unit{}
		}
		unit.add(textElement(kind, piece, normalStyle()))
	}
	unit.add(spacer(spacerHeight))
	return append(units, unit)
}

// ── Rooms ───────────────────────────────────────────────────────────────

// buildRoom returns the units of a room. The heading travels with the first
// row of the first entry so a page break never falls between them, and an
// entry stays in one unit with its observation unless together they exceed a page.
func buildRoom(group models.RoomGroup, imageDir string) []Unit {
	units := make([]Unit, 0, len(group.Entries))
	limit := pageBudget - spacerHeight

	heading := textElement(KindRoomHeading, strings.ToUpper(group.Room), headerStyle())
	for i, entry := range group.Entries {
		elements := buildEntry(entry, imageDir)
		if entry.Observation != "" {
			elements = append(elements, buildObservation(entry.Observation)...)
		}

		var unit Unit
		if i == 0 {
			unit.add(heading, spacer(4))
		}
		for j, e := range elements {
			if j > 0 && unit.Height+e.Height > limit {
				units = append(units, unit)
				unit = Unit{}
			}
			unit.add(e)
		}
		unit.add(spacer(spacerHeight))
		units = append(units, unit)
	}
	return units
}

// buildEntry returns the bordered description | image row, followed by
// continuation rows when the description is taller than maxRowHeight.
func buildEntry(entry models.ImageDescription, imageDir string) []Element {
	descStyle := cellTextStyle()
	pieces := splitText(entry.Description, sizeNormal, descriptionCols, maxRowHeight)

	descCol := col.New(descriptionCols).Add(text.New(pieces[0], descStyle))
	descHeight := textHeight(pieces[0], sizeNormal, descriptionCols)

	element := Element{Kind: KindEntry, Text: entry.Description}

	var imageCol core.Col
	imageBytes, err := loadImage(filepath.Join(imageDir, entry.Image))
	if err == nil {
		imageCol = col.New(imageCols).Add(image.NewFromBytes(imageBytes, extension.Jpg, props.Rect{
			Center:  true,
			Percent: 100 * imageHeightMM / entryHeight,
		}))
		element.Height = max(entryHeight, descHeight)
	} else {
		placeholder := "Imagem não encontrada: " + entry.Image
		if !errors.Is(err, errImageMissing) {
			slog.Warn("Unable to embed image", "image", entry.Image, "err", err)
			placeholder = "Imagem ilegível: " + entry.Image
		}
		element.Detail = placeholder
		imageCol = col.New(imageCols).Add(text.New(placeholder, descStyle))
		element.Height = max(descHeight, textHeight(placeholder, sizeNormal, imageCols))
	}

	element.rows = []core.Row{borderedRow(element.Height, descCol, imageCol)}

	elements := []Element{element}
	for _, piece := range pieces[1:] {
		elements = append(elements, continuation(piece, descStyle))
	}
	return elements
}

func buildObservation(observation string) []Element {
	style := cellTextStyle()
	style.Style = fontstyle.Italic
	style.Color = colorRed

	content := "Observação: " + observation
	var elements []Element
	for i, piece := range splitText(content, sizeNormal, descriptionCols, maxRowHeight) {
		if i > 0 {
			elements = append(elements, continuation(piece, style))
			continue
		}
		height := textHeight(piece, sizeNormal, descriptionCols)
		elements = append(elements, Element{
			Kind:   KindObservation,
			Text:   content,
			Height: height,
			rows:   []core.Row{borderedRow(height, col.New(descriptionCols).Add(text.New(piece, style)), col.New(imageCols))},
		})
	}
	return elements
}

func continuation(piece string, style props.Text) Element {
	height := textHeight(piece, sizeNormal, descriptionCols)
	return Element{
		Kind:   KindContinuation,
		Text:   piece,
		Height: height,
		rows:   []core.Row{borderedRow(height, col.New(descriptionCols).Add(text.New(piece, style)), col.New(imageCols))},
	}
}

func borderedRow(height float64, cols ...core.Col) core.Row {
	return row.New(height).Add(cols...).WithStyle(&props.Cell{
		BorderType:  border.Full,
		BorderColor: colorGrid,
	})
}

// ── Signature block ─────────────────────────────────────────────────────

func buildSignatureBlock(meta models.InspectionMetadata) Unit {
	style := props.Text{
		Size:  sizeNormal,
		Style: fontstyle.Bold,
		Color: colorHeader,
		Align: align.Center,
	}

	lines := [][2]string{
		{signatureLine, signatureLine},
		{"ASS.", "ASS."},
		{meta.Landlord, meta.Tenant},
	}

	var rows []core.Row
	height := 0.0
	for _, line := range lines {
		h := max(textHeight(line[0], sizeNormal, 6), textHeight(line[1], sizeNormal, 6)) + 12*ptToMM
		rows = append(rows, row.New(h).Add(
			col.New(6).Add(text.New(line[0], style)),
			col.New(6).Add(text.New(line[1], style)),
		))
		height += h
	}

	var unit Unit
	unit.add(spacer(24 * ptToMM))
	unit.add(Element{
		Kind:   KindSignature,
		Text:   meta.Landlord + " / " + meta.Tenant,
		Height: height,
		rows:   rows,
	})
	return unit
}

// ── Helpers ─────────────────────────────────────────────────────────────

func headerStyle() props.Text {
	return props.Text{Size: sizeHeader, Style: fontstyle.Bold, Align: align.Center, Color: colorHeader}
}

func subheaderStyle() props.Text {
	return props.Text{Size: sizeSubheader, Style: fontstyle.Bold, Align: align.Left, Color: colorSubheader}
}

func normalStyle() props.Text {
	return props.Text{Size: sizeNormal, Align: align.Left, Color: colorText}
}

func cellTextStyle() props.Text {
	style := normalStyle()
	style.Top = cellPadding
	style.Left = cellPadding
	style.Right = cellPadding
	return style
}

func textElement(kind Kind, content string, style props.Text) Element {
	height := textHeight(content, style.Size, 12)
	return Element{
		Kind:   kind,
		Text:   content,
		Height: height,
		rows:   []core.Row{row.New(height).Add(col.New(12).Add(text.New(content, style)))},
	}
}

func spacer(height float64) Element {
	return Element{Kind: KindSpacer, Height: height, rows: []core.Row{row.New(height)}}
}
