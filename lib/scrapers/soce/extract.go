package soce

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"soce-backend/lib/amount"
	"soce-backend/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/net/html"
)

type ErrorKind int

const (
	// the renderer did not settle within its deadline
	KindTimeout ErrorKind = iota
	// valid page, no usable offer: missing total row or total <= 0
	KindNoProforma
	// table structure unrecognizable
	KindMalformedPage
)

func (k ErrorKind) String() string {
	switch k {
	case KindTimeout:
		return "timeout"
	case KindNoProforma:
		return "no proforma"
	case KindMalformedPage:
		return "malformed page"
	}
	return "unknown"
}

type ExtractError struct {
	Kind ErrorKind
	Err  error
}

func (e *ExtractError) Error() string {
	if e.Err == nil {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Err)
}

func (e *ExtractError) Unwrap() error {
	return e.Err
}

// KindOf reports the extraction failure kind wrapped in err, if any.
func KindOf(err error) (ErrorKind, bool) {
	var ee *ExtractError
	if errors.As(err, &ee) {
		return ee.Kind, true
	}
	return 0, false
}

// AmountFormat fixes the decimal-separator policy per field. The portal is
// not consistent across table regions, so the format comes from configuration
// or from CalibrateAmounts, never from a per-page guess.
type AmountFormat struct {
	Quantity  amount.Separator
	UnitPrice amount.Separator
	LineTotal amount.Separator
	Total     amount.Separator
}

type LineItem struct {
	Number      string
	CpcCode     string
	Description string
	Unit        string
	Quantity    float64
	UnitPrice   float64
	LineTotal   float64
}

type ProviderInfo struct {
	Ruc      string
	Name     string
	Email    string
	Phone    string
	Country  string
	Province string
	Canton   string
	Address  string
}

type Attachment struct {
	Filename string
	URL      string
}

type Result struct {
	Provider    ProviderInfo
	Items       []LineItem
	Total       float64
	Nic         string
	Attachments []Attachment
}

var nicRegex = regexp.MustCompile(`NIC-\d{5,}-\d{4}-\d+`)

// Extract parses one provider's rendered proforma page into typed line
// items, a validated total and attachment references. The total row is the
// acceptance gate: a page without one, or with a total of zero, is "no
// offer", not a parse failure.
func Extract(ctx context.Context, snap Snapshot, format AmountFormat) (Result, error) {
	_, span := tracer.Start(ctx, "Extract")
	defer span.End()
	span.SetAttributes(attribute.String("ruc", snap.Ruc))

	if snap.Doc == nil {
		return Result{}, &ExtractError{Kind: KindMalformedPage, Err: errors.New("nil document")}
	}

	rows := snap.Doc.Find("table tr")
	if rows.Length() == 0 {
		return Result{}, &ExtractError{Kind: KindMalformedPage, Err: errors.New("no table rows on page")}
	}

	bodyText := pageText(snap.Doc)
	nic := nicRegex.FindString(bodyText)

	totalRow, total := findTotal(rows, format.Total)
	if totalRow == nil || total <= 0 {
		// the page names the process even when no offer was registered
		return Result{Nic: nic}, &ExtractError{Kind: KindNoProforma}
	}

	items := collectItems(rows, totalRow, format)

	result := Result{
		Provider:    extractProvider(snap.Doc, bodyText, snap.Ruc),
		Items:       items,
		Total:       total,
		Nic:         nic,
		Attachments: collectAttachments(snap.Doc, snap.URL),
	}

	span.SetAttributes(
		attribute.Int("items", len(result.Items)),
		attribute.Int("attachments", len(result.Attachments)),
		attribute.Float64("total", result.Total),
	)
	return result, nil
}

// findTotal locates the grand-total row by text match and parses the first
// numeric cell at or after the label. Subtotal and tax rows are skipped.
func findTotal(rows *goquery.Selection, sep amount.Separator) (*html.Node, float64) {
	var node *html.Node
	var total float64

	rows.EachWithBreak(func(_ int, row *goquery.Selection) bool {
		cells := row.Find("td, th")

		labelIdx := -1
		cells.EachWithBreak(func(i int, c *goquery.Selection) bool {
			n := htmlutil.NormalizeLabel(c.Text())
			if strings.Contains(n, "total") &&
				!strings.Contains(n, "subtotal") && !strings.Contains(n, "iva") {
				labelIdx = i
				return false
			}
			return true
		})
		if labelIdx < 0 {
			return true
		}

		found := false
		cells.Slice(labelIdx, cells.Length()).EachWithBreak(func(_ int, c *goquery.Selection) bool {
			if v, ok := amount.Parse(c.Text(), sep); ok {
				total = v
				found = true
				return false
			}
			return true
		})
		if !found {
			return true
		}

		node = row.Nodes[0]
		return false
	})

	return node, total
}

var itemHeaderPhrases = []string{
	"descripcion del producto",
	"detalle del objeto",
	"valor unitario",
	"v. unitario",
}

func isItemHeader(rowText string) bool {
	n := htmlutil.NormalizeLabel(rowText)
	for _, phrase := range itemHeaderPhrases {
		if strings.Contains(n, phrase) {
			return true
		}
	}
	return false
}

func cellText(cells *goquery.Selection, idx int) string {
	if idx < 0 {
		return ""
	}
	return htmlutil.CollapseSpace(cells.Eq(idx).Text())
}

func containsDigit(s string) bool {
	return strings.ContainsAny(s, "0123456789")
}

func collectItems(rows *goquery.Selection, totalRow *html.Node, format AmountFormat) []LineItem {
	var items []LineItem

	rows.Each(func(_ int, row *goquery.Selection) {
		if row.Nodes[0] == totalRow {
			return
		}

		cells := row.Find("td")
		shape, ok := shapeForCells(cells.Length())
		if !ok {
			return
		}
		if isItemHeader(row.Text()) {
			return
		}

		qtyText := cellText(cells, shape.qty)
		if !containsDigit(qtyText) {
			return
		}

		qty, _ := amount.Parse(qtyText, format.Quantity)
		unitPrice, _ := amount.Parse(cellText(cells, shape.unitPrice), format.UnitPrice)
		lineTotal, _ := amount.Parse(cellText(cells, shape.lineTotal), format.LineTotal)

		desc := cellText(cells, shape.desc)
		if name := cellText(cells, shape.cpcDesc); name != "" {
			if desc == "" {
				desc = name
			} else {
				desc = fmt.Sprintf("%s - %s", name, desc)
			}
		}

		items = append(items, LineItem{
			Number:      cellText(cells, shape.no),
			CpcCode:     cellText(cells, shape.cpcCode),
			Description: desc,
			Unit:        cellText(cells, shape.unit),
			Quantity:    qty,
			UnitPrice:   unitPrice,
			LineTotal:   lineTotal,
		})
	})

	return items
}

var lineSpace = regexp.MustCompile(`[ \t]+`)

// pageText approximates the page's visible text while preserving line
// breaks, which the body-text label fallback depends on.
func pageText(doc *goquery.Document) string {
	return lineSpace.ReplaceAllString(doc.Find("body").Text(), " ")
}
