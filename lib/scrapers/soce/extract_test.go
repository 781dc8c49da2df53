package soce

import (
	"bytes"
	"context"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"soce-backend/lib/amount"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

var dotFormat = AmountFormat{
	Quantity:  amount.SepDot,
	UnitPrice: amount.SepDot,
	LineTotal: amount.SepDot,
	Total:     amount.SepDot,
}

func loadSnapshot(t *testing.T, file string) Snapshot {
	t.Helper()

	raw, err := os.ReadFile(filepath.Join("testdata", file))
	require.NoError(t, err)
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(raw))
	require.NoError(t, err)
	pageUrl, err := url.Parse(DefaultBaseUrl + proformaPath + "?id=NIC-123456-2024-18&ruc=1790012345001")
	require.NoError(t, err)

	return Snapshot{
		URL:         pageUrl,
		Doc:         doc,
		ProcessCode: "NIC-123456-2024-18",
		Ruc:         "1790012345001",
	}
}

var wantItems = []LineItem{
	{
		Number:      "1",
		CpcCode:     "429950011",
		Description: "CEMENTO GRIS - SACO 50KG TIPO GU",
		Unit:        "Unidad",
		Quantity:    100,
		UnitPrice:   8.5,
		LineTotal:   850,
	},
	{
		Number:      "2",
		CpcCode:     "369530012",
		Description: "VARILLA CORRUGADA - 12MM X 12M ANTISISMICA",
		Unit:        "Unidad",
		Quantity:    250,
		UnitPrice:   10.12,
		LineTotal:   2530,
	},
}

func TestExtractFullPage(t *testing.T) {
	snap := loadSnapshot(t, "proforma_9col.html")
	result, err := Extract(context.Background(), snap, dotFormat)
	require.NoError(t, err)

	require.Equal(t, 3380.0, result.Total)
	require.Equal(t, "NIC-123456-2024-18", result.Nic)

	diff := cmp.Diff(wantItems, result.Items)
	require.Empty(t, diff)

	wantProvider := ProviderInfo{
		Ruc:      "1790012345001",
		Name:     "FERRETERIA EL TORNILLO CIA. LTDA.",
		Email:    "ventas@eltornillo.ec",
		Phone:    "022446688",
		Country:  "ECUADOR",
		Province: "PICHINCHA",
		Canton:   "QUITO",
		Address:  "AV. DE LA PRENSA N45-123",
	}
	diff = cmp.Diff(wantProvider, result.Provider)
	require.Empty(t, diff)

	wantAttachments := []Attachment{{
		Filename: "proforma_firmada.pdf",
		URL:      "https://www.compraspublicas.gob.ec/ProcesoContratacion/DocumentosProcesos/ExeGENBajarArchivoGeneral.cpe?id=991122",
	}}
	diff = cmp.Diff(wantAttachments, result.Attachments)
	require.Empty(t, diff)
}

// The portal renders the same offer with 7, 8 or 9 cells per row depending
// on how the classification columns came out. All variants must parse to the
// same line items.
func TestExtractRowVariants(t *testing.T) {
	for _, file := range []string{"proforma_8col.html", "proforma_7col.html"} {
		t.Run(file, func(t *testing.T) {
			snap := loadSnapshot(t, file)
			result, err := Extract(context.Background(), snap, dotFormat)
			require.NoError(t, err)
			require.Equal(t, 3380.0, result.Total)

			want := make([]LineItem, len(wantItems))
			copy(want, wantItems)
			if file == "proforma_7col.html" {
				// the 7-cell layout has no classification code column
				for i := range want {
					want[i].CpcCode = ""
				}
			}

			diff := cmp.Diff(want, result.Items)
			require.Empty(t, diff)
		})
	}
}

func TestExtractSkipsSubtotalRows(t *testing.T) {
	snap := loadSnapshot(t, "proforma_subtotal.html")
	result, err := Extract(context.Background(), snap, dotFormat)
	require.NoError(t, err)

	require.Equal(t, 977.5, result.Total)
	require.Len(t, result.Items, 1)
	require.Equal(t, 850.0, result.Items[0].LineTotal)
}

func TestExtractNoProforma(t *testing.T) {
	t.Run("zero total", func(t *testing.T) {
		snap := loadSnapshot(t, "proforma_empty.html")
		result, err := Extract(context.Background(), snap, dotFormat)
		kind, ok := KindOf(err)
		require.True(t, ok)
		require.Equal(t, KindNoProforma, kind)
		// the page carries the process code even without an offer
		require.Equal(t, "NIC-123456-2024-18", result.Nic)
	})

	t.Run("missing total row", func(t *testing.T) {
		const page = `<html><body><table>
			<tr><td>1</td><td>CEMENTO GRIS</td><td>Unidad</td>
			<td>100</td><td>8.50</td><td>850.00</td><td></td></tr>
		</table></body></html>`
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
		require.NoError(t, err)

		_, err = Extract(context.Background(), Snapshot{Doc: doc}, dotFormat)
		kind, ok := KindOf(err)
		require.True(t, ok)
		require.Equal(t, KindNoProforma, kind)
	})
}

func TestExtractMalformedPage(t *testing.T) {
	t.Run("nil document", func(t *testing.T) {
		_, err := Extract(context.Background(), Snapshot{}, dotFormat)
		kind, ok := KindOf(err)
		require.True(t, ok)
		require.Equal(t, KindMalformedPage, kind)
	})

	t.Run("no tables", func(t *testing.T) {
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(
			"<html><body><p>Sesion caducada.</p></body></html>",
		))
		require.NoError(t, err)

		_, err = Extract(context.Background(), Snapshot{Doc: doc}, dotFormat)
		kind, ok := KindOf(err)
		require.True(t, ok)
		require.Equal(t, KindMalformedPage, kind)
	})
}

func TestCalibrateAmounts(t *testing.T) {
	t.Run("dot decimals", func(t *testing.T) {
		format, err := CalibrateAmounts(context.Background(), loadSnapshot(t, "proforma_9col.html"))
		require.NoError(t, err)
		require.Equal(t, amount.SepDot, format.LineTotal)
		require.Equal(t, amount.SepDot, format.Total)
	})

	t.Run("comma decimals", func(t *testing.T) {
		format, err := CalibrateAmounts(context.Background(), loadSnapshot(t, "proforma_comma.html"))
		require.NoError(t, err)
		require.Equal(t, amount.SepComma, format.LineTotal)
		require.Equal(t, amount.SepComma, format.Total)
	})

	t.Run("ambiguous sample", func(t *testing.T) {
		_, err := CalibrateAmounts(context.Background(), loadSnapshot(t, "proforma_ambiguous.html"))
		require.ErrorContains(t, err, "ambiguous")
	})

	t.Run("unreconcilable sample", func(t *testing.T) {
		_, err := CalibrateAmounts(context.Background(), loadSnapshot(t, "proforma_unbalanced.html"))
		require.ErrorContains(t, err, "reconcile")
	})
}
