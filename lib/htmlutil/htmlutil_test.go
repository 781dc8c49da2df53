package htmlutil

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

func TestNormalizeLabel(t *testing.T) {
	cases := map[string]string{
		"  Razón   Social: ":  "razon social:",
		"Correo electrónico":  "correo electronico",
		"TELÉFONO":            "telefono",
		"Dirección\n\tMatriz": "direccion matriz",
	}
	for in, expect := range cases {
		if got := NormalizeLabel(in); got != expect {
			t.Fatal("unexpected normalization", "in", in, "got", got, "want", expect)
		}
	}
}

func TestLabelMatches(t *testing.T) {
	if !LabelMatches("Razón Social:", "Razon Social") {
		t.Fatal("accented label with colon should match")
	}
	if !LabelMatches("Razon  Social", "Razón Social") {
		t.Fatal("unaccented label should match accented reference")
	}
	// one-character typo, caught by the distance fallback
	if !LabelMatches("Telfono:", "Teléfono") {
		t.Fatal("near-miss label should match")
	}
	if LabelMatches("Razón Social: ACME IMPORTADORA S.A.", "Razon Social") {
		t.Fatal("label followed by a long value is not a pure label cell")
	}
	if LabelMatches("Provincia", "País") {
		t.Fatal("unrelated labels should not match")
	}
}

const labeledTableDoc = `
<html><body>
<table>
  <tr><td><b>Razón Social:</b></td><td>ACME IMPORTADORA S.A.</td></tr>
  <tr><td>Correo electrónico</td><td> ventas@acme.ec </td></tr>
</table>
<div><span>Teléfono:</span><span>022556677</span></div>
<div><p><strong>Cantón</strong></p><p>Quito</p></div>
</body></html>`

func TestLabeledValue(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(labeledTableDoc))
	if err != nil {
		t.Fatal(err)
	}

	cases := []struct {
		labels []string
		expect string
	}{
		{labels: []string{"Razón Social", "Razon Social"}, expect: "ACME IMPORTADORA S.A."},
		{labels: []string{"Correo electrónico", "Correo electronico"}, expect: "ventas@acme.ec"},
		{labels: []string{"Teléfono", "Telefono"}, expect: "022556677"},
		{labels: []string{"Cantón", "Canton"}, expect: "Quito"},
		{labels: []string{"Provincia"}, expect: ""},
	}
	for _, test := range cases {
		got := LabeledValue(doc, test.labels...)
		if got != test.expect {
			t.Fatal("unexpected labeled value", "labels", test.labels, "got", got, "want", test.expect)
		}
	}
}
