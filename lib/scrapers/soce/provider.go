package soce

import (
	"regexp"
	"strings"

	"soce-backend/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

// cuts a body-text value short when another known label shares the line
var providerStopRe = regexp.MustCompile(`(?i)Raz[oó]n\s+Social|Correo\s+electr[oó]nico|Tel[eé]fono|Pa[íi]s|Provincia|Cant[oó]n|Direcci[oó]n`)

type labelSpec struct {
	labels []string
	bodyRe *regexp.Regexp
}

func newLabelSpec(labels ...string) labelSpec {
	alts := make([]string, len(labels))
	for i, l := range labels {
		alts[i] = regexp.QuoteMeta(l)
	}
	return labelSpec{
		labels: labels,
		bodyRe: regexp.MustCompile(`(?i)(?:` + strings.Join(alts, "|") + `)\s*:?\s*([^\n\r]+)`),
	}
}

var (
	labelName     = newLabelSpec("Razón Social", "Razon Social")
	labelEmail    = newLabelSpec("Correo electrónico", "Correo electronico")
	labelPhone    = newLabelSpec("Teléfono", "Telefono")
	labelCountry  = newLabelSpec("País", "Pais")
	labelProvince = newLabelSpec("Provincia")
	labelCanton   = newLabelSpec("Cantón", "Canton")
	labelAddress  = newLabelSpec("Dirección", "Direccion")
)

// find looks the label up in the DOM first, then falls back to a body-text
// regex. A missing label is not an error, the field stays empty.
func (s labelSpec) find(doc *goquery.Document, bodyText string) string {
	if v := htmlutil.LabeledValue(doc, s.labels...); v != "" {
		return v
	}

	m := s.bodyRe.FindStringSubmatch(bodyText)
	if m == nil {
		return ""
	}
	val := strings.TrimSpace(m[1])
	if cut := providerStopRe.FindStringIndex(val); cut != nil && cut[0] > 0 {
		val = strings.TrimSpace(val[:cut[0]])
	}
	if val == "" || len(val) > 150 {
		return ""
	}
	return val
}

func extractProvider(doc *goquery.Document, bodyText, ruc string) ProviderInfo {
	return ProviderInfo{
		Ruc:      ruc,
		Name:     labelName.find(doc, bodyText),
		Email:    labelEmail.find(doc, bodyText),
		Phone:    labelPhone.find(doc, bodyText),
		Country:  labelCountry.find(doc, bodyText),
		Province: labelProvince.find(doc, bodyText),
		Canton:   labelCanton.find(doc, bodyText),
		Address:  labelAddress.find(doc, bodyText),
	}
}
