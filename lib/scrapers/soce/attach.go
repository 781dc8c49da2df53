package soce

import (
	"net/url"
	"regexp"
	"strings"

	"soce-backend/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

// the portal's generic file-download endpoint
const downloadEndpoint = "ExeGENBajarArchivoGeneral"

var onclickUrlRe = regexp.MustCompile(`['"]([^'"]*` + downloadEndpoint + `[^'"]*)['"]`)

// header and placeholder texts that must never be taken for filenames
var attachmentPlaceholderPhrases = []string{
	"descripcion del archivo",
	"descargar archivo",
	"archivo para adjuntar",
}

var attachmentPlaceholderWords = []string{
	"descripcion",
	"archivo",
	"adjuntar",
}

func isAttachmentPlaceholder(name string) bool {
	n := htmlutil.NormalizeLabel(name)
	for _, phrase := range attachmentPlaceholderPhrases {
		if strings.Contains(n, phrase) {
			return true
		}
	}
	for _, word := range attachmentPlaceholderWords {
		if n == word {
			return true
		}
	}
	return false
}

// downloadTarget pulls the endpoint reference out of an anchor, whether it
// sits on href, on an onclick handler, or on the src of the icon inside.
func downloadTarget(link *goquery.Selection) string {
	if href := link.AttrOr("href", ""); strings.Contains(href, downloadEndpoint) {
		return href
	}
	if m := onclickUrlRe.FindStringSubmatch(link.AttrOr("onclick", "")); m != nil {
		return m[1]
	}
	target := ""
	link.Find("img").EachWithBreak(func(_ int, img *goquery.Selection) bool {
		if src := img.AttrOr("src", ""); strings.Contains(src, downloadEndpoint) {
			target = src
			return false
		}
		if m := onclickUrlRe.FindStringSubmatch(img.AttrOr("onclick", "")); m != nil {
			target = m[1]
			return false
		}
		return true
	})
	return target
}

func resolveTarget(base *url.URL, target string) string {
	ref, err := url.Parse(target)
	if err != nil {
		return target
	}
	if base == nil || ref.IsAbs() {
		return ref.String()
	}
	// relative references ("../", "/") resolve against the proforma page url
	return base.ResolveReference(ref).String()
}

func collectAttachments(doc *goquery.Document, base *url.URL) []Attachment {
	var out []Attachment
	seen := map[string]bool{}

	doc.Find("a").Each(func(_ int, link *goquery.Selection) {
		target := downloadTarget(link)
		if target == "" {
			return
		}

		row := link.Closest("tr")
		if row.Length() == 0 {
			return
		}

		name := ""
		row.Find("td, th").EachWithBreak(func(_ int, cell *goquery.Selection) bool {
			if cell.Contains(link.Nodes[0]) {
				return true
			}
			if text := htmlutil.CollapseSpace(cell.Text()); len(text) > 2 {
				name = text
				return false
			}
			return true
		})
		if name == "" || isAttachmentPlaceholder(name) || seen[name] {
			return
		}

		seen[name] = true
		out = append(out, Attachment{
			Filename: name,
			URL:      resolveTarget(base, target),
		})
	})

	return out
}
