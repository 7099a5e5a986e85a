package changelog

import (
	"html"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var htmlMarkup = regexp.MustCompile(`<(/?[a-zA-Z][^>]*|!--)>?`)

// PlainText flattens release notes for terminal display. Notes are
// markdown, but GitHub bodies routinely embed HTML (<details>, <img>,
// comments); when any markup is present it is parsed and reduced to its
// text content.
func PlainText(body string) string {
	body = strings.ReplaceAll(body, "\r\n", "\n")
	if !htmlMarkup.MatchString(body) {
		return strings.TrimSpace(body)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return strings.TrimSpace(body)
	}

	doc.Find("script, style").Remove()
	doc.Find("br").ReplaceWithHtml("\n")
	doc.Find("img").Each(func(_ int, img *goquery.Selection) {
		if alt, ok := img.Attr("alt"); ok && alt != "" {
			img.ReplaceWithHtml(html.EscapeString("[" + alt + "]"))
			return
		}
		img.Remove()
	})

	return strings.TrimSpace(doc.Text())
}
