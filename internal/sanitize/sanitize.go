// Package sanitize strips dangerous markup from user-submitted job
// descriptions before they hit the database.
package sanitize

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Elements removed outright, subtree included.
const droppedSelector = "script, style, iframe, object, embed, form, link, meta, base"

// Description returns a cleaned copy of the given HTML fragment:
// active content is removed, inline images survive only as data: URIs,
// and links cannot reach back into the opener window.
func Description(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return ""
	}

	doc.Find(droppedSelector).Remove()

	doc.Find("*").Each(func(_ int, s *goquery.Selection) {
		for _, n := range s.Nodes {
			n.Attr = cleanAttrs(n.Attr)
		}
	})

	doc.Find("img").Each(func(_ int, img *goquery.Selection) {
		src, _ := img.Attr("src")
		if !strings.HasPrefix(strings.TrimSpace(strings.ToLower(src)), "data:") {
			img.Remove()
		}
	})

	doc.Find("a").Each(func(_ int, a *goquery.Selection) {
		a.SetAttr("target", "_blank")
		a.SetAttr("rel", "noopener noreferrer nofollow")
	})

	out, err := doc.Find("body").Html()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(out)
}

func cleanAttrs(attrs []html.Attribute) []html.Attribute {
	kept := attrs[:0]
	for _, a := range attrs {
		key := strings.ToLower(a.Key)
		if strings.HasPrefix(key, "on") {
			continue
		}
		if (key == "href" || key == "src" || key == "action") && isScriptURL(a.Val) {
			continue
		}
		kept = append(kept, a)
	}
	return kept
}

func isScriptURL(v string) bool {
	v = strings.ToLower(strings.TrimSpace(v))
	v = strings.Map(func(r rune) rune {
		if r == '\n' || r == '\r' || r == '\t' {
			return -1
		}
		return r
	}, v)
	return strings.HasPrefix(v, "javascript:") || strings.HasPrefix(v, "vbscript:")
}
