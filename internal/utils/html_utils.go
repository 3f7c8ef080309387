package utils

import (
	"html/template"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// EnhanceHTMLContent adds lazy loading to images in a rendered post body
// and turns a paragraph holding nothing but an image into a figure with
// its alt text as caption.
func EnhanceHTMLContent(htmlStr string) template.HTML {
	if htmlStr == "" {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlStr))
	if err != nil {
		return template.HTML(htmlStr)
	}

	doc.Find("img").Each(func(i int, s *goquery.Selection) {
		s.SetAttr("loading", "lazy")
		s.SetAttr("decoding", "async")
		s.SetAttr("referrerpolicy", "no-referrer")
	})

	doc.Find("p").Each(func(i int, s *goquery.Selection) {
		imgs := s.Children()
		if imgs.Length() != 1 || !imgs.Is("img") || strings.TrimSpace(s.Text()) != "" {
			return
		}
		alt, _ := imgs.Attr("alt")
		img, err := goquery.OuterHtml(imgs)
		if err != nil {
			return
		}
		figure := "<figure>" + img
		if alt != "" {
			figure += "<figcaption>" + template.HTMLEscapeString(alt) + "</figcaption>"
		}
		figure += "</figure>"
		s.ReplaceWithHtml(figure)
	})

	// goquery renders full document tags if missing, we just want the body content
	html, _ := doc.Find("body").Html()
	if html == "" {
		html, _ = doc.Html()
	}

	return template.HTML(html)
}
