package extract

import (
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/PuerkitoBio/goquery"
)

// descConverter normalizes rich-text description blocks (links, emphasis,
// line breaks) into markdown text. Goroutine-safe, built once.
var descConverter = converter.NewConverter(
	converter.WithPlugins(
		base.NewBasePlugin(),
		commonmark.NewCommonmarkPlugin(),
	),
)

// renderDescription converts a description element's inner HTML to markdown,
// falling back to its plain text when conversion fails.
func renderDescription(sel *goquery.Selection) string {
	htmlStr, err := sel.Html()
	if err != nil || strings.TrimSpace(htmlStr) == "" {
		return strings.TrimSpace(sel.Text())
	}
	md, err := descConverter.ConvertString(htmlStr)
	if err != nil {
		return strings.TrimSpace(sel.Text())
	}
	return strings.TrimSpace(md)
}
