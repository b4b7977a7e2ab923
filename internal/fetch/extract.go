package fetch

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// pageNoise is removed from every page before the description is located.
const pageNoise = "nav, header, footer, aside, script, style, noscript, iframe, svg, form, button, " +
	"[role='dialog'], .cookie-banner, .cookie-consent, .gdpr-notice, .social-share, .share-buttons"

// extractDescription reduces a posting page to the text of the first content
// selector of board that matches, or of the whole body when none does.
func extractDescription(page []byte, board Board) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err != nil {
		return "", err
	}

	doc.Find(pageNoise).Remove()
	if len(board.Noise) > 0 {
		doc.Find(strings.Join(board.Noise, ", ")).Remove()
	}

	root := doc.Find("body")
	for _, selector := range board.Content {
		if match := doc.Find(selector); match.Length() > 0 {
			root = match.First()
			break
		}
	}
	return collapseText(root.Text()), nil
}

// collapseText keeps one line per non-blank source line with inner runs of
// whitespace folded to a single space.
func collapseText(text string) string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if fields := strings.Fields(line); len(fields) > 0 {
			lines = append(lines, strings.Join(fields, " "))
		}
	}
	return strings.Join(lines, "\n")
}
