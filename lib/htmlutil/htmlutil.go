package htmlutil

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

func GetText(node *html.Node) string {
	var buffer bytes.Buffer
	getTextRecursive(node, &buffer)
	return buffer.String()
}

func getTextRecursive(node *html.Node, buffer *bytes.Buffer) {
	if node == nil {
		return
	}
	if node.Type == html.TextNode {
		buffer.WriteString(node.Data)
		return
	}
	child := node.FirstChild
	for child != nil {
		getTextRecursive(child, buffer)
		child = child.NextSibling
	}
}

// ScriptText returns the textContent of every inline <script> tag in raw
// HTML, joined with newlines. Parse failures yield the empty string.
func ScriptText(rawHTML string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return ""
	}
	var parts []string
	for _, node := range doc.Find("script").Nodes {
		text := GetText(node)
		if text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, "\n")
}

var formActionRegex = regexp.MustCompile(`(?i)action=["']([^"']+)["']`)

// FormActions returns every action attribute value in order of
// appearance. It scans text, not parsed elements, so formaction
// attributes and markup embedded in script strings count too.
func FormActions(raw string) []string {
	var actions []string
	for _, match := range formActionRegex.FindAllStringSubmatch(raw, -1) {
		actions = append(actions, match[1])
	}
	return actions
}

// BodyText extracts the rendered-prose approximation of a document: the
// text content of <body> with scripts and styles dropped.
func BodyText(rawHTML string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return ""
	}
	body := doc.Find("body")
	body.Find("script,style").Remove()
	return strings.TrimSpace(body.Text())
}
