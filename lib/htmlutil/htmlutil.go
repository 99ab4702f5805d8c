package htmlutil

import (
	"bytes"
	"regexp"
	"strings"
	"unicode"

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

type Anchor struct {
	Text string
	Href string
}

var innerWhitespace = regexp.MustCompile(`\s\s+`)

func normalizeText(s string) string {
	var out strings.Builder
	for _, c := range s {
		if unicode.IsPrint(c) {
			out.WriteRune(c)
		}
	}
	normalized := strings.Trim(out.String(), " \t\n")
	return innerWhitespace.ReplaceAllString(normalized, " ")
}

// Anchors extracts every <a> in the selection along with its visible text,
// non-printable characters stripped and whitespace collapsed.
func Anchors(sel *goquery.Selection) []Anchor {
	var anchors []Anchor
	for _, n := range sel.Nodes {
		href := ""
		for _, a := range n.Attr {
			if a.Key == "href" {
				href = a.Val
				break
			}
		}
		anchors = append(anchors, Anchor{
			Text: normalizeText(GetText(n)),
			Href: href,
		})
	}
	return anchors
}

// FindWholeWord returns the first anchor whose visible text contains word as
// a whole word, so "my daily-log" matches word "daily-log" but "dailylogs"
// does not.
func FindWholeWord(anchors []Anchor, word string) (Anchor, bool) {
	if word == "" {
		return Anchor{}, false
	}
	pattern, err := regexp.Compile(`(^|[^\w-])` + regexp.QuoteMeta(word) + `($|[^\w-])`)
	if err != nil {
		return Anchor{}, false
	}
	for _, a := range anchors {
		if pattern.MatchString(a.Text) {
			return a, true
		}
	}
	return Anchor{}, false
}
