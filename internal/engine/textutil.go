package engine

import (
	"regexp"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/anatolykoptev/go-kit/strutil"
	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
)

// User-Agent sent with Data API requests.
const UserAgentBot = "go_ytnet/1.0"

var (
	htmlTagRe    = regexp.MustCompile(`<[^>]+>`)
	mdEscapeRe   = regexp.MustCompile(`\\([\\` + "`" + `*_{}\[\]()#+\-.!|<>~])`)
	blankLinesRe = regexp.MustCompile(`\n{3,}`)

	// textDisplay allows <a>, <b>, <i>, <br>; anything else is dropped before conversion.
	commentPolicy = bluemonday.UGCPolicy()
)

// HTMLToText converts a YouTube textDisplay body into readable text.
// Links survive as Markdown; backslash escapes are removed so usernames
// such as @john_doe stay literal for mention matching.
func HTMLToText(s string) string {
	if !htmlTagRe.MatchString(s) && !strings.Contains(s, "&") {
		return strings.TrimSpace(s)
	}
	md, err := htmltomarkdown.ConvertString(commentPolicy.Sanitize(s))
	if err != nil {
		return htmlPlainText(s)
	}
	md = mdEscapeRe.ReplaceAllString(md, "$1")
	md = blankLinesRe.ReplaceAllString(md, "\n\n")
	return strings.TrimSpace(md)
}

// htmlPlainText walks the parsed tree and keeps text nodes, <br> as newline.
func htmlPlainText(s string) string {
	doc, err := html.Parse(strings.NewReader(s))
	if err != nil {
		return strings.TrimSpace(htmlTagRe.ReplaceAllString(s, ""))
	}
	var sb strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		switch {
		case n.Type == html.TextNode:
			sb.WriteString(n.Data)
		case n.Type == html.ElementNode && n.Data == "br":
			sb.WriteByte('\n')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return strings.TrimSpace(sb.String())
}

// TruncateRunes caps s at limit runes, appending suffix if truncated.
// Safe for UTF-8 (Cyrillic, CJK, emoji).
func TruncateRunes(s string, limit int, suffix string) string {
	return strutil.TruncateWith(s, limit, suffix)
}
