package wiki

import (
	"regexp"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	xhtml "golang.org/x/net/html"
)

var (
	brTagRe    = regexp.MustCompile(`(?i)<br\s*/?>`)
	anyTagRe   = regexp.MustCompile(`<[^>]*>`)
	spaceRunRe = regexp.MustCompile(`[ \t]+`)
)

var blockTags = map[string]bool{
	"p": true, "div": true, "ul": true, "ol": true, "li": true,
	"pre": true, "table": true, "tr": true, "h1": true, "h2": true,
	"h3": true, "h4": true, "dl": true, "dt": true, "dd": true,
}

// render converts the content of an element into plain text with one line
// per block and no blank lines. Code boxes become an inline-code title and a
// fenced lua block.
func render(n *sitter.Node, src []byte) string {
	var b strings.Builder
	renderContent(&b, n, src)

	var lines []string
	fenced := false
	for _, line := range strings.Split(b.String(), "\n") {
		if fenced {
			lines = append(lines, line)
			fenced = strings.TrimSpace(line) != "```"
			continue
		}
		line = strings.TrimSpace(spaceRunRe.ReplaceAllString(line, " "))
		if line == "" {
			continue
		}
		fenced = strings.HasPrefix(line, "```")
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// plainText is the decoded text content of n without any structure.
func plainText(n *sitter.Node, src []byte) string {
	return strings.Join(strings.Fields(decode(anyTagRe.ReplaceAllString(inner(n, src), " "))), " ")
}

func renderContent(b *strings.Builder, n *sitter.Node, src []byte) {
	prevEnd := -1
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		switch child.Type() {
		case "start_tag", "end_tag", "comment", "script_element", "style_element":
			prevEnd = int(child.EndByte())
			continue
		}
		if prevEnd >= 0 && strings.TrimSpace(string(src[prevEnd:child.StartByte()])) == "" &&
			int(child.StartByte()) > prevEnd {
			b.WriteByte(' ')
		}
		renderNode(b, child, src)
		prevEnd = int(child.EndByte())
	}
}

func renderNode(b *strings.Builder, n *sitter.Node, src []byte) {
	switch n.Type() {
	case "text", "entity":
		b.WriteString(decode(n.Content(src)))
	case "self_closing_tag":
		if tagName(n, src) == "br" {
			b.WriteByte('\n')
		}
	case "element":
		tag := tagName(n, src)
		switch {
		case tag == "br":
			b.WriteByte('\n')
		case tag == "div" && hasClass(n, src, "box"):
			b.WriteByte('\n')
			b.WriteString(codeBox(n, src))
			b.WriteByte('\n')
		case tag == "code" || tag == "tt":
			b.WriteString("`" + strings.TrimSpace(plainText(n, src)) + "`")
		case blockTags[tag]:
			b.WriteByte('\n')
			renderContent(b, n, src)
			b.WriteByte('\n')
		default:
			renderContent(b, n, src)
		}
	}
}

// codeBox renders a div.box holding an optional .box-title and a .code body.
// The code keeps its line breaks and indentation.
func codeBox(n *sitter.Node, src []byte) string {
	var out string
	if title := findByClass(n, src, "box-title"); title != nil {
		out += "`" + plainText(title, src) + "`\n\n"
	}
	if code := findByClass(n, src, "code"); code != nil {
		text := brTagRe.ReplaceAllString(inner(code, src), "\n")
		text = decode(anyTagRe.ReplaceAllString(text, ""))
		out += "```lua\n" + strings.TrimSpace(text) + "\n```\n"
	}
	return out
}

func decode(s string) string {
	return strings.ReplaceAll(xhtml.UnescapeString(s), "\u00a0", " ")
}

// inner returns the source between the start and end tags of an element.
func inner(n *sitter.Node, src []byte) string {
	start, end := n.StartByte(), n.EndByte()
	for i := 0; i < int(n.ChildCount()); i++ {
		switch c := n.Child(i); c.Type() {
		case "start_tag":
			start = c.EndByte()
		case "end_tag":
			end = c.StartByte()
		}
	}
	if start > end {
		return ""
	}
	return string(src[start:end])
}

func startTag(n *sitter.Node) *sitter.Node {
	for i := 0; i < int(n.ChildCount()); i++ {
		if c := n.Child(i); c.Type() == "start_tag" || c.Type() == "self_closing_tag" {
			return c
		}
	}
	if n.Type() == "self_closing_tag" {
		return n
	}
	return nil
}

func tagName(n *sitter.Node, src []byte) string {
	tag := startTag(n)
	if tag == nil {
		return ""
	}
	for i := 0; i < int(tag.NamedChildCount()); i++ {
		if c := tag.NamedChild(i); c.Type() == "tag_name" {
			return strings.ToLower(c.Content(src))
		}
	}
	return ""
}

func attr(n *sitter.Node, src []byte, name string) string {
	tag := startTag(n)
	if tag == nil {
		return ""
	}
	for i := 0; i < int(tag.NamedChildCount()); i++ {
		a := tag.NamedChild(i)
		if a.Type() != "attribute" || a.NamedChildCount() == 0 {
			continue
		}
		if !strings.EqualFold(a.NamedChild(0).Content(src), name) {
			continue
		}
		if a.NamedChildCount() < 2 {
			return ""
		}
		return strings.Trim(a.NamedChild(1).Content(src), `"'`)
	}
	return ""
}

func hasClass(n *sitter.Node, src []byte, class string) bool {
	for _, c := range strings.Fields(attr(n, src, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

func findByClass(n *sitter.Node, src []byte, class string) *sitter.Node {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		if c.Type() != "element" {
			continue
		}
		if hasClass(c, src, class) {
			return c
		}
		if found := findByClass(c, src, class); found != nil {
			return found
		}
	}
	return nil
}

// childElement returns the first direct child element of n named tag.
func childElement(n *sitter.Node, src []byte, tag string) *sitter.Node {
	if els := childElements(n, src, tag); len(els) > 0 {
		return els[0]
	}
	return nil
}

func childElements(n *sitter.Node, src []byte, tag string) []*sitter.Node {
	var out []*sitter.Node
	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		if c.Type() == "element" && tagName(c, src) == tag {
			out = append(out, c)
		}
	}
	return out
}
