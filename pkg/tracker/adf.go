package tracker

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

const emptyDescription = "No description provided."

// Node is one Atlassian Document Format node.
type Node struct {
	Type    string                 `json:"type"`
	Version int                    `json:"version,omitempty"`
	Attrs   map[string]interface{} `json:"attrs,omitempty"`
	Content []*Node                `json:"content,omitempty"`
	Text    string                 `json:"text,omitempty"`
	Marks   []Mark                 `json:"marks,omitempty"`
}

type Mark struct {
	Type  string                 `json:"type"`
	Attrs map[string]interface{} `json:"attrs,omitempty"`
}

func Doc(content ...*Node) *Node {
	return &Node{Type: "doc", Version: 1, Content: content}
}

func Paragraph(s string) *Node {
	p := &Node{Type: "paragraph"}
	if s != "" {
		p.Content = []*Node{{Type: "text", Text: s}}
	}
	return p
}

// MarkdownToADF converts a Markdown body into an ADF document. Blank input
// yields a single placeholder paragraph.
func MarkdownToADF(markdown string) *Node {
	if strings.TrimSpace(markdown) == "" {
		return Doc(Paragraph(emptyDescription))
	}

	source := []byte(markdown)
	root := goldmark.New().Parser().Parse(text.NewReader(source))
	c := &converter{source: source}

	doc := Doc(c.blocks(root)...)
	if len(doc.Content) == 0 {
		doc.Content = []*Node{Paragraph(emptyDescription)}
	}
	return doc
}

type converter struct {
	source []byte
}

func (c *converter) blocks(parent ast.Node) []*Node {
	var out []*Node
	for n := parent.FirstChild(); n != nil; n = n.NextSibling() {
		if node := c.block(n); node != nil {
			out = append(out, node)
		}
	}
	return out
}

func (c *converter) block(n ast.Node) *Node {
	switch v := n.(type) {
	case *ast.Heading:
		return &Node{
			Type:    "heading",
			Attrs:   map[string]interface{}{"level": v.Level},
			Content: c.inlines(v, nil),
		}
	case *ast.Paragraph, *ast.TextBlock:
		return &Node{Type: "paragraph", Content: c.inlines(v, nil)}
	case *ast.List:
		list := &Node{Type: "bulletList"}
		if v.IsOrdered() {
			list.Type = "orderedList"
			if v.Start > 1 {
				list.Attrs = map[string]interface{}{"order": v.Start}
			}
		}
		for item := v.FirstChild(); item != nil; item = item.NextSibling() {
			content := c.blocks(item)
			if len(content) == 0 {
				content = []*Node{Paragraph("")}
			}
			list.Content = append(list.Content, &Node{Type: "listItem", Content: content})
		}
		return list
	case *ast.FencedCodeBlock:
		node := &Node{Type: "codeBlock", Content: c.code(v)}
		if lang := string(v.Language(c.source)); lang != "" {
			node.Attrs = map[string]interface{}{"language": lang}
		}
		return node
	case *ast.CodeBlock:
		return &Node{Type: "codeBlock", Content: c.code(v)}
	case *ast.Blockquote:
		return &Node{Type: "blockquote", Content: c.blocks(v)}
	case *ast.ThematicBreak:
		return &Node{Type: "rule"}
	case *ast.HTMLBlock:
		raw := strings.TrimSpace(c.lines(v))
		if raw == "" {
			return nil
		}
		return Paragraph(raw)
	default:
		if n.Type() == ast.TypeBlock && n.HasChildren() {
			return &Node{Type: "paragraph", Content: c.inlines(n, nil)}
		}
		return nil
	}
}

func (c *converter) lines(n ast.Node) string {
	var b strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		b.Write(seg.Value(c.source))
	}
	return b.String()
}

func (c *converter) code(n ast.Node) []*Node {
	code := strings.TrimRight(c.lines(n), "\n")
	if code == "" {
		return nil
	}
	return []*Node{{Type: "text", Text: code}}
}

// inlines flattens the inline children of n into text nodes, carrying the
// marks of enclosing emphasis, code spans and links.
func (c *converter) inlines(n ast.Node, marks []Mark) []*Node {
	var out []*Node
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		switch v := child.(type) {
		case *ast.Text:
			out = appendText(out, string(v.Segment.Value(c.source)), marks)
			if v.HardLineBreak() {
				out = append(out, &Node{Type: "hardBreak"})
			} else if v.SoftLineBreak() {
				out = appendText(out, " ", marks)
			}
		case *ast.String:
			out = appendText(out, string(v.Value), marks)
		case *ast.CodeSpan:
			out = appendText(out, c.plain(v), codeMarks(marks))
		case *ast.Emphasis:
			mark := Mark{Type: "em"}
			if v.Level >= 2 {
				mark = Mark{Type: "strong"}
			}
			out = append(out, c.inlines(v, withMark(marks, mark))...)
		case *ast.Link:
			link := Mark{Type: "link", Attrs: map[string]interface{}{"href": string(v.Destination)}}
			out = append(out, c.inlines(v, withMark(marks, link))...)
		case *ast.AutoLink:
			url := string(v.URL(c.source))
			link := Mark{Type: "link", Attrs: map[string]interface{}{"href": url}}
			out = appendText(out, string(v.Label(c.source)), withMark(marks, link))
		case *ast.Image:
			link := Mark{Type: "link", Attrs: map[string]interface{}{"href": string(v.Destination)}}
			label := c.plain(v)
			if label == "" {
				label = string(v.Destination)
			}
			out = appendText(out, label, withMark(marks, link))
		case *ast.RawHTML:
			var b strings.Builder
			for i := 0; i < v.Segments.Len(); i++ {
				seg := v.Segments.At(i)
				b.Write(seg.Value(c.source))
			}
			out = appendText(out, b.String(), marks)
		default:
			out = append(out, c.inlines(child, marks)...)
		}
	}
	return out
}

func (c *converter) plain(n ast.Node) string {
	var b strings.Builder
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		switch v := child.(type) {
		case *ast.Text:
			b.Write(v.Segment.Value(c.source))
		case *ast.String:
			b.Write(v.Value)
		default:
			b.WriteString(c.plain(child))
		}
	}
	return b.String()
}

func withMark(marks []Mark, m Mark) []Mark {
	out := make([]Mark, 0, len(marks)+1)
	out = append(out, marks...)
	return append(out, m)
}

// codeMarks keeps only link marks next to code; ADF rejects code combined
// with any other mark.
func codeMarks(marks []Mark) []Mark {
	out := make([]Mark, 0, len(marks)+1)
	for _, m := range marks {
		if m.Type == "link" {
			out = append(out, m)
		}
	}
	return append(out, Mark{Type: "code"})
}

// appendText merges s into the previous text node when the marks match.
// Empty strings are dropped.
func appendText(nodes []*Node, s string, marks []Mark) []*Node {
	if s == "" {
		return nodes
	}
	if len(nodes) > 0 {
		last := nodes[len(nodes)-1]
		if last.Type == "text" && sameMarks(last.Marks, marks) {
			last.Text += s
			return nodes
		}
	}
	node := &Node{Type: "text", Text: s}
	if len(marks) > 0 {
		node.Marks = append([]Mark(nil), marks...)
	}
	return append(nodes, node)
}

func sameMarks(a, b []Mark) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Type != b[i].Type {
			return false
		}
		if a[i].Type == "link" && a[i].Attrs["href"] != b[i].Attrs["href"] {
			return false
		}
	}
	return true
}
