package host

import (
	"html"
	"maps"
	"slices"
	"strings"
)

// voidElements are elements serialized without a closing tag.
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"param": true, "source": true, "track": true, "wbr": true,
}

// HTML serializes n and its subtree. Attributes are written in sorted order
// so the output is stable.
func (n *Node) HTML() string {
	var b strings.Builder
	writeHTML(&b, n)
	return b.String()
}

// InnerHTML serializes n's children.
func (n *Node) InnerHTML() string {
	var b strings.Builder
	for _, c := range n.children {
		writeHTML(&b, c)
	}
	return b.String()
}

func writeHTML(b *strings.Builder, n *Node) {
	if n.IsText() {
		b.WriteString(html.EscapeString(n.text))
		return
	}

	b.WriteByte('<')
	b.WriteString(n.tag)
	attrs := maps.Clone(n.attrs)
	if len(n.style) > 0 {
		attrs["style"] = styleString(n.style)
	}
	for _, k := range slices.Sorted(maps.Keys(attrs)) {
		b.WriteByte(' ')
		b.WriteString(k)
		b.WriteString(`="`)
		b.WriteString(html.EscapeString(attrs[k]))
		b.WriteByte('"')
	}
	b.WriteByte('>')
	if voidElements[n.tag] {
		return
	}
	for _, c := range n.children {
		writeHTML(b, c)
	}
	b.WriteString("</")
	b.WriteString(n.tag)
	b.WriteByte('>')
}

func styleString(style map[string]string) string {
	parts := make([]string, 0, len(style))
	for _, k := range slices.Sorted(maps.Keys(style)) {
		parts = append(parts, k+": "+style[k])
	}
	return strings.Join(parts, "; ")
}
