// Package fragment hace cumplir el contrato de los fragmentos HTML que se
// renderizan en el chat: un unico contenedor, sin scripts ni handlers inline.
package fragment

import (
	"bytes"
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var (
	fenceStart = regexp.MustCompile("(?is)^\\s*```(?:html)?\\s*")
	fenceEnd   = regexp.MustCompile("(?is)\\s*```\\s*$")
)

// forbiddenElements se eliminan con todo su contenido.
var forbiddenElements = map[atom.Atom]bool{
	atom.Script:   true,
	atom.Style:    true,
	atom.Iframe:   true,
	atom.Object:   true,
	atom.Embed:    true,
	atom.Frame:    true,
	atom.Frameset: true,
	atom.Base:     true,
	atom.Link:     true,
	atom.Meta:     true,
}

var urlAttrs = map[string]bool{"href": true, "src": true, "action": true, "formaction": true, "xlink:href": true}

// CleanFences quita fences ``` o ```html y el BOM que a veces agrega el modelo.
func CleanFences(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	s = strings.TrimPrefix(s, "\uFEFF")
	s = fenceStart.ReplaceAllString(s, "")
	s = fenceEnd.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

// Enforce normaliza un fragmento generado: quita elementos ejecutables,
// atributos on* y URLs javascript:, y garantiza un unico contenedor raiz.
// Devuelve "" si no queda contenido.
func Enforce(raw string) string {
	s := CleanFences(raw)
	if s == "" {
		return ""
	}
	context := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(s), context)
	if err != nil {
		return wrapText(s)
	}

	var kept []*html.Node
	for _, n := range nodes {
		if sanitize(n) {
			kept = append(kept, n)
		}
	}

	var elements []*html.Node
	hasText := false
	for _, n := range kept {
		switch n.Type {
		case html.ElementNode:
			elements = append(elements, n)
		case html.TextNode:
			if strings.TrimSpace(n.Data) != "" {
				hasText = true
			}
		}
	}
	if len(elements) == 0 && !hasText {
		return ""
	}

	var buf bytes.Buffer
	if len(elements) == 1 && !hasText && isContainer(elements[0]) {
		if err := html.Render(&buf, elements[0]); err != nil {
			return ""
		}
		return buf.String()
	}

	root := &html.Node{Type: html.ElementNode, Data: "section", DataAtom: atom.Section}
	for _, n := range kept {
		if n.Type == html.TextNode && strings.TrimSpace(n.Data) == "" {
			continue
		}
		root.AppendChild(n)
	}
	if err := html.Render(&buf, root); err != nil {
		return ""
	}
	return buf.String()
}

// sanitize limpia n y sus hijos. Devuelve false si n entero debe descartarse.
func sanitize(n *html.Node) bool {
	switch n.Type {
	case html.CommentNode, html.DoctypeNode:
		return false
	case html.ElementNode:
		if forbiddenElements[n.DataAtom] {
			return false
		}
		attrs := n.Attr[:0]
		for _, a := range n.Attr {
			key := strings.ToLower(a.Key)
			if strings.HasPrefix(key, "on") {
				continue
			}
			if urlAttrs[key] && isScriptURL(a.Val) {
				continue
			}
			attrs = append(attrs, a)
		}
		n.Attr = attrs
	}
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		if !sanitize(c) {
			n.RemoveChild(c)
		}
		c = next
	}
	return true
}

func isScriptURL(v string) bool {
	cleaned := strings.Map(func(r rune) rune {
		if r <= ' ' {
			return -1
		}
		return r
	}, strings.ToLower(v))
	return strings.HasPrefix(cleaned, "javascript:") || strings.HasPrefix(cleaned, "vbscript:") ||
		strings.HasPrefix(cleaned, "data:text/html")
}

func isContainer(n *html.Node) bool {
	switch n.DataAtom {
	case atom.Section, atom.Div, atom.Article:
		return true
	}
	return false
}

func wrapText(s string) string {
	return "<section><p>" + html.EscapeString(s) + "</p></section>"
}

// StripTags devuelve solo el texto visible de un fragmento.
func StripTags(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return s
	}
	z := html.NewTokenizer(strings.NewReader(s))
	var b strings.Builder
	skip := 0
	for {
		switch z.Next() {
		case html.ErrorToken:
			return b.String()
		case html.TextToken:
			if skip == 0 {
				b.Write(z.Text())
			}
		case html.StartTagToken:
			name, _ := z.TagName()
			if a := atom.Lookup(name); a == atom.Script || a == atom.Style {
				skip++
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			if a := atom.Lookup(name); (a == atom.Script || a == atom.Style) && skip > 0 {
				skip--
			}
		}
	}
}

// Preview arma el subtitulo de un hilo: texto plano recortado a 50 caracteres.
func Preview(text string) string {
	clean := strings.TrimSpace(StripTags(text))
	r := []rune(clean)
	if len(r) > 50 {
		return string(r[:50]) + "..."
	}
	return clean
}
