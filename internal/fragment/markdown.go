package fragment

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var md = goldmark.New(goldmark.WithExtensions(extension.Linkify, extension.Strikethrough))

// Markdown convierte respuestas enlatadas escritas en markdown al fragmento
// HTML que espera la capa de render. Si la conversion falla devuelve el texto escapado.
func Markdown(src string) string {
	var buf bytes.Buffer
	if err := md.Convert([]byte(src), &buf); err != nil {
		return wrapText(src)
	}
	return "<section>" + strings.TrimSpace(buf.String()) + "</section>"
}
