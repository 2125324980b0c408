package render

import (
	"strings"
	"text/template"
)

// documentTemplate wraps a caller-supplied body in a complete compilable
// document: page geometry, input encoding and hyperlink styling are fixed
// here so callers only ever submit body markup.
const documentTemplate = `\documentclass[11pt]{article}
\usepackage[margin=0.75in]{geometry}
\usepackage[utf8]{inputenc}
\usepackage[T1]{fontenc}
\usepackage{enumitem}
\usepackage[hidelinks]{hyperref}
\setlist{nosep}
\pagestyle{empty}
\begin{document}
{{.Body}}
\end{document}
`

var docTmpl = template.Must(template.New("document").Parse(documentTemplate))

// WrapDocument embeds the body in the fixed preamble/postamble.
func WrapDocument(body string) (string, error) {
	var out strings.Builder
	if err := docTmpl.Execute(&out, struct{ Body string }{Body: body}); err != nil {
		return "", err
	}
	return out.String(), nil
}
