package handlers

import (
	"embed"
	"html/template"
	"io/fs"
	"net/url"
	"regexp"
	"strings"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// pageNames are the templates rendered inside layout.html.
var pageNames = []string{"index", "about", "apidoc", "search", "result", "error"}

// paragraphBreak splits free text into paragraphs on blank lines.
var paragraphBreak = regexp.MustCompile(`(?:\r\n|\r|\n){2,}`)

var templateFuncs = template.FuncMap{
	"nl2br":     nl2br,
	"resultURL": resultURL,
}

// nl2br escapes text and renders it as paragraphs, with a <br> for each
// single newline inside a paragraph.
func nl2br(text string) template.HTML {
	paragraphs := paragraphBreak.Split(template.HTMLEscapeString(text), -1)
	for i, p := range paragraphs {
		paragraphs[i] = "<p>" + strings.ReplaceAll(p, "\n", "<br>\n") + "</p>"
	}
	return template.HTML(strings.Join(paragraphs, "\n\n"))
}

// resultURL is the result page path of a drug name.
func resultURL(name string) string {
	return "/result/" + url.PathEscape(name)
}

func mustParsePages() map[string]*template.Template {
	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		pages[name] = template.Must(
			template.New("layout.html").Funcs(templateFuncs).
				ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html"),
		)
	}
	return pages
}

func staticFiles() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}
