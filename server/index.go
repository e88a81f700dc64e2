package server

import (
	"html/template"
	"net/http"
	"strings"

	sprig "github.com/go-task/slim-sprig/v3"
	"go.uber.org/zap"

	"wfr/misc"
)

var indexTmpl = template.Must(template.New("index").Funcs(sprig.HtmlFuncMap()).Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Web fonts repository</title>
</head>
<body>
<h1>Web fonts repository</h1>
{{- if .Error }}
<p>Unable to build fonts catalog: {{ .Error }}</p>
{{- else }}
<p>Stylesheet: <code>{{ .CSSURL }}?family=Open Sans:400,700i|Roboto&amp;display=swap</code></p>
{{- with .Families }}
<table>
<tr><th>Family</th><th>Styles</th><th>Stylesheet</th></tr>
{{- range . }}
<tr>
<td>{{ .Name }}</td>
<td>{{ .Styles | join ", " | default "none" }}</td>
<td>{{ if .IDs }}<a href="{{ $.CSSURL }}?family={{ .Query }}">css</a>{{ end }}</td>
</tr>
{{- end }}
</table>
{{- else }}
<p>No font families configured.</p>
{{- end }}
{{- end }}
<p><small>{{ .Version }}</small></p>
</body>
</html>
`))

type indexFamily struct {
	Name   string
	Styles []string
	IDs    []string
	Query  string
}

type indexPage struct {
	CSSURL   string
	Error    string
	Families []indexFamily
	Version  string
}

func (s *Server) serveIndex(snap *snapshot, w http.ResponseWriter, r *http.Request) {
	page := indexPage{
		CSSURL:  strings.TrimRight(snap.cfg.Server.RootURL, "/") + "/css",
		Version: misc.GetAppName() + " " + misc.GetVersion(),
	}
	if snap.err != nil {
		page.Error = snap.err.Error()
	} else {
		for _, f := range snap.catalog.Families() {
			fam := indexFamily{Name: f.Name}
			for _, st := range f.Styles() {
				name := st.DisplayName()
				if name == "" {
					name = "Regular"
				}
				fam.Styles = append(fam.Styles, st.ID()+" "+name)
				fam.IDs = append(fam.IDs, st.ID())
			}
			fam.Query = f.Name + ":" + strings.Join(fam.IDs, ",")
			page.Families = append(page.Families, fam)
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=UTF-8")
	if err := indexTmpl.Execute(w, page); err != nil {
		requestFromContext(r.Context(), s.log).log.Error("Unable to render index page", zap.Error(err))
	}
}
