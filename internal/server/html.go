package server

import (
	"html/template"
	"net/http"

	"github.com/rs/zerolog/log"
)

var galleryTemplate = template.Must(template.New("gallery").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Term}} #{{.Index}} - gallerycat</title>
<style>
body { font-family: sans-serif; margin: 2rem; background: #111; color: #eee; }
h1 { font-size: 1.2rem; }
.meta { color: #999; margin-bottom: 1rem; }
.grid { display: flex; flex-wrap: wrap; gap: 8px; }
.grid a { display: block; }
.grid img { height: 180px; border-radius: 4px; display: block; }
figcaption { font-size: 0.7rem; color: #999; text-align: center; }
</style>
</head>
<body>
<h1>{{.Term}} / gallery #{{.Index}}</h1>
<p class="meta">{{.Total}} asset(s), served from {{.Source}}</p>
<div class="grid">
{{range .Entries}}<figure><a href="{{.URL}}"><img src="{{.Thumb}}" alt="{{.Name}}" loading="lazy"></a><figcaption>{{.ID}}. {{.Name}}</figcaption></figure>
{{end}}</div>
</body>
</html>
`))

func (s *Server) handleGalleryHTML(w http.ResponseWriter, r *http.Request) {
	term, index, ok := s.galleryParams(w, r)
	if !ok {
		return
	}

	result, err := s.runner.Run(r.Context(), term, index, nil)
	if err != nil {
		s.respondWithScrapeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := galleryTemplate.Execute(w, result); err != nil {
		log.Error().Err(err).Msg("Failed to render gallery page")
	}
}
