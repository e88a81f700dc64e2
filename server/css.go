package server

import (
	"io"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"wfr/webfont"
)

func (s *Server) serveCSS(snap *snapshot, w http.ResponseWriter, r *http.Request) {
	rc := requestFromContext(r.Context(), s.log)

	req, err := webfont.ParseRequest(r.URL.Query())
	if err != nil {
		clientError(w, rc.log, err)
		return
	}
	if snap.err != nil {
		rc.log.Error("Unable to build fonts catalog", zap.Error(snap.err))
		http.Error(w, "Unable to build fonts catalog: "+snap.err.Error(), http.StatusInternalServerError)
		return
	}

	text, err := snap.catalog.MakeCSS(r.Context(), req.Families, req.Display)
	if err != nil {
		if webfont.IsClientError(err) {
			clientError(w, rc.log, err)
			return
		}
		rc.log.Error("Unable to generate CSS", zap.Error(err))
		http.Error(w, "Unable to generate CSS: "+err.Error(), http.StatusInternalServerError)
		return
	}
	s.rpt.StoreData("requests/"+rc.id+".css", []byte(text))

	cache := cacheControl(snap.cfg.Server.CSSCacheAge)
	h := w.Header()
	h.Set("Content-Type", "text/css; charset=UTF-8")
	h.Set("Cache-Control", cache)
	h.Set("Pragma", cache)
	h.Set("Access-Control-Allow-Origin", "*")
	if _, err := io.WriteString(w, text); err != nil {
		rc.log.Debug("Unable to write response", zap.Error(err))
	}
}

func cacheControl(age int) string {
	if age <= 0 {
		return "no-cache"
	}
	return "max-age=" + strconv.Itoa(age) + ", public"
}

func clientError(w http.ResponseWriter, log *zap.Logger, err error) {
	log.Debug("Rejecting request", zap.Error(err))
	http.Error(w, err.Error(), http.StatusUnprocessableEntity)
}
