package handlers

import (
	"net/http"

	"github.com/gobuffalo/plush"
)

func (s *server) Custom404Handler(w http.ResponseWriter, r *http.Request) {
	ctx := plush.NewContext()
	ctx.Set("currentPath", r.URL.Path)

	content, err := s.notFound.Exec(ctx)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	s.render(w, http.StatusNotFound, "Not found", content, ctx)
}
