package styles

import (
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/templatestyles/pkg/config"
)

// Handle returns the HTTP API of the service:
//
//	POST   /sanitize               CSS in, sanitized CSS out; ?prefix= overrides the scope
//	POST   /lint                   CSS in, JSON warnings out
//	PUT    /pages/{id}             attach the CSS body to a page
//	GET    /pages/{id}             stored tree as JSON
//	DELETE /pages/{id}             detach
//	GET    /pages/{id}/css         composed CSS; ?templates=ns:id,ns:id
func (s *Service) Handle() http.Handler {
	r := chi.NewRouter()

	r.Post("/sanitize", s.handleSanitize)
	r.Post("/lint", s.handleLint)
	r.Route("/pages/{id}", func(r chi.Router) {
		r.Put("/", s.handleAttach)
		r.Get("/", s.handleTree)
		r.Delete("/", s.handleDetach)
		r.Get("/css", s.handleCompose)
	})

	return r
}

func (s *Service) handleSanitize(w http.ResponseWriter, r *http.Request) {
	src, err := s.readBody(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	prefix := s.scope
	if q := r.URL.Query(); q.Has("prefix") {
		prefix = q.Get("prefix")
	}
	writeCSS(w, s.Preview(src, prefix))
}

func (s *Service) handleLint(w http.ResponseWriter, r *http.Request) {
	src, err := s.readBody(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, JSONResponse{Data: s.Lint(src)})
}

func (s *Service) handleAttach(w http.ResponseWriter, r *http.Request) {
	id, err := pageID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	src, err := s.readBody(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	res, err := s.Attach(r.Context(), id, src)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, JSONResponse{Data: res})
}

func (s *Service) handleTree(w http.ResponseWriter, r *http.Request) {
	id, err := pageID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	tree, err := s.Tree(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, JSONResponse{Data: tree})
}

func (s *Service) handleDetach(w http.ResponseWriter, r *http.Request) {
	id, err := pageID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.Detach(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Service) handleCompose(w http.ResponseWriter, r *http.Request) {
	id, err := pageID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	templates, err := ParseTemplates(r.URL.Query().Get("templates"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	css, err := s.Compose(r.Context(), Context{PageID: id, Templates: templates})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeCSS(w, css)
}

func (s *Service) readBody(w http.ResponseWriter, r *http.Request) (string, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxBody))
	if err != nil {
		return "", err
	}
	return string(body), nil
}

func pageID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fieldError{field: "id", msg: "must be a positive integer, got " + strconv.Quote(raw), err: ErrInvalidPageID}
	}
	return id, nil
}

// ParseTemplates reads a comma separated list of namespace:page pairs, such
// as "10:42,10:7,828:3", into page ids grouped by namespace.
func ParseTemplates(raw string) (map[int][]int64, error) {
	out := make(map[int][]int64)
	for item := range strings.SplitSeq(raw, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		nsText, idText, ok := strings.Cut(item, ":")
		if !ok {
			return nil, fieldError{field: "templates", msg: "expected namespace:page, got " + strconv.Quote(item), err: ErrInvalidTemplates}
		}
		ns, ok := config.ParseNamespace(nsText)
		if !ok {
			return nil, fieldError{field: "templates", msg: "invalid namespace " + strconv.Quote(nsText), err: ErrInvalidTemplates}
		}
		id, err := strconv.ParseInt(strings.TrimSpace(idText), 10, 64)
		if err != nil || id <= 0 {
			return nil, fieldError{field: "templates", msg: "invalid page id " + strconv.Quote(idText), err: ErrInvalidTemplates}
		}
		out[ns] = append(out[ns], id)
	}
	return out, nil
}
