package server

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	wlerrors "github.com/matzehuels/wikilist/pkg/errors"
	wlio "github.com/matzehuels/wikilist/pkg/io"
	"github.com/matzehuels/wikilist/pkg/pipeline"
	"github.com/matzehuels/wikilist/pkg/saves"
)

type listSummary struct {
	Name        string `json:"name"`
	Title       string `json:"title"`
	Root        string `json:"root"`
	Description string `json:"description,omitempty"`
}

type buildResponse struct {
	Name          string   `json:"name"`
	Title         string   `json:"title"`
	Wikitext      string   `json:"wikitext"`
	Rows          int      `json:"rows"`
	Columns       int      `json:"columns"`
	Members       int      `json:"members"`
	Uncategorized []string `json:"uncategorized,omitempty"`
	Failed        []string `json:"failed,omitempty"`
	Cached        bool     `json:"cached"`
}

func (s *Server) listLists(w http.ResponseWriter, _ *http.Request) {
	out := make([]listSummary, 0, len(s.opts.Catalog.Lists))
	for _, l := range s.opts.Catalog.Lists {
		out = append(out, listSummary{Name: l.Name, Title: l.HeaderTitle(), Root: l.Root, Description: l.Description})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) getList(w http.ResponseWriter, r *http.Request) {
	res, err := s.buildList(r)
	if err != nil {
		writeError(w, r, err, s.logger)
		return
	}
	s.respond(w, r, res)
}

func (s *Server) previewList(w http.ResponseWriter, r *http.Request) {
	res, err := s.buildList(r)
	if err != nil {
		writeError(w, r, err, s.logger)
		return
	}
	writeText(w, http.StatusOK, "text/html; charset=utf-8", s.opts.Previewer.Render(res.Wikitext))
}

func (s *Server) buildList(r *http.Request) (*pipeline.Result, error) {
	list, err := s.opts.Catalog.Get(chi.URLParam(r, "name"))
	if err != nil {
		return nil, err
	}
	if s.opts.Wiki == nil {
		return nil, wlerrors.New(wlerrors.ErrCodeInternal, "no wiki client configured")
	}
	opts := s.opts.Build
	opts.Refresh = boolParam(r, "refresh")
	opts.DropUnmapped = opts.DropUnmapped || boolParam(r, "drop_unmapped")

	ctx, cancel := context.WithTimeout(r.Context(), s.opts.BuildTimeout)
	defer cancel()
	return s.opts.Runner.BuildList(ctx, s.opts.Wiki(opts.Refresh), list, opts)
}

func (s *Server) listSaves(w http.ResponseWriter, r *http.Request) {
	if s.opts.Saves == nil {
		writeError(w, r, wlerrors.New(wlerrors.ErrCodeNotFound, "saves are not enabled"), s.logger)
		return
	}
	infos, err := s.opts.Saves.List(r.Context())
	if err != nil {
		writeError(w, r, err, s.logger)
		return
	}
	if infos == nil {
		infos = []saves.Info{}
	}
	writeJSON(w, http.StatusOK, infos)
}

func (s *Server) getSave(w http.ResponseWriter, r *http.Request) {
	res, err := s.buildSave(r)
	if err != nil {
		writeError(w, r, err, s.logger)
		return
	}
	s.respond(w, r, res)
}

func (s *Server) previewSave(w http.ResponseWriter, r *http.Request) {
	res, err := s.buildSave(r)
	if err != nil {
		writeError(w, r, err, s.logger)
		return
	}
	writeText(w, http.StatusOK, "text/html; charset=utf-8", s.opts.Previewer.Render(res.Wikitext))
}

func (s *Server) buildSave(r *http.Request) (*pipeline.Result, error) {
	if s.opts.Saves == nil {
		return nil, wlerrors.New(wlerrors.ErrCodeNotFound, "saves are not enabled")
	}
	t, err := s.opts.Saves.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		return nil, err
	}
	opts := s.opts.Build
	opts.Strict = boolParam(r, "strict")
	return s.opts.Runner.BuildManual(r.Context(), t, opts)
}

// render builds a tree posted in the saved JSON format.
func (s *Server) render(w http.ResponseWriter, r *http.Request) {
	t, err := wlio.ReadJSON(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, r, err, s.logger)
		return
	}
	opts := s.opts.Build
	opts.Strict = boolParam(r, "strict")
	res, err := s.opts.Runner.BuildManual(r.Context(), t, opts)
	if err != nil {
		writeError(w, r, err, s.logger)
		return
	}
	if r.URL.Query().Get("format") == pipeline.FormatHTML {
		writeText(w, http.StatusOK, "text/html; charset=utf-8", s.opts.Previewer.Render(res.Wikitext))
		return
	}
	s.respond(w, r, res)
}

// respond writes res as wikitext, or as JSON with ?format=json.
func (s *Server) respond(w http.ResponseWriter, r *http.Request, res *pipeline.Result) {
	switch format := r.URL.Query().Get("format"); format {
	case "", pipeline.FormatWikitext:
		writeText(w, http.StatusOK, "text/plain; charset=utf-8", res.Wikitext)
	case pipeline.FormatJSON:
		writeJSON(w, http.StatusOK, buildResponse{
			Name:          res.Name,
			Title:         res.Tree.Title(),
			Wikitext:      res.Wikitext,
			Rows:          res.Stats.Rows,
			Columns:       res.Stats.Columns,
			Members:       res.Stats.Members,
			Uncategorized: res.Uncategorized,
			Failed:        res.Failed,
			Cached:        res.CacheInfo.FetchHit,
		})
	default:
		writeError(w, r, wlerrors.New(wlerrors.ErrCodeInvalidInput, "unsupported format: %q", format), s.logger)
	}
}

func boolParam(r *http.Request, name string) bool {
	v, err := strconv.ParseBool(r.URL.Query().Get(name))
	return err == nil && v
}
