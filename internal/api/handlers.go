package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/starford/raido/internal/apperr"
	"github.com/starford/raido/internal/enhance"
	"github.com/starford/raido/internal/viz"
)

// Handler holds API route handlers.
type Handler struct {
	enh *enhance.Enhancer
	reg *viz.Registry
}

// NewHandler creates a new Handler.
func NewHandler(enh *enhance.Enhancer, reg *viz.Registry) *Handler {
	return &Handler{enh: enh, reg: reg}
}

// pageResource splits the wildcard tail of /api/pages/* into the page
// path and the trailing operation segment ("outline", "graph.svg",
// "pointer"). Supports encoded slashes from OpenAPI clients
// (e.g. topics%2Fgo.html).
func pageResource(r *http.Request) (page, op string) {
	raw := strings.TrimPrefix(chi.URLParam(r, "*"), "/")
	if decoded, err := url.PathUnescape(raw); err == nil {
		raw = decoded
	}
	i := strings.LastIndex(raw, "/")
	if i < 0 {
		return "", raw
	}
	return raw[:i], raw[i+1:]
}

// ListPages handles GET /api/pages.
//
//	@Summary		List enhanceable site pages
//	@Tags			pages
//	@Produce		json
//	@Success		200	{object}	PageListResponse
//	@Security		BearerAuth
//	@Router			/pages [get]
func (h *Handler) ListPages(w http.ResponseWriter, r *http.Request) {
	metas, err := h.enh.Pages()
	if err != nil {
		slog.Error("list pages failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"pages": metas,
		"total": len(metas),
	})
}

// PageResource handles GET /api/pages/{page}/outline and
// GET /api/pages/{page}/graph.svg.
//
//	@Summary		Get a page's outline fragment or graph drawing
//	@Tags			pages
//	@Param			page	path	string	true	"Page path"
//	@Success		200
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/pages/{page}/outline [get]
func (h *Handler) PageResource(w http.ResponseWriter, r *http.Request) {
	page, op := pageResource(r)
	if page == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("page path is required"))
		return
	}
	switch op {
	case "outline":
		h.outline(w, page)
	case "graph.svg":
		h.graphSVG(w, page)
	default:
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
	}
}

func (h *Handler) outline(w http.ResponseWriter, page string) {
	frag, err := h.enh.Outline(page)
	if err != nil {
		switch {
		case errors.Is(err, apperr.ErrNotFound):
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
		case errors.Is(err, apperr.ErrEmptyOutline):
			w.WriteHeader(http.StatusNoContent)
		default:
			slog.Error("outline failed", slog.String("page", page), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(frag)
}

func (h *Handler) graphSVG(w http.ResponseWriter, page string) {
	v, err := h.reg.Get(page)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
			return
		}
		slog.Error("graph render failed", slog.String("page", page), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(v.Frame())
}

// PagePointer handles POST /api/pages/{page}/pointer: feeds a pointer
// event into the page's live graph so clients can drag nodes.
//
//	@Summary		Send a pointer event to a page's graph
//	@Tags			pages
//	@Accept			json
//	@Param			page	path	string			true	"Page path"
//	@Param			body	body	viz.PointerEvent	true	"Pointer event"
//	@Success		202
//	@Failure		400	{object}	errResponse
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/pages/{page}/pointer [post]
func (h *Handler) PagePointer(w http.ResponseWriter, r *http.Request) {
	page, op := pageResource(r)
	if page == "" || op != "pointer" {
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<16)
	var ev viz.PointerEvent
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	switch ev.Kind {
	case viz.PointerDown, viz.PointerMove, viz.PointerUp:
	default:
		writeJSON(w, http.StatusBadRequest, errorBody("unknown pointer event type"))
		return
	}

	v, err := h.reg.Get(page)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
			return
		}
		slog.Error("pointer failed", slog.String("page", page), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	v.Pointer(ev)
	w.WriteHeader(http.StatusAccepted)
}

// Graph handles GET /api/graph.
//
//	@Summary		Get the site link graph
//	@Tags			graph
//	@Produce		json
//	@Success		200	{object}	GraphResponse
//	@Security		BearerAuth
//	@Router			/graph [get]
func (h *Handler) Graph(w http.ResponseWriter, r *http.Request) {
	m := h.enh.Manifest()
	writeJSON(w, http.StatusOK, map[string]any{
		"nodes": m.Nodes,
		"links": m.Edges,
	})
}
