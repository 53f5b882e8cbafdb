package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/siherrmann/featuregraph"
	"github.com/siherrmann/featuregraph/core/graph"
	"github.com/siherrmann/featuregraph/core/search"
	"github.com/siherrmann/featuregraph/database"
	"github.com/siherrmann/featuregraph/model"
)

// errBadRequest marks caller input errors.
var errBadRequest = errors.New("bad request")

// Handlers provides the HTTP handlers of the API.
type Handlers struct {
	featuregraph *featuregraph.Featuregraph
	logger       *slog.Logger
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(f *featuregraph.Featuregraph, logger *slog.Logger) *Handlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handlers{
		featuregraph: f,
		logger:       logger,
	}
}

// Graph returns the laid-out graph. With type and name it returns the lineage of
// that object, or its neighborhood when hops is given as well.
func (h *Handlers) Graph(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	direction, err := h.direction(query.Get("direction"))
	if err != nil {
		h.writeError(w, err)
		return
	}

	typeParam, name := query.Get("type"), query.Get("name")
	if typeParam == "" && name == "" {
		built, err := h.featuregraph.Graph(direction)
		if err != nil {
			h.writeError(w, err)
			return
		}
		h.writeJSON(w, http.StatusOK, built)
		return
	}
	if typeParam == "" || name == "" {
		h.writeError(w, fmt.Errorf("%w: type and name must be given together", errBadRequest))
		return
	}

	objectType, err := model.ParseObjectType(typeParam)
	if err != nil {
		h.writeError(w, err)
		return
	}
	ref := model.ObjectRef{Type: objectType, Name: name}

	var filtered *model.Graph
	if hopsParam := query.Get("hops"); hopsParam != "" {
		hops, err := strconv.Atoi(hopsParam)
		if err != nil {
			h.writeError(w, fmt.Errorf("%w: hops must be an integer", errBadRequest))
			return
		}
		filtered, err = h.featuregraph.Neighborhood(ref, hops, direction)
		if err != nil {
			h.writeError(w, err)
			return
		}
	} else {
		filtered, err = h.featuregraph.FilteredGraph(ref, direction)
		if err != nil {
			h.writeError(w, err)
			return
		}
	}

	h.writeJSON(w, http.StatusOK, filtered)
}

// Relationships returns the inferred relationships, or the indirect ones with indirect=true.
func (h *Handlers) Relationships(w http.ResponseWriter, r *http.Request) {
	list := h.featuregraph.Relationships
	if r.URL.Query().Get("indirect") == "true" {
		list = h.featuregraph.IndirectRelationships
	}
	relationships, err := list()
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, relationships)
}

// Search runs the global search for q.
func (h *Handlers) Search(w http.ResponseWriter, r *http.Request) {
	groups, err := h.featuregraph.Search(r.URL.Query().Get("q"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, groups)
}

// Stats returns the object counts.
func (h *Handlers) Stats(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.featuregraph.Stats())
}

// TagSuggestions returns the tag input view for text and cursor. The cursor
// defaults to the end of text.
func (h *Handlers) TagSuggestions(w http.ResponseWriter, r *http.Request) {
	collection, err := featuregraph.ParseCollection(chi.URLParam(r, "collection"))
	if err != nil {
		h.writeError(w, err)
		return
	}

	text := r.URL.Query().Get("text")
	cursor := len(text)
	if cursorParam := r.URL.Query().Get("cursor"); cursorParam != "" {
		cursor, err = strconv.Atoi(cursorParam)
		if err != nil {
			h.writeError(w, fmt.Errorf("%w: cursor must be an integer", errBadRequest))
			return
		}
	}

	view, err := h.featuregraph.TagSuggestions(collection, search.TagInput{Text: text, Cursor: cursor})
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, view)
}

type permissionView struct {
	Name    string   `json:"name"`
	Actions []string `json:"actions"`
}

// Permissions returns the permissions granting action.
func (h *Handlers) Permissions(w http.ResponseWriter, r *http.Request) {
	action := r.URL.Query().Get("action")
	if action != "" && model.ActionIndex(strings.ToUpper(action)) < 0 {
		h.writeError(w, fmt.Errorf("%w: unknown action %q", errBadRequest, action))
		return
	}

	permissions := h.featuregraph.Permissions(action)
	views := make([]permissionView, 0, len(permissions))
	for _, p := range permissions {
		name := ""
		if p.Spec != nil {
			name = p.Spec.Name
		}
		views = append(views, permissionView{Name: name, Actions: p.ActionNames()})
	}
	h.writeJSON(w, http.StatusOK, views)
}

// ObjectOptions returns the selectable names for an object type.
func (h *Handlers) ObjectOptions(w http.ResponseWriter, r *http.Request) {
	objectType, err := model.ParseObjectType(chi.URLParam(r, "type"))
	if err != nil {
		h.writeError(w, err)
		return
	}

	options, err := h.featuregraph.ObjectOptions(objectType)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, options)
}

// FeatureViews returns the feature views matching the tags and q parameters.
func (h *Handlers) FeatureViews(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	h.writeJSON(w, http.StatusOK, h.featuregraph.FeatureViews(query.Get("tags"), query.Get("q")))
}

// FeatureServices returns the feature services matching the tags and q parameters.
func (h *Handlers) FeatureServices(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	h.writeJSON(w, http.StatusOK, h.featuregraph.FeatureServices(query.Get("tags"), query.Get("q")))
}

// Consumers returns the feature services consuming a feature view.
func (h *Handlers) Consumers(w http.ResponseWriter, r *http.Request) {
	services, err := h.featuregraph.ConsumingFeatureServices(chi.URLParam(r, "name"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, services)
}

// Persist stores the current graph as a snapshot.
func (h *Handlers) Persist(w http.ResponseWriter, r *http.Request) {
	direction, err := h.direction(r.URL.Query().Get("direction"))
	if err != nil {
		h.writeError(w, err)
		return
	}

	snapshot, err := h.featuregraph.Persist(r.Context(), direction)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, snapshot)
}

// LatestSnapshot returns the newest stored snapshot of the project.
func (h *Handlers) LatestSnapshot(w http.ResponseWriter, r *http.Request) {
	direction, err := h.direction(r.URL.Query().Get("direction"))
	if err != nil {
		h.writeError(w, err)
		return
	}

	snapshot, err := h.featuregraph.LatestSnapshot(r.Context(), direction)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, snapshot)
}

// direction parses LR or TB, defaulting to the configured direction.
func (h *Handlers) direction(s string) (model.LayoutDirection, error) {
	switch strings.ToUpper(s) {
	case "":
		return model.ParseLayoutDirection(string(h.featuregraph.Config.Direction)), nil
	case string(model.LayoutLeftRight):
		return model.LayoutLeftRight, nil
	case string(model.LayoutTopBottom):
		return model.LayoutTopBottom, nil
	default:
		return "", fmt.Errorf("%w: unknown direction %q", errBadRequest, s)
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, errBadRequest),
		errors.Is(err, model.ErrUnknownObjectType),
		errors.Is(err, featuregraph.ErrUnknownCollection):
		return http.StatusBadRequest
	case errors.Is(err, graph.ErrNodeNotFound),
		errors.Is(err, database.ErrGraphNotFound):
		return http.StatusNotFound
	case errors.Is(err, featuregraph.ErrNoStore):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handlers) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		h.logger.Error("Request failed", slog.String("error", err.Error()))
	}
	h.writeJSON(w, status, errorResponse{Error: err.Error()})
}

func (h *Handlers) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("Failed to encode response", slog.String("error", err.Error()))
	}
}
