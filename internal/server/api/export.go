package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
)

// maxExportBody bounds the request body of one export call.
const maxExportBody = 32 << 20

// Exporter runs one plugin against a widget model.
type Exporter interface {
	Execute(ctx context.Context, pluginPath string, widgets []json.RawMessage, options json.RawMessage) (string, error)
}

// ExportHandler serves POST /api/export.
type ExportHandler struct {
	exporter Exporter
	roots    []string
	logger   *slog.Logger
}

// NewExportHandler creates a new ExportHandler. When roots is non-empty only
// plugins inside one of those directories are run.
func NewExportHandler(e Exporter, roots []string, logger *slog.Logger) *ExportHandler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	h := &ExportHandler{exporter: e, logger: logger}
	for _, r := range roots {
		if r == "" {
			continue
		}
		h.roots = append(h.roots, resolvePath(r))
	}
	return h
}

type exportRequest struct {
	PluginPath string            `json:"pluginPath"`
	Widgets    []json.RawMessage `json:"widgets"`
	Options    json.RawMessage   `json:"options"`
}

type exportResponse struct {
	Output string `json:"output"`
}

// ServeHTTP runs the export. Malformed widget records and options are left
// to the bridge, which substitutes defaults; only an unreadable envelope is
// a bad request. Bridge failures answer 422 with the error text.
func (h *ExportHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req exportRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxExportBody)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.PluginPath == "" {
		writeError(w, http.StatusBadRequest, "pluginPath is required")
		return
	}

	if !h.allowed(req.PluginPath) {
		h.logger.Warn("rejected plugin outside plugin roots", slog.String("plugin", req.PluginPath))
		writeError(w, http.StatusForbidden, "pluginPath is outside the allowed plugin roots")
		return
	}

	out, err := h.exporter.Execute(r.Context(), req.PluginPath, req.Widgets, req.Options)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, exportResponse{Output: out})
}

// allowed reports whether path lies inside a configured root. Symlinks are
// resolved first so a link inside a root cannot point outside it.
func (h *ExportHandler) allowed(path string) bool {
	if len(h.roots) == 0 {
		return true
	}
	p := resolvePath(path)
	for _, root := range h.roots {
		rel, err := filepath.Rel(root, p)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) || filepath.IsAbs(rel) {
			continue
		}
		return true
	}
	return false
}

// resolvePath returns the absolute, symlink-free form of p, or the cleaned
// absolute path when p does not exist.
func resolvePath(p string) string {
	abs, err := filepath.Abs(p)
	if err != nil {
		abs = filepath.Clean(p)
	}
	if real, err := filepath.EvalSymlinks(abs); err == nil {
		return real
	}
	return abs
}
