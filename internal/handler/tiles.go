package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/tilehub/tilehub-go/internal/model"
	"github.com/tilehub/tilehub-go/internal/service"
)

// TilesHandler handles HTTP requests for the tile catalog and its
// placeholder table screens.
type TilesHandler struct {
	service *service.TilesService
}

// NewTilesHandler creates a new TilesHandler.
func NewTilesHandler(svc *service.TilesService) *TilesHandler {
	return &TilesHandler{service: svc}
}

// HandleListTiles handles GET /api/tiles requests.
func (h *TilesHandler) HandleListTiles(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.ListTiles())
}

// HandleListTables handles GET /api/tiles/{tile}/tables requests.
func (h *TilesHandler) HandleListTables(w http.ResponseWriter, r *http.Request) {
	tile, ok := pathParam(r, "tile")
	if !ok {
		writeJSON(w, http.StatusBadRequest, messageResponse("invalid tile name"))
		return
	}

	tables, err := h.service.ListTables(tile)
	if err != nil {
		h.writeTilesError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, tables)
}

// HandleListRows handles GET /api/tiles/{tile}/tables/{table}/rows requests.
func (h *TilesHandler) HandleListRows(w http.ResponseWriter, r *http.Request) {
	tile, okTile := pathParam(r, "tile")
	table, okTable := pathParam(r, "table")
	if !okTile || !okTable {
		writeJSON(w, http.StatusBadRequest, messageResponse("invalid tile or table name"))
		return
	}

	rows, err := h.service.ListRows(tile, table)
	if err != nil {
		h.writeTilesError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, rows)
}

// HandleAddRow handles POST /api/tiles/{tile}/tables/{table}/rows requests.
func (h *TilesHandler) HandleAddRow(w http.ResponseWriter, r *http.Request) {
	tile, okTile := pathParam(r, "tile")
	table, okTable := pathParam(r, "table")
	if !okTile || !okTable {
		writeJSON(w, http.StatusBadRequest, messageResponse("invalid tile or table name"))
		return
	}

	var req model.AddRowRequest
	if !decodeBody(w, r, &req) {
		return
	}

	row, err := h.service.AddRow(tile, table, req)
	if err != nil {
		if errors.Is(err, service.ErrFieldsRequired) {
			writeJSON(w, http.StatusBadRequest, messageResponse(err.Error()))
			return
		}
		h.writeTilesError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, row)
}

// HandleDeleteRow handles DELETE /api/tiles/{tile}/tables/{table}/rows/{row_id} requests.
func (h *TilesHandler) HandleDeleteRow(w http.ResponseWriter, r *http.Request) {
	tile, okTile := pathParam(r, "tile")
	table, okTable := pathParam(r, "table")
	rowID := chi.URLParam(r, "row_id")
	if !okTile || !okTable || rowID == "" || len(rowID) > 36 {
		writeJSON(w, http.StatusBadRequest, messageResponse("invalid path"))
		return
	}

	if err := h.service.DeleteRow(tile, table, rowID); err != nil {
		h.writeTilesError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *TilesHandler) writeTilesError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrTileNotFound),
		errors.Is(err, service.ErrTableNotFound),
		errors.Is(err, service.ErrRowNotFound):
		writeJSON(w, http.StatusNotFound, messageResponse(err.Error()))
	default:
		writeJSON(w, http.StatusInternalServerError, messageResponse("internal server error"))
	}
}

// pathParam returns a decoded, bounded URL parameter. Tile and table names
// come from the navigation UI and may contain spaces.
func pathParam(r *http.Request, key string) (string, bool) {
	raw := chi.URLParam(r, key)
	if raw == "" || len(raw) > 64 {
		return "", false
	}
	decoded, err := url.PathUnescape(raw)
	if err != nil || decoded == "" {
		return "", false
	}
	return decoded, true
}
