package api

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/julienschmidt/httprouter"

	"github.com/goureshmadye/tripbuddy/internal/cache"
)

type downloadDocumentRequest struct {
	ID       string `json:"id"`
	TripID   string `json:"trip_id"`
	FileName string `json:"file_name"`
	URL      string `json:"url"`
	FileType string `json:"file_type"`
}

type downloadResponse struct {
	Success bool   `json:"success"`
	ID      string `json:"id,omitempty"`
}

func (a *API) handleDownloadDocument(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req downloadDocumentRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.URL == "" {
		respondError(w, http.StatusBadRequest, "url is required")
		return
	}
	if req.ID == "" {
		req.ID = uuid.New().String()
	}

	ok := a.cache.DownloadDocument(r.Context(), cache.DocumentRequest{
		ID:       req.ID,
		TripID:   req.TripID,
		FileName: req.FileName,
		URL:      req.URL,
		FileType: req.FileType,
	})
	if !ok {
		respondJSON(w, http.StatusBadGateway, downloadResponse{Success: false})
		return
	}
	respondJSON(w, http.StatusCreated, downloadResponse{Success: true, ID: req.ID})
}

func (a *API) handleDocumentStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	cached := a.cache.IsDocumentCached(r.Context(), ps.ByName("documentId"))
	respondJSON(w, http.StatusOK, map[string]bool{"cached": cached})
}

func (a *API) handleRemoveDocument(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := a.cache.RemoveDocument(r.Context(), ps.ByName("documentId")); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

func (a *API) handleListDocuments(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	docs, err := a.cache.CachedDocuments(r.Context(), r.URL.Query().Get("trip_id"))
	if err != nil {
		respondServiceError(w, err)
		return
	}

	resp := make([]documentResponse, len(docs))
	for i := range docs {
		resp[i] = toDocumentResponse(&docs[i])
	}
	respondJSON(w, http.StatusOK, resp)
}

type downloadRegionRequest struct {
	ID             string  `json:"id"`
	TripID         string  `json:"trip_id"`
	Name           string  `json:"name"`
	Latitude       float64 `json:"latitude"`
	Longitude      float64 `json:"longitude"`
	LatitudeDelta  float64 `json:"latitude_delta"`
	LongitudeDelta float64 `json:"longitude_delta"`
	ZoomLevel      int     `json:"zoom_level"`
}

func (a *API) handleDownloadRegion(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req downloadRegionRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.LatitudeDelta <= 0 || req.LongitudeDelta <= 0 {
		respondError(w, http.StatusBadRequest, "latitude_delta and longitude_delta must be positive")
		return
	}
	if req.ID == "" {
		req.ID = uuid.New().String()
	}

	ok := a.cache.DownloadMapRegion(r.Context(), cache.RegionRequest{
		ID:             req.ID,
		TripID:         req.TripID,
		Name:           req.Name,
		Latitude:       req.Latitude,
		Longitude:      req.Longitude,
		LatitudeDelta:  req.LatitudeDelta,
		LongitudeDelta: req.LongitudeDelta,
		ZoomLevel:      req.ZoomLevel,
	})
	if !ok {
		respondJSON(w, http.StatusBadGateway, downloadResponse{Success: false})
		return
	}
	respondJSON(w, http.StatusCreated, downloadResponse{Success: true, ID: req.ID})
}

func (a *API) handleRemoveRegion(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := a.cache.RemoveMapRegion(r.Context(), ps.ByName("regionId")); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

func (a *API) handleListRegions(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	regions, err := a.cache.CachedMapRegions(r.Context(), r.URL.Query().Get("trip_id"))
	if err != nil {
		respondServiceError(w, err)
		return
	}

	resp := make([]regionResponse, len(regions))
	for i := range regions {
		resp[i] = toRegionResponse(&regions[i])
	}
	respondJSON(w, http.StatusOK, resp)
}

func (a *API) handleCacheSize(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	summary, err := a.cache.RefreshCacheSize(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toCacheSizeResponse(summary))
}

// handleClearCache empties the offline cache and returns the resulting
// size summary, which is zero only when every item was removed.
func (a *API) handleClearCache(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if err := a.cache.ClearCache(r.Context()); err != nil {
		respondServiceError(w, err)
		return
	}
	summary, err := a.cache.RefreshCacheSize(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toCacheSizeResponse(summary))
}
