package api

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"github.com/goureshmadye/tripbuddy/internal/limits"
	"github.com/goureshmadye/tripbuddy/internal/middleware"
	"github.com/goureshmadye/tripbuddy/internal/models"
	"github.com/goureshmadye/tripbuddy/internal/service"
)

type createTripRequest struct {
	Name        string `json:"name"`
	Destination string `json:"destination"`
	StartDate   int64  `json:"start_date"`
	EndDate     int64  `json:"end_date"`
}

func (a *API) handleCreateTrip(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req createTripRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Name == "" {
		respondError(w, http.StatusBadRequest, "name is required")
		return
	}

	trip, err := a.trips.CreateTrip(r.Context(), middleware.GetUserID(r.Context()), middleware.GetTier(r.Context()), service.CreateTripInput{
		Name:        req.Name,
		Destination: req.Destination,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, toTripResponse(trip))
}

func (a *API) handleListTrips(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	trips, err := a.trips.ListTrips(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		respondServiceError(w, err)
		return
	}

	resp := make([]tripResponse, len(trips))
	for i := range trips {
		resp[i] = toTripResponse(&trips[i])
	}
	respondJSON(w, http.StatusOK, resp)
}

func (a *API) handleGetTrip(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	trip, err := a.trips.GetTrip(r.Context(), middleware.GetUserID(r.Context()), ps.ByName("tripId"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toTripResponse(trip))
}

type addCollaboratorRequest struct {
	UserID string `json:"user_id"`
}

func (a *API) handleAddCollaborator(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var req addCollaboratorRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.UserID == "" {
		respondError(w, http.StatusBadRequest, "user_id is required")
		return
	}

	err := a.trips.AddCollaborator(r.Context(), middleware.GetUserID(r.Context()), middleware.GetTier(r.Context()), ps.ByName("tripId"), req.UserID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

func (a *API) handleUsage(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	usage, err := a.trips.GetUsage(r.Context(), middleware.GetUserID(r.Context()), middleware.GetTier(r.Context()), r.URL.Query().Get("trip_id"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, usage)
}

// handlePlans lists every plan tier with its limits, for the upgrade
// screen.
func (a *API) handlePlans(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	plans := make(map[models.PlanTier]limits.Limits)
	for _, tier := range []models.PlanTier{models.TierFree, models.TierPro, models.TierTeams} {
		plans[tier] = limits.ForTier(tier)
	}
	respondJSON(w, http.StatusOK, plans)
}
