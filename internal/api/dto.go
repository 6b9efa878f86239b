package api

import (
	"github.com/goureshmadye/tripbuddy/internal/calculator"
	"github.com/goureshmadye/tripbuddy/internal/models"
)

// Response DTOs keep the wire shape decoupled from the storage models
// (and keep the password hash out of responses).

type userResponse struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Tier        string `json:"tier"`
	CreatedAt   int64  `json:"created_at"`
}

func toUserResponse(u *models.User) userResponse {
	return userResponse{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		Tier:        string(u.Tier),
		CreatedAt:   u.CreatedAt,
	}
}

type tripResponse struct {
	ID            string   `json:"id"`
	OwnerID       string   `json:"owner_id"`
	Name          string   `json:"name"`
	Destination   string   `json:"destination,omitempty"`
	StartDate     int64    `json:"start_date,omitempty"`
	EndDate       int64    `json:"end_date,omitempty"`
	Collaborators []string `json:"collaborators"`
	CreatedAt     int64    `json:"created_at"`
}

func toTripResponse(t *models.Trip) tripResponse {
	collaborators := t.Collaborators
	if collaborators == nil {
		collaborators = []string{}
	}
	return tripResponse{
		ID:            t.ID,
		OwnerID:       t.OwnerID,
		Name:          t.Name,
		Destination:   t.Destination,
		StartDate:     t.StartDate,
		EndDate:       t.EndDate,
		Collaborators: collaborators,
		CreatedAt:     t.CreatedAt,
	}
}

type splitResponse struct {
	ParticipantID string `json:"participant_id"`
	AmountMinor   int64  `json:"amount_minor"`
}

type expenseResponse struct {
	ID          string          `json:"id"`
	TripID      string          `json:"trip_id"`
	PaidBy      string          `json:"paid_by,omitempty"`
	Description string          `json:"description"`
	AmountMinor int64           `json:"amount_minor"`
	Currency    string          `json:"currency"`
	Category    string          `json:"category"`
	Policy      string          `json:"policy"`
	Splits      []splitResponse `json:"splits"`
	CreatedAt   int64           `json:"created_at"`
}

func toExpenseResponse(e *models.Expense) expenseResponse {
	splits := make([]splitResponse, len(e.Splits))
	for i, s := range e.Splits {
		splits[i] = splitResponse{ParticipantID: s.ParticipantID, AmountMinor: s.AmountMinor}
	}
	return expenseResponse{
		ID:          e.ID,
		TripID:      e.TripID,
		PaidBy:      e.PaidBy,
		Description: e.Description,
		AmountMinor: e.AmountMinor,
		Currency:    e.Currency,
		Category:    string(e.Category),
		Policy:      string(e.Policy),
		Splits:      splits,
		CreatedAt:   e.CreatedAt,
	}
}

type memberBalanceResponse struct {
	UserID    string `json:"user_id"`
	PaidMinor int64  `json:"paid_minor"`
	OwedMinor int64  `json:"owed_minor"`
	NetMinor  int64  `json:"net_minor"`
}

type debtEdgeResponse struct {
	From        string `json:"from"`
	To          string `json:"to"`
	AmountMinor int64  `json:"amount_minor"`
}

type balancesResponse struct {
	Members           []memberBalanceResponse `json:"members"`
	SuggestedPayments []debtEdgeResponse      `json:"suggested_payments"`
}

func toBalancesResponse(members []calculator.MemberBalance, edges []calculator.DebtEdge) balancesResponse {
	resp := balancesResponse{
		Members:           make([]memberBalanceResponse, len(members)),
		SuggestedPayments: make([]debtEdgeResponse, len(edges)),
	}
	for i, m := range members {
		resp.Members[i] = memberBalanceResponse{
			UserID:    m.UserID,
			PaidMinor: m.PaidMinor,
			OwedMinor: m.OwedMinor,
			NetMinor:  m.NetMinor,
		}
	}
	for i, e := range edges {
		resp.SuggestedPayments[i] = debtEdgeResponse{From: e.From, To: e.To, AmountMinor: e.AmountMinor}
	}
	return resp
}

type documentResponse struct {
	ID            string `json:"id"`
	TripID        string `json:"trip_id"`
	FileName      string `json:"file_name"`
	FileSizeBytes int64  `json:"file_size_bytes"`
	LocalURI      string `json:"local_uri"`
	DownloadedAt  int64  `json:"downloaded_at"`
}

func toDocumentResponse(d *models.CachedDocument) documentResponse {
	return documentResponse{
		ID:            d.ID,
		TripID:        d.TripID,
		FileName:      d.FileName,
		FileSizeBytes: d.FileSizeBytes,
		LocalURI:      d.LocalURI,
		DownloadedAt:  d.DownloadedAt,
	}
}

type regionResponse struct {
	ID             string  `json:"id"`
	TripID         string  `json:"trip_id"`
	Name           string  `json:"name"`
	Latitude       float64 `json:"latitude"`
	Longitude      float64 `json:"longitude"`
	LatitudeDelta  float64 `json:"latitude_delta"`
	LongitudeDelta float64 `json:"longitude_delta"`
	ZoomLevel      int     `json:"zoom_level"`
	TileCount      int     `json:"tile_count"`
	SizeInMB       float64 `json:"size_in_mb"`
	DownloadedAt   int64   `json:"downloaded_at"`
}

func toRegionResponse(r *models.OfflineMapRegion) regionResponse {
	return regionResponse{
		ID:             r.ID,
		TripID:         r.TripID,
		Name:           r.Name,
		Latitude:       r.Latitude,
		Longitude:      r.Longitude,
		LatitudeDelta:  r.LatitudeDelta,
		LongitudeDelta: r.LongitudeDelta,
		ZoomLevel:      r.ZoomLevel,
		TileCount:      r.TileCount,
		SizeInMB:       r.SizeInMB,
		DownloadedAt:   r.DownloadedAt,
	}
}

type cacheSizeResponse struct {
	DocumentBytes int64  `json:"document_bytes"`
	MapBytes      int64  `json:"map_bytes"`
	TotalBytes    int64  `json:"total_bytes"`
	Formatted     string `json:"formatted"`
}

func toCacheSizeResponse(s models.CacheSizeSummary) cacheSizeResponse {
	return cacheSizeResponse{
		DocumentBytes: s.DocumentBytes,
		MapBytes:      s.MapBytes,
		TotalBytes:    s.TotalBytes,
		Formatted:     s.Formatted,
	}
}
