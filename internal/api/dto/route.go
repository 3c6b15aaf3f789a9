package dto

import "time"

// StopComment carries a user-entered annotation for one store on a route.
type StopComment struct {
	StoreID int64  `json:"store_id"`
	Comment string `json:"comment"`
}

type CreateRouteRequest struct {
	Name           string        `json:"name"`
	AssignedUserID int64         `json:"assigned_user_id"`
	StoreIDs       []int64       `json:"store_ids"`
	PlannedDate    string        `json:"planned_date,omitempty"`
	Notes          string        `json:"notes,omitempty"`
	Comments       []StopComment `json:"comments,omitempty"`
}

// UpdateRouteRequest edits metadata and optionally rebuilds the stop set.
// A non-empty store_ids triggers a full re-sequencing (comments re-attached
// by store id); with store_ids absent only metadata and comments change.
type UpdateRouteRequest struct {
	Name           *string       `json:"name,omitempty"`
	AssignedUserID *int64        `json:"assigned_user_id,omitempty"`
	PlannedDate    *string       `json:"planned_date,omitempty"`
	Notes          *string       `json:"notes,omitempty"`
	StoreIDs       []int64       `json:"store_ids,omitempty"`
	Comments       []StopComment `json:"comments,omitempty"`
}

type RouteStopResponse struct {
	Sequence         int     `json:"sequence"`
	StoreID          int64   `json:"store_id"`
	StoreName        string  `json:"store_name"`
	Comment          string  `json:"comment,omitempty"`
	TravelDistanceKm float64 `json:"travel_distance_km"`
	TravelMinutes    float64 `json:"travel_minutes"`
}

type RouteResponse struct {
	ID                 string              `json:"id"`
	Name               string              `json:"name"`
	Status             string              `json:"status"`
	PlannedDate        *string             `json:"planned_date,omitempty"`
	CreatedByUserID    int64               `json:"created_by_user_id"`
	AssignedUserID     int64               `json:"assigned_user_id"`
	Notes              string              `json:"notes,omitempty"`
	TotalDistanceKm    float64             `json:"total_distance_km"`
	TotalTravelMinutes float64             `json:"total_travel_minutes"`
	Stops              []RouteStopResponse `json:"stops"`
	CreatedAt          time.Time           `json:"created_at"`
	UpdatedAt          time.Time           `json:"updated_at"`
}

type ListRoutesResponse struct {
	Routes []RouteResponse `json:"routes"`
}
