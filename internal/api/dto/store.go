package dto

type StoreResponse struct {
	ID          int64    `json:"id"`
	DisplayName string   `json:"display_name"`
	City        string   `json:"city,omitempty"`
	Latitude    *float64 `json:"latitude,omitempty"`
	Longitude   *float64 `json:"longitude,omitempty"`
}

type ListStoresResponse struct {
	Stores []StoreResponse `json:"stores"`
}
