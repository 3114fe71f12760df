package model

// Hospital represents a medical facility.
// Latitude and Longitude are nil when the coordinates were never provided.
type Hospital struct {
	ID        int64    `json:"id"`
	Name      string   `json:"name"`
	Address   string   `json:"address"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}
