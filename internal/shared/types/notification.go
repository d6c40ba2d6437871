package types

import "time"

// Notification is one toast entry. IDs are timestamp-derived and unique
// within the queue; entries expire automatically after the queue's TTL.
type Notification struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Icon      string    `json:"icon"`
	CreatedAt time.Time `json:"created_at"`
}
