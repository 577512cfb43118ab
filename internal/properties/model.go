package properties

import "time"

// Property is the root aggregate that scopes bookings, inventory items and
// stock logs for one short-term-rental listing.
type Property struct {
	ID           int64     `json:"id"`
	HostID       int64     `json:"host_id"`
	Name         string    `json:"name"`
	Address      string    `json:"address"`
	ThumbnailURL string    `json:"thumbnail_url"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
