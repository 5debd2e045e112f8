package domain

import (
	"time"

	"github.com/google/uuid"
)

// Shop is a flower shop listed on the marketplace.
// OwnerID is nullable: unassigned shops exist until an admin links an owner.
type Shop struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Address     string     `json:"address"`
	Latitude    *float64   `json:"latitude,omitempty"`
	Longitude   *float64   `json:"longitude,omitempty"`
	Rating      float64    `json:"rating"`
	ReviewCount int        `json:"review_count"`
	Specialty   string     `json:"specialty,omitempty"`
	Hours       string     `json:"hours,omitempty"`
	Tags        []string   `json:"tags,omitempty"`
	OwnerID     *uuid.UUID `json:"owner_id,omitempty"`
	Website     string     `json:"website,omitempty"`
	Phone       string     `json:"phone,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// HasLocation reports whether the shop has geocoordinates for distance search.
func (s Shop) HasLocation() bool {
	return s.Latitude != nil && s.Longitude != nil
}
