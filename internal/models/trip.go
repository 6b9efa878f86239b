package models

// Trip represents a planned trip owned by one user and shared with
// zero or more collaborators.
type Trip struct {
	// ID is the unique identifier for the trip (UUID format).
	ID string

	// OwnerID is the user who created the trip.
	OwnerID string

	// Name is the display name of the trip (e.g., "Tokyo 2026").
	Name string

	// Destination is a free-form place description.
	Destination string

	// StartDate and EndDate are Unix timestamps bounding the trip.
	// Zero means unset.
	StartDate int64
	EndDate   int64

	// Collaborators is the list of user IDs invited to the trip,
	// not including the owner.
	Collaborators []string

	// CreatedAt is the Unix timestamp when the trip was created.
	CreatedAt int64
}
