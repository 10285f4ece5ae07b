package model

import "time"

// ListingStatus is the moderation state of a listing.  Only approved
// listings are visible to the public and bookable by customers.
type ListingStatus string

const (
	ListingPending  ListingStatus = "pending"
	ListingApproved ListingStatus = "approved"
	ListingRejected ListingStatus = "rejected"
)

// Listing is a bookable property (hotel or similar) registered by an
// owner and moderated by an admin before becoming visible.
//
// Fields:
//  ID                 – primary key identifier.
//  OwnerID            – user who registered the listing.
//  Name               – display name.
//  Description        – optional long description.
//  Location           – city/region used for browsing and search.
//  Address            – street address.
//  PricePerNightCents – nightly rate in cents.  All money is integer
//                       cents end to end; no float arithmetic touches
//                       prices.
//  ImageURL           – optional cover image.
//  Status             – moderation state (pending/approved/rejected).
//  AdminNotes         – moderator notes, set on approval or rejection.
//  ApprovedBy         – admin who decided, null while pending.
//  ApprovedAt         – decision timestamp, null while pending.
//  Phone/Email/Website – optional contact details.
//  RoomsAvailable     – advertised room count (informational only; the
//                       platform does not decrement inventory).
//  CreatedAt          – timestamp of creation.
//  UpdatedAt          – timestamp of last update.
type Listing struct {
	ID                 uint64        // listings.id
	OwnerID            uint64        // listings.owner_id
	Name               string        // listings.name
	Description        *string       // listings.description (nullable)
	Location           string        // listings.location
	Address            string        // listings.address
	PricePerNightCents int64         // listings.price_per_night_cents
	ImageURL           *string       // listings.image_url (nullable)
	Status             ListingStatus // listings.status
	AdminNotes         *string       // listings.admin_notes (nullable)
	ApprovedBy         *uint64       // listings.approved_by (nullable)
	ApprovedAt         *time.Time    // listings.approved_at (nullable)
	Phone              *string       // listings.phone (nullable)
	Email              *string       // listings.email (nullable)
	Website            *string       // listings.website (nullable)
	RoomsAvailable     *int          // listings.rooms_available (nullable)
	CreatedAt          time.Time     // listings.created_at
	UpdatedAt          time.Time     // listings.updated_at
}
