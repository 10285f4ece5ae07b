package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/mayastay/booking-api/internal/model"
)

// ListingRepo provides CRUD and moderation operations for listings.  It
// also satisfies the booking service's Catalog contract (GetBookable,
// GetOwnerID).
type ListingRepo struct{ DB *sql.DB }

func NewListingRepo(db *sql.DB) *ListingRepo { return &ListingRepo{DB: db} }

const listingColumns = `id, owner_id, name, description, location, address,
	price_per_night_cents, image_url, status, admin_notes, approved_by,
	approved_at, phone, email, website, rooms_available, created_at, updated_at`

// ListingCreateInput carries the owner-supplied fields for a new listing.
type ListingCreateInput struct {
	OwnerID            uint64
	Name               string
	Description        *string
	Location           string
	Address            string
	PricePerNightCents int64
	ImageURL           *string
	Phone              *string
	Email              *string
	Website            *string
	RoomsAvailable     *int
}

// Create inserts a listing in pending state and returns its ID.
func (r *ListingRepo) Create(ctx context.Context, in ListingCreateInput) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO listings (owner_id, name, description, location, address,
		 price_per_night_cents, image_url, phone, email, website, rooms_available, status)
		 VALUES (?,?,?,?,?,?,?,?,?,?,?,?)`,
		in.OwnerID, in.Name, in.Description, in.Location, in.Address,
		in.PricePerNightCents, in.ImageURL, in.Phone, in.Email, in.Website,
		in.RoomsAvailable, string(model.ListingPending))
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByID returns a listing regardless of moderation state.
func (r *ListingRepo) GetByID(ctx context.Context, id uint64) (*model.Listing, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+listingColumns+` FROM listings WHERE id = ?`, id)
	return scanListing(row)
}

// GetBookable returns the listing only when it exists and is approved.
// Pending and rejected listings surface as sql.ErrNoRows, which the
// booking service maps to NotFound.
func (r *ListingRepo) GetBookable(ctx context.Context, id uint64) (*model.Listing, error) {
	row := r.DB.QueryRowContext(ctx,
		`SELECT `+listingColumns+` FROM listings WHERE id = ? AND status = 'approved'`, id)
	return scanListing(row)
}

// GetOwnerID returns the owner of a listing regardless of its state.
func (r *ListingRepo) GetOwnerID(ctx context.Context, id uint64) (uint64, error) {
	var ownerID uint64
	err := r.DB.QueryRowContext(ctx, `SELECT owner_id FROM listings WHERE id = ?`, id).Scan(&ownerID)
	return ownerID, err
}

// ListApproved returns approved listings for public browsing, optionally
// filtered by location substring, newest first.
func (r *ListingRepo) ListApproved(ctx context.Context, location string) ([]model.Listing, error) {
	q := `SELECT ` + listingColumns + ` FROM listings WHERE status = 'approved'`
	args := []interface{}{}
	if loc := strings.TrimSpace(location); loc != "" {
		q += ` AND location LIKE ?`
		args = append(args, "%"+loc+"%")
	}
	q += ` ORDER BY created_at DESC`
	return r.list(ctx, q, args...)
}

// ListByOwner returns all of an owner's listings, any state, newest first.
func (r *ListingRepo) ListByOwner(ctx context.Context, ownerID uint64) ([]model.Listing, error) {
	return r.list(ctx,
		`SELECT `+listingColumns+` FROM listings WHERE owner_id = ? ORDER BY created_at DESC`, ownerID)
}

// ListByStatus returns listings in a given moderation state, oldest first
// so the moderation queue is worked in arrival order.
func (r *ListingRepo) ListByStatus(ctx context.Context, status model.ListingStatus) ([]model.Listing, error) {
	return r.list(ctx,
		`SELECT `+listingColumns+` FROM listings WHERE status = ? ORDER BY created_at ASC`, string(status))
}

// ListAll returns every listing, newest first (admin view).
func (r *ListingRepo) ListAll(ctx context.Context) ([]model.Listing, error) {
	return r.list(ctx, `SELECT `+listingColumns+` FROM listings ORDER BY created_at DESC`)
}

// ListingUpdateInput carries the owner-editable fields of a listing.
type ListingUpdateInput struct {
	Name               string
	Description        *string
	Location           string
	Address            string
	PricePerNightCents int64
	ImageURL           *string
	Phone              *string
	Email              *string
	Website            *string
	RoomsAvailable     *int
}

// UpdateOwned updates a listing after verifying the caller owns it.
// Returns sql.ErrNoRows when the listing is absent and ErrForbidden when
// it belongs to someone else.
func (r *ListingRepo) UpdateOwned(ctx context.Context, id, ownerID uint64, in ListingUpdateInput) error {
	actual, err := r.GetOwnerID(ctx, id)
	if err != nil {
		return err
	}
	if actual != ownerID {
		return ErrForbidden
	}
	_, err = r.DB.ExecContext(ctx,
		`UPDATE listings SET name=?, description=?, location=?, address=?,
		 price_per_night_cents=?, image_url=?, phone=?, email=?, website=?,
		 rooms_available=?, updated_at=NOW() WHERE id=?`,
		in.Name, in.Description, in.Location, in.Address, in.PricePerNightCents,
		in.ImageURL, in.Phone, in.Email, in.Website, in.RoomsAvailable, id)
	return err
}

// DeleteOwned removes a listing after verifying ownership.  Same error
// contract as UpdateOwned.
func (r *ListingRepo) DeleteOwned(ctx context.Context, id, ownerID uint64) error {
	actual, err := r.GetOwnerID(ctx, id)
	if err != nil {
		return err
	}
	if actual != ownerID {
		return ErrForbidden
	}
	_, err = r.DB.ExecContext(ctx, `DELETE FROM listings WHERE id = ?`, id)
	return err
}

// SetStatus records an admin moderation decision.  Returns sql.ErrNoRows
// when the listing does not exist.
func (r *ListingRepo) SetStatus(ctx context.Context, id uint64, status model.ListingStatus, adminID uint64, notes *string) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE listings SET status=?, admin_notes=?, approved_by=?, approved_at=NOW(), updated_at=NOW() WHERE id=?`,
		string(status), notes, adminID, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// CountByStatus returns the number of listings per moderation state.
func (r *ListingRepo) CountByStatus(ctx context.Context) (map[model.ListingStatus]int64, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT status, COUNT(*) FROM listings GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	counts := make(map[model.ListingStatus]int64)
	for rows.Next() {
		var (
			status string
			n      int64
		)
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[model.ListingStatus(status)] = n
	}
	return counts, rows.Err()
}

func (r *ListingRepo) list(ctx context.Context, query string, args ...interface{}) ([]model.Listing, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Listing, 0)
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *l)
	}
	return out, rows.Err()
}

// scanner covers both sql.Row and sql.Rows.
type scanner interface{ Scan(dest ...interface{}) error }

func scanListing(s scanner) (*model.Listing, error) {
	var (
		l           model.Listing
		description sql.NullString
		imageURL    sql.NullString
		status      string
		adminNotes  sql.NullString
		approvedBy  sql.NullInt64
		approvedAt  sql.NullTime
		phone       sql.NullString
		email       sql.NullString
		website     sql.NullString
		rooms       sql.NullInt64
	)
	err := s.Scan(&l.ID, &l.OwnerID, &l.Name, &description, &l.Location, &l.Address,
		&l.PricePerNightCents, &imageURL, &status, &adminNotes, &approvedBy,
		&approvedAt, &phone, &email, &website, &rooms, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return nil, err
	}
	l.Status = model.ListingStatus(status)
	if description.Valid {
		v := description.String
		l.Description = &v
	}
	if imageURL.Valid {
		v := imageURL.String
		l.ImageURL = &v
	}
	if adminNotes.Valid {
		v := adminNotes.String
		l.AdminNotes = &v
	}
	if approvedBy.Valid {
		v := uint64(approvedBy.Int64)
		l.ApprovedBy = &v
	}
	if approvedAt.Valid {
		v := approvedAt.Time
		l.ApprovedAt = &v
	}
	if phone.Valid {
		v := phone.String
		l.Phone = &v
	}
	if email.Valid {
		v := email.String
		l.Email = &v
	}
	if website.Valid {
		v := website.String
		l.Website = &v
	}
	if rooms.Valid {
		v := int(rooms.Int64)
		l.RoomsAvailable = &v
	}
	return &l, nil
}
