package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/diagnosis/dalmatia-stays/services/stays/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type BookingOrder int

const (
	OrderByCreated BookingOrder = iota
	OrderByCheckIn
)

func (o BookingOrder) clause() string {
	if o == OrderByCheckIn {
		return ` ORDER BY b.check_in DESC, b.created_at DESC`
	}
	return ` ORDER BY b.created_at DESC`
}

type BookingRepository interface {
	Create(ctx context.Context, b *domain.Booking) (*domain.Booking, error)
	ListByGuest(ctx context.Context, guestID uuid.UUID, order BookingOrder) ([]domain.Booking, error)
	ListByAccommodations(ctx context.Context, ids []uuid.UUID, order BookingOrder) ([]domain.Booking, error)
}

type bookingRepository struct {
	pool *pgxpool.Pool
}

func NewBookingRepository(pool *pgxpool.Pool) BookingRepository {
	return &bookingRepository{pool: pool}
}

const bookingCols = `b.id, b.accommodation_id, b.guest_id, b.check_in, b.check_out,
ROUND(b.total_price*100)::bigint, b.status::text, b.created_at`

// Create stores a priced booking. Overlap with existing stays is not checked.
func (r *bookingRepository) Create(ctx context.Context, b *domain.Booking) (*domain.Booking, error) {
	const q = `INSERT INTO bookings AS b (
		id, accommodation_id, guest_id, check_in, check_out, total_price, status, created_at
	) VALUES ($1,$2,$3,$4,$5,$6::numeric/100,$7::booking_status,$8)
	RETURNING ` + bookingCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	out := domain.Booking{Nights: b.Nights}
	var status string
	err := r.pool.QueryRow(ctx, q,
		b.ID, b.AccommodationID, b.GuestID, b.CheckIn, b.CheckOut,
		b.TotalPrice.Cents(), string(b.Status), b.CreatedAt,
	).Scan(
		&out.ID, &out.AccommodationID, &out.GuestID, &out.CheckIn, &out.CheckOut,
		&out.TotalPrice, &status, &out.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if out.Status, err = parseStatus(status); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListByGuest attaches each booking's accommodation.
func (r *bookingRepository) ListByGuest(ctx context.Context, guestID uuid.UUID, order BookingOrder) ([]domain.Booking, error) {
	q := `SELECT ` + bookingCols + `, ` + accommodationCols + `
	FROM bookings b JOIN accommodations a ON a.id = b.accommodation_id
	WHERE b.guest_id=$1` + order.clause()

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, q, guestID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Booking
	for rows.Next() {
		var b domain.Booking
		var a domain.Accommodation
		var status string
		if err := rows.Scan(
			&b.ID, &b.AccommodationID, &b.GuestID, &b.CheckIn, &b.CheckOut,
			&b.TotalPrice, &status, &b.CreatedAt,
			&a.ID, &a.HostID, &a.Name, &a.Location, &a.Description,
			&a.VacationType, &a.PricePerNight, &a.ImageURL,
			&a.CreatedAt, &a.UpdatedAt,
		); err != nil {
			return nil, err
		}
		if b.Status, err = parseStatus(status); err != nil {
			return nil, err
		}
		b.Nights = domain.Nights(b.CheckIn, b.CheckOut)
		b.Accommodation = &a
		out = append(out, b)
	}
	return out, rows.Err()
}

// ListByAccommodations attaches the accommodation and the guest's public
// profile, for host dashboards.
func (r *bookingRepository) ListByAccommodations(ctx context.Context, ids []uuid.UUID, order BookingOrder) ([]domain.Booking, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	q := `SELECT ` + bookingCols + `, ` + accommodationCols + `, u.id, u.full_name, u.email
	FROM bookings b
	JOIN accommodations a ON a.id = b.accommodation_id
	JOIN users u ON u.id = b.guest_id
	WHERE b.accommodation_id = ANY($1)` + order.clause()

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, q, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Booking
	for rows.Next() {
		var b domain.Booking
		var a domain.Accommodation
		var status string
		var g domain.Party
		if err := rows.Scan(
			&b.ID, &b.AccommodationID, &b.GuestID, &b.CheckIn, &b.CheckOut,
			&b.TotalPrice, &status, &b.CreatedAt,
			&a.ID, &a.HostID, &a.Name, &a.Location, &a.Description,
			&a.VacationType, &a.PricePerNight, &a.ImageURL,
			&a.CreatedAt, &a.UpdatedAt,
			&g.ID, &g.FullName, &g.Email,
		); err != nil {
			return nil, err
		}
		if b.Status, err = parseStatus(status); err != nil {
			return nil, err
		}
		b.Nights = domain.Nights(b.CheckIn, b.CheckOut)
		b.Accommodation = &a
		b.Guest = &g
		out = append(out, b)
	}
	return out, rows.Err()
}

func parseStatus(s string) (domain.BookingStatus, error) {
	st, ok := domain.ParseBookingStatus(s)
	if !ok {
		return "", fmt.Errorf("unknown booking status %q", s)
	}
	return st, nil
}
