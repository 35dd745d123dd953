package repository

import (
	"context"
	"errors"
	"time"

	"github.com/diagnosis/dalmatia-stays/services/stays/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type AccommodationRepository interface {
	Create(ctx context.Context, a *domain.Accommodation) (*domain.Accommodation, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Accommodation, error)
	List(ctx context.Context) ([]domain.Accommodation, error)
	ListByHost(ctx context.Context, hostID uuid.UUID) ([]domain.Accommodation, error)
	Update(ctx context.Context, a *domain.Accommodation) (*domain.Accommodation, error)
	Delete(ctx context.Context, id, hostID uuid.UUID) (bool, error)
}

type accommodationRepository struct {
	pool *pgxpool.Pool
}

func NewAccommodationRepository(pool *pgxpool.Pool) AccommodationRepository {
	return &accommodationRepository{pool: pool}
}

// Prices travel as cents so no float ever touches them.
const accommodationCols = `a.id, a.host_id, a.name, a.location, a.description,
a.vacation_type::text, ROUND(a.price_per_night*100)::bigint, a.image_url,
a.created_at, a.updated_at`

func scanAccommodation(row pgx.Row, extra ...any) (*domain.Accommodation, error) {
	var a domain.Accommodation
	dest := []any{
		&a.ID, &a.HostID, &a.Name, &a.Location, &a.Description,
		&a.VacationType, &a.PricePerNight, &a.ImageURL,
		&a.CreatedAt, &a.UpdatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *accommodationRepository) Create(ctx context.Context, a *domain.Accommodation) (*domain.Accommodation, error) {
	const q = `INSERT INTO accommodations AS a (
		host_id, name, location, description, vacation_type, price_per_night, image_url
	) VALUES ($1,$2,$3,$4,$5::vacation_type,$6::numeric/100,$7)
	RETURNING ` + accommodationCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return scanAccommodation(r.pool.QueryRow(ctx, q,
		a.HostID, a.Name, a.Location, a.Description,
		string(a.VacationType), a.PricePerNight.Cents(), a.ImageURL,
	))
}

// GetByID includes the host's public profile.
func (r *accommodationRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Accommodation, error) {
	const q = `SELECT ` + accommodationCols + `, u.id, u.full_name, u.email
	FROM accommodations a JOIN users u ON u.id = a.host_id
	WHERE a.id=$1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var host domain.Party
	a, err := scanAccommodation(r.pool.QueryRow(ctx, q, id), &host.ID, &host.FullName, &host.Email)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	a.Host = &host
	return a, nil
}

func (r *accommodationRepository) List(ctx context.Context) ([]domain.Accommodation, error) {
	const q = `SELECT ` + accommodationCols + ` FROM accommodations a ORDER BY a.created_at DESC`
	return r.list(ctx, q)
}

func (r *accommodationRepository) ListByHost(ctx context.Context, hostID uuid.UUID) ([]domain.Accommodation, error) {
	const q = `SELECT ` + accommodationCols + ` FROM accommodations a WHERE a.host_id=$1 ORDER BY a.created_at DESC`
	return r.list(ctx, q, hostID)
}

func (r *accommodationRepository) list(ctx context.Context, q string, args ...any) ([]domain.Accommodation, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Accommodation
	for rows.Next() {
		a, err := scanAccommodation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

func (r *accommodationRepository) Update(ctx context.Context, a *domain.Accommodation) (*domain.Accommodation, error) {
	const q = `UPDATE accommodations AS a SET
		name=$3, location=$4, description=$5, vacation_type=$6::vacation_type,
		price_per_night=$7::numeric/100, image_url=$8, updated_at=now()
	WHERE a.id=$1 AND a.host_id=$2
	RETURNING ` + accommodationCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	out, err := scanAccommodation(r.pool.QueryRow(ctx, q,
		a.ID, a.HostID, a.Name, a.Location, a.Description,
		string(a.VacationType), a.PricePerNight.Cents(), a.ImageURL,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return out, err
}

// Delete removes the listing; its bookings go with it through the foreign key.
func (r *accommodationRepository) Delete(ctx context.Context, id, hostID uuid.UUID) (bool, error) {
	const q = `DELETE FROM accommodations WHERE id=$1 AND host_id=$2`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	tag, err := r.pool.Exec(ctx, q, id, hostID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
