package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/elianismedina/partfinder/internal/core/domain"
	"github.com/elianismedina/partfinder/internal/core/port"
)

var _ port.VehicleRepository = (*VehiclesRepository)(nil)

// A VehiclesRepository is the canonical vehicle store.
// Listing order is newest-created first, which is the order
// every garage downstream relies on.
type VehiclesRepository struct {
	sqldb sqldb
}

func NewVehiclesRepository(sqldb sqldb) VehiclesRepository {
	return VehiclesRepository{sqldb}
}

func (r VehiclesRepository) List(ctx context.Context) ([]domain.Vehicle, error) {
	const op = "VehiclesRepository.List"
	log := slog.With("op", op)

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	query := `
		SELECT id, user_id, make, model, year, mileage, vin,
			created_at, updated_at
		FROM vehicles
		ORDER BY created_at DESC;`

	rows, err := r.sqldb.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to query: %w", op, err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", "err", err)
		}
	}()

	var vs []domain.Vehicle
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to scan: %w", op, err)
		}
		vs = append(vs, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return vs, nil
}

func (r VehiclesRepository) Insert(
	ctx context.Context, d domain.VehicleDraft,
) (domain.Vehicle, error) {
	const op = "VehiclesRepository.Insert"

	if err := ctx.Err(); err != nil {
		return domain.Vehicle{}, fmt.Errorf("%s: %w", op, err)
	}

	query := `
		INSERT INTO vehicles (make, model, year, mileage, vin)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, user_id, make, model, year, mileage, vin,
			created_at, updated_at;`

	row := r.sqldb.QueryRowContext(ctx, query,
		d.Make, d.Model, d.Year, d.Mileage, nullable(d.VIN),
	)
	v, err := scanVehicle(row)
	if err != nil {
		return domain.Vehicle{}, wrapSQLErr(op, err)
	}
	return v, nil
}

func (r VehiclesRepository) Update(
	ctx context.Context, id string, d domain.VehicleDraft,
) error {
	const op = "VehiclesRepository.Update"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	query := `
		UPDATE vehicles
		SET make = $2, model = $3, year = $4, mileage = $5, vin = $6,
			updated_at = now()
		WHERE id = $1;`

	res, err := r.sqldb.ExecContext(ctx, query,
		id, d.Make, d.Model, d.Year, d.Mileage, nullable(d.VIN),
	)
	if err != nil {
		return wrapSQLErr(op, err)
	}
	return requireAffected(op, res)
}

func (r VehiclesRepository) Delete(ctx context.Context, id string) error {
	const op = "VehiclesRepository.Delete"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	res, err := r.sqldb.ExecContext(ctx,
		`DELETE FROM vehicles WHERE id = $1;`, id,
	)
	if err != nil {
		return wrapSQLErr(op, err)
	}
	return requireAffected(op, res)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanVehicle(row rowScanner) (domain.Vehicle, error) {
	var v domain.Vehicle
	var userID, vin sql.NullString
	err := row.Scan(
		&v.ID, &userID, &v.Make, &v.Model, &v.Year, &v.Mileage, &vin,
		&v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		return domain.Vehicle{}, err
	}
	v.UserID = userID.String
	v.VIN = vin.String
	return v, nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func requireAffected(op string, res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, domain.ErrNotFound)
	}
	return nil
}

// wrapSQLErr maps integrity violations to the constraint sentinel so
// handlers can answer 409 instead of a blanket storage failure.
func wrapSQLErr(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && strings.HasPrefix(pgErr.Code, "23") {
		return fmt.Errorf("%s: %w: %s", op, domain.ErrConstraint, pgErr.Message)
	}
	return fmt.Errorf("%s: %w", op, err)
}
