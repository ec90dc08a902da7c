package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"

	"buchladen-backend/internal/domains/buch/model"
	"buchladen-backend/pkg/database"
)

const buchColumns = `id, version, titel, rating, art, verlag, preis, rabatt,
	lieferbar, datum, isbn, homepage, schlagwoerter, created_at, updated_at`

// PostgresRepository implements Repository on a pgx pool. The unique
// indexes buecher_titel_key and buecher_isbn_key are the authoritative
// duplicate detection; the Exists pre-checks in the service are only a
// fast path.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

var _ Repository = (*PostgresRepository)(nil)

func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

func (r *PostgresRepository) FindByID(ctx context.Context, id string) (*model.Buch, error) {
	query := fmt.Sprintf(`SELECT %s FROM buecher WHERE id = $1`, buchColumns)

	buch, err := scanBuch(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrBuchNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find buch %s: %w", id, err)
	}
	return buch, nil
}

func (r *PostgresRepository) Find(ctx context.Context, criteria model.SearchCriteria) ([]model.Buch, error) {
	where, args := buildWhereClause(criteria)
	query := fmt.Sprintf(`SELECT %s FROM buecher %s ORDER BY titel ASC`, buchColumns, where)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query buecher: %w", err)
	}
	defer rows.Close()

	buecher := []model.Buch{}
	for rows.Next() {
		buch, err := scanBuch(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan buch: %w", err)
		}
		buecher = append(buecher, *buch)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read buecher: %w", err)
	}

	return buecher, nil
}

func (r *PostgresRepository) Exists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM buecher WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check buch %s: %w", id, err)
	}
	return exists, nil
}

func (r *PostgresRepository) TitelExists(ctx context.Context, titel, excludeID string) (bool, error) {
	return r.fieldExists(ctx, "titel", titel, excludeID)
}

func (r *PostgresRepository) IsbnExists(ctx context.Context, isbn, excludeID string) (bool, error) {
	return r.fieldExists(ctx, "isbn", isbn, excludeID)
}

func (r *PostgresRepository) fieldExists(ctx context.Context, column, value, excludeID string) (bool, error) {
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM buecher WHERE %s = $1`, column)
	args := []interface{}{value}
	if excludeID != "" {
		query += ` AND id != $2`
		args = append(args, excludeID)
	}
	query += `)`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check %s uniqueness: %w", column, err)
	}
	return exists, nil
}

func (r *PostgresRepository) Create(ctx context.Context, buch *model.Buch) error {
	err := database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		return tx.QueryRow(ctx, `
			INSERT INTO buecher (id, titel, rating, art, verlag, preis, rabatt,
				lieferbar, datum, isbn, homepage, schlagwoerter)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
			RETURNING version, created_at, updated_at`,
			buch.ID, buch.Titel, buch.Rating, nullable(string(buch.Art)), buch.Verlag,
			buch.Preis, buch.Rabatt, buch.Lieferbar, buch.Datum,
			nullable(buch.Isbn), nullable(buch.Homepage), []string(buch.Schlagwoerter),
		).Scan(&buch.Version, &buch.CreatedAt, &buch.UpdatedAt)
	})
	if err != nil {
		return r.mapUniqueViolation(err, buch)
	}
	return nil
}

func (r *PostgresRepository) Update(ctx context.Context, buch *model.Buch, expectedVersion int) error {
	// Conditional write: the version comparison happens inside the
	// statement itself, so two concurrent updates can never both
	// succeed against the same version.
	err := r.pool.QueryRow(ctx, `
		UPDATE buecher
		SET titel = $1, rating = $2, art = $3, verlag = $4, preis = $5,
			rabatt = $6, lieferbar = $7, datum = $8, homepage = $9,
			schlagwoerter = $10, version = version + 1, updated_at = now()
		WHERE id = $11 AND version = $12
		RETURNING version, isbn, created_at, updated_at`,
		buch.Titel, buch.Rating, nullable(string(buch.Art)), buch.Verlag, buch.Preis,
		buch.Rabatt, buch.Lieferbar, buch.Datum, nullable(buch.Homepage),
		[]string(buch.Schlagwoerter), buch.ID, expectedVersion,
	).Scan(&buch.Version, &buch.Isbn, &buch.CreatedAt, &buch.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		exists, existsErr := r.Exists(ctx, buch.ID)
		if existsErr != nil {
			return existsErr
		}
		if !exists {
			return model.ErrBuchNotFound
		}
		return &model.VersionOutdatedError{ID: buch.ID, Version: expectedVersion}
	}
	if err != nil {
		return r.mapUniqueViolation(err, buch)
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM buecher WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete buch %s: %w", id, err)
	}
	return tag.RowsAffected() > 0, nil
}

// mapUniqueViolation turns a unique-index violation into the domain's
// duplicate error; everything else is wrapped as a generic failure.
func (r *PostgresRepository) mapUniqueViolation(err error, buch *model.Buch) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		switch pgErr.ConstraintName {
		case "buecher_titel_key":
			return &model.TitelExistsError{Titel: buch.Titel}
		case "buecher_isbn_key":
			return &model.IsbnExistsError{Isbn: buch.Isbn}
		}
	}
	return fmt.Errorf("failed to persist buch: %w", err)
}

func buildWhereClause(criteria model.SearchCriteria) (string, []interface{}) {
	var conditions []string
	var args []interface{}

	add := func(format string, arg interface{}) {
		args = append(args, arg)
		conditions = append(conditions, fmt.Sprintf(format, len(args)))
	}

	if criteria.Titel != "" && len(criteria.Titel) < model.MaxTitelFilterLen {
		add(`titel ILIKE '%%' || $%d || '%%'`, criteria.Titel)
	}
	if criteria.Art != "" {
		add(`art = $%d`, criteria.Art)
	}
	if criteria.Verlag != "" {
		add(`verlag = $%d`, criteria.Verlag)
	}
	if criteria.Rating != nil {
		add(`rating = $%d`, *criteria.Rating)
	}
	if criteria.Lieferbar != nil {
		add(`lieferbar = $%d`, *criteria.Lieferbar)
	}
	if criteria.Isbn != "" {
		add(`isbn = $%d`, criteria.Isbn)
	}
	if len(criteria.Schlagwoerter) > 0 {
		add(`schlagwoerter @> $%d`, pq.Array(criteria.Schlagwoerter))
	}

	if len(conditions) == 0 {
		return "", nil
	}
	return "WHERE " + strings.Join(conditions, " AND "), args
}

func scanBuch(row pgx.Row) (*model.Buch, error) {
	var b model.Buch
	var art, isbn, homepage *string
	var schlagwoerter []string

	err := row.Scan(
		&b.ID, &b.Version, &b.Titel, &b.Rating, &art, &b.Verlag, &b.Preis,
		&b.Rabatt, &b.Lieferbar, &b.Datum, &isbn, &homepage,
		&schlagwoerter, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	b.Schlagwoerter = schlagwoerter
	if art != nil {
		b.Art = model.BuchArt(*art)
	}
	if isbn != nil {
		b.Isbn = *isbn
	}
	if homepage != nil {
		b.Homepage = *homepage
	}
	return &b, nil
}

// nullable maps the empty string to NULL so optional text columns do
// not collide on the unique isbn index.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
