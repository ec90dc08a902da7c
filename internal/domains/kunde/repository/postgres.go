package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"buchladen-backend/internal/domains/kunde/model"
	"buchladen-backend/pkg/database"
)

const kundeColumns = `id, version, nachname, vorname, geschlecht, kundenart, email,
	strasse, hausnummer, plz, ort, aktiv, registrierungsdatum, zusatzinfo,
	created_at, updated_at`

// PostgresRepository implements Repository on a pgx pool. The unique
// indexes kunden_nachname_key and kunden_strasse_key are the
// authoritative duplicate detection; the Exists pre-checks in the
// service are only a fast path.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

var _ Repository = (*PostgresRepository)(nil)

func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

func (r *PostgresRepository) FindByID(ctx context.Context, id string) (*model.Kunde, error) {
	query := fmt.Sprintf(`SELECT %s FROM kunden WHERE id = $1`, kundeColumns)

	kunde, err := scanKunde(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrKundeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find kunde %s: %w", id, err)
	}
	return kunde, nil
}

func (r *PostgresRepository) Find(ctx context.Context, criteria model.SearchCriteria) ([]model.Kunde, error) {
	where, args := buildWhereClause(criteria)
	query := fmt.Sprintf(`SELECT %s FROM kunden %s ORDER BY nachname ASC`, kundeColumns, where)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query kunden: %w", err)
	}
	defer rows.Close()

	kunden := []model.Kunde{}
	for rows.Next() {
		kunde, err := scanKunde(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan kunde: %w", err)
		}
		kunden = append(kunden, *kunde)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read kunden: %w", err)
	}

	return kunden, nil
}

func (r *PostgresRepository) Exists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM kunden WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check kunde %s: %w", id, err)
	}
	return exists, nil
}

func (r *PostgresRepository) NachnameExists(ctx context.Context, nachname, excludeID string) (bool, error) {
	return r.fieldExists(ctx, "nachname", nachname, excludeID)
}

func (r *PostgresRepository) StrasseExists(ctx context.Context, strasse, excludeID string) (bool, error) {
	return r.fieldExists(ctx, "strasse", strasse, excludeID)
}

func (r *PostgresRepository) fieldExists(ctx context.Context, column, value, excludeID string) (bool, error) {
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM kunden WHERE %s = $1`, column)
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

func (r *PostgresRepository) Create(ctx context.Context, kunde *model.Kunde) error {
	err := database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		return tx.QueryRow(ctx, `
			INSERT INTO kunden (id, nachname, vorname, geschlecht, kundenart, email,
				strasse, hausnummer, plz, ort, aktiv, registrierungsdatum, zusatzinfo)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
			RETURNING version, created_at, updated_at`,
			kunde.ID, kunde.Nachname, kunde.Vorname,
			nullable(string(kunde.Geschlecht)), nullable(string(kunde.Kundenart)),
			nullable(kunde.Email), kunde.Strasse, nullable(kunde.Hausnummer),
			nullable(kunde.Plz), nullable(kunde.Ort), kunde.Aktiv,
			kunde.Registrierungsdatum, nullable(kunde.Zusatzinfo),
		).Scan(&kunde.Version, &kunde.CreatedAt, &kunde.UpdatedAt)
	})
	if err != nil {
		return r.mapUniqueViolation(err, kunde)
	}
	return nil
}

func (r *PostgresRepository) Update(ctx context.Context, kunde *model.Kunde, expectedVersion int) error {
	// Conditional write: the version comparison happens inside the
	// statement itself. Strasse is immutable and not part of the SET
	// list.
	err := r.pool.QueryRow(ctx, `
		UPDATE kunden
		SET nachname = $1, vorname = $2, geschlecht = $3, kundenart = $4,
			email = $5, hausnummer = $6, plz = $7, ort = $8, aktiv = $9,
			registrierungsdatum = $10, zusatzinfo = $11,
			version = version + 1, updated_at = now()
		WHERE id = $12 AND version = $13
		RETURNING version, strasse, created_at, updated_at`,
		kunde.Nachname, kunde.Vorname,
		nullable(string(kunde.Geschlecht)), nullable(string(kunde.Kundenart)),
		nullable(kunde.Email), nullable(kunde.Hausnummer), nullable(kunde.Plz),
		nullable(kunde.Ort), kunde.Aktiv, kunde.Registrierungsdatum,
		nullable(kunde.Zusatzinfo), kunde.ID, expectedVersion,
	).Scan(&kunde.Version, &kunde.Strasse, &kunde.CreatedAt, &kunde.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		exists, existsErr := r.Exists(ctx, kunde.ID)
		if existsErr != nil {
			return existsErr
		}
		if !exists {
			return model.ErrKundeNotFound
		}
		return &model.VersionOutdatedError{ID: kunde.ID, Version: expectedVersion}
	}
	if err != nil {
		return r.mapUniqueViolation(err, kunde)
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM kunden WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete kunde %s: %w", id, err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *PostgresRepository) mapUniqueViolation(err error, kunde *model.Kunde) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		switch pgErr.ConstraintName {
		case "kunden_nachname_key":
			return &model.NachnameExistsError{Nachname: kunde.Nachname}
		case "kunden_strasse_key":
			return &model.StrasseExistsError{Strasse: kunde.Strasse}
		}
	}
	return fmt.Errorf("failed to persist kunde: %w", err)
}

func buildWhereClause(criteria model.SearchCriteria) (string, []interface{}) {
	var conditions []string
	var args []interface{}

	add := func(format string, arg interface{}) {
		args = append(args, arg)
		conditions = append(conditions, fmt.Sprintf(format, len(args)))
	}

	if criteria.Vorname != "" && len(criteria.Vorname) < model.MaxVornameFilterLen {
		add(`vorname ILIKE '%%' || $%d || '%%'`, criteria.Vorname)
	}
	if criteria.Nachname != "" {
		add(`nachname = $%d`, criteria.Nachname)
	}
	if criteria.Geschlecht != "" {
		add(`geschlecht = $%d`, criteria.Geschlecht)
	}
	if criteria.Kundenart != "" {
		add(`kundenart = $%d`, criteria.Kundenart)
	}
	if criteria.Plz != "" {
		add(`plz = $%d`, criteria.Plz)
	}
	if criteria.Aktiv != nil {
		add(`aktiv = $%d`, *criteria.Aktiv)
	}

	if len(conditions) == 0 {
		return "", nil
	}
	return "WHERE " + strings.Join(conditions, " AND "), args
}

func scanKunde(row pgx.Row) (*model.Kunde, error) {
	var k model.Kunde
	var geschlecht, kundenart, email, hausnummer, plz, ort, zusatzinfo *string

	err := row.Scan(
		&k.ID, &k.Version, &k.Nachname, &k.Vorname, &geschlecht, &kundenart,
		&email, &k.Strasse, &hausnummer, &plz, &ort, &k.Aktiv,
		&k.Registrierungsdatum, &zusatzinfo, &k.CreatedAt, &k.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if geschlecht != nil {
		k.Geschlecht = model.Geschlecht(*geschlecht)
	}
	if kundenart != nil {
		k.Kundenart = model.Kundenart(*kundenart)
	}
	k.Email = deref(email)
	k.Hausnummer = deref(hausnummer)
	k.Plz = deref(plz)
	k.Ort = deref(ort)
	k.Zusatzinfo = deref(zusatzinfo)
	return &k, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// nullable maps the empty string to NULL so optional text columns do
// not collide on unique indexes.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
