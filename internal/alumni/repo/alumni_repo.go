// Package repo provides read-only directory queries over the users table.
package repo

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/mezunhub/alumni-core/internal/user/entity"
)

// SectorCount is one row of the by-sector aggregate.
type SectorCount struct {
	Sector string `db:"sector" json:"sector"`
	Count  int    `db:"count" json:"count"`
}

// LocationCount is one row of the by-location aggregate.
type LocationCount struct {
	Location string `db:"location" json:"location"`
	Count    int    `db:"count" json:"count"`
}

// SearchFilter narrows a directory search. Empty fields are ignored.
type SearchFilter struct {
	Query    string
	Sector   string
	Location string
	Limit    int
	Offset   int
}

const publicColumns = `id, first_name, last_name, workplace, location, sector,
	seniority, position, points, streak`

// AlumniRepo runs the directory's read queries.
type AlumniRepo struct {
	db *sqlx.DB
}

func NewAlumniRepo(db *sqlx.DB) *AlumniRepo { return &AlumniRepo{db: db} }

// List returns active alumni profiles, newest first.
func (r *AlumniRepo) List(ctx context.Context, limit, offset int) ([]entity.PublicProfile, error) {
	q := fmt.Sprintf(`SELECT %s FROM users WHERE is_active ORDER BY created_at DESC LIMIT $1 OFFSET $2`, publicColumns)
	profiles := []entity.PublicProfile{}
	if err := r.db.SelectContext(ctx, &profiles, q, limit, offset); err != nil {
		return nil, err
	}
	return profiles, nil
}

// Search filters the directory. The free-text query matches name and
// workplace; sector and location are exact matches. Conditions are built
// from placeholders only.
func (r *AlumniRepo) Search(ctx context.Context, f SearchFilter) ([]entity.PublicProfile, error) {
	conds := []string{"is_active"}
	args := []any{}
	if f.Query != "" {
		args = append(args, "%"+f.Query+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf(
			"(first_name ILIKE $%d OR last_name ILIKE $%d OR workplace ILIKE $%d)", n, n, n))
	}
	if f.Sector != "" {
		args = append(args, f.Sector)
		conds = append(conds, fmt.Sprintf("sector = $%d", len(args)))
	}
	if f.Location != "" {
		args = append(args, f.Location)
		conds = append(conds, fmt.Sprintf("location = $%d", len(args)))
	}
	args = append(args, f.Limit)
	limitPos := len(args)
	args = append(args, f.Offset)

	q := fmt.Sprintf(`SELECT %s FROM users WHERE %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		publicColumns, strings.Join(conds, " AND "), limitPos, limitPos+1)

	profiles := []entity.PublicProfile{}
	if err := r.db.SelectContext(ctx, &profiles, q, args...); err != nil {
		return nil, err
	}
	return profiles, nil
}

// CountActive returns the number of active alumni.
func (r *AlumniRepo) CountActive(ctx context.Context) (int, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM users WHERE is_active`); err != nil {
		return 0, err
	}
	return n, nil
}

// CountBySector aggregates active alumni per sector, descending.
func (r *AlumniRepo) CountBySector(ctx context.Context) ([]SectorCount, error) {
	const q = `SELECT sector, COUNT(*) AS count FROM users
		WHERE is_active AND sector IS NOT NULL
		GROUP BY sector ORDER BY count DESC`
	counts := []SectorCount{}
	if err := r.db.SelectContext(ctx, &counts, q); err != nil {
		return nil, err
	}
	return counts, nil
}

// CountByLocation aggregates active alumni per location, descending.
func (r *AlumniRepo) CountByLocation(ctx context.Context) ([]LocationCount, error) {
	const q = `SELECT location, COUNT(*) AS count FROM users
		WHERE is_active AND location IS NOT NULL
		GROUP BY location ORDER BY count DESC`
	counts := []LocationCount{}
	if err := r.db.SelectContext(ctx, &counts, q); err != nil {
		return nil, err
	}
	return counts, nil
}
