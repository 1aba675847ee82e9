// Package alumni serves the public directory views over the users table:
// listing, filtered search, and the aggregates behind the dashboard and
// city map.
package alumni

import (
	"context"

	"github.com/jmoiron/sqlx"

	alumnirepo "github.com/mezunhub/alumni-core/internal/alumni/repo"
	"github.com/mezunhub/alumni-core/internal/user/entity"
)

// Stats is the directory aggregate served to the dashboard and map views.
type Stats struct {
	Total      int                        `json:"total"`
	BySector   []alumnirepo.SectorCount   `json:"by_sector"`
	ByLocation []alumnirepo.LocationCount `json:"by_location"`
}

type Service struct {
	repo *alumnirepo.AlumniRepo
}

func NewService(db *sqlx.DB, r *alumnirepo.AlumniRepo) *Service {
	if r == nil {
		r = alumnirepo.NewAlumniRepo(db)
	}
	return &Service{repo: r}
}

func clampPage(limit, offset int) (int, int) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// List returns a page of the public directory.
func (s *Service) List(ctx context.Context, limit, offset int) ([]entity.PublicProfile, error) {
	limit, offset = clampPage(limit, offset)
	return s.repo.List(ctx, limit, offset)
}

// Search filters the directory by free text, sector, and location.
func (s *Service) Search(ctx context.Context, f alumnirepo.SearchFilter) ([]entity.PublicProfile, error) {
	f.Limit, f.Offset = clampPage(f.Limit, f.Offset)
	return s.repo.Search(ctx, f)
}

// Stats computes the directory aggregates.
func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	total, err := s.repo.CountActive(ctx)
	if err != nil {
		return nil, err
	}
	bySector, err := s.repo.CountBySector(ctx)
	if err != nil {
		return nil, err
	}
	byLocation, err := s.repo.CountByLocation(ctx)
	if err != nil {
		return nil, err
	}
	return &Stats{Total: total, BySector: bySector, ByLocation: byLocation}, nil
}
