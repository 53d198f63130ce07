package maps

import (
	"context"
	"errors"

	"backend-courseview/internal/db"

	"github.com/jackc/pgx/v5"
)

type Service struct {
	db db.Querier
}

func NewService(db db.Querier) *Service {
	return &Service{db: db}
}

// SaveMap stores or replaces the base map of an event.
func (s *Service) SaveMap(ctx context.Context, m BaseMap) (BaseMap, error) {
	wf := m.WorldFile
	row := s.db.QueryRow(ctx, `
		INSERT INTO base_maps (event_id, image_url, width, height, wf_a, wf_d, wf_b, wf_e, wf_c, wf_f, updated_by)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		ON CONFLICT (event_id) DO UPDATE SET
			image_url = EXCLUDED.image_url, width = EXCLUDED.width, height = EXCLUDED.height,
			wf_a = EXCLUDED.wf_a, wf_d = EXCLUDED.wf_d, wf_b = EXCLUDED.wf_b,
			wf_e = EXCLUDED.wf_e, wf_c = EXCLUDED.wf_c, wf_f = EXCLUDED.wf_f,
			updated_by = EXCLUDED.updated_by, updated_at = now()
		RETURNING updated_at
	`, m.EventID, m.ImageURL, m.Width, m.Height, wf.A, wf.D, wf.B, wf.E, wf.C, wf.F, m.UpdatedBy)
	if err := row.Scan(&m.UpdatedAt); err != nil {
		return BaseMap{}, err
	}
	m.Corners = m.ImageCorners()
	return m, nil
}

func (s *Service) GetMap(ctx context.Context, eventID string) (BaseMap, error) {
	row := s.db.QueryRow(ctx, `
		SELECT event_id, image_url, width, height, wf_a, wf_d, wf_b, wf_e, wf_c, wf_f, COALESCE(updated_by, ''), updated_at
		FROM base_maps WHERE event_id = $1
	`, eventID)

	var m BaseMap
	wf := &m.WorldFile
	err := row.Scan(&m.EventID, &m.ImageURL, &m.Width, &m.Height, &wf.A, &wf.D, &wf.B, &wf.E, &wf.C, &wf.F, &m.UpdatedBy, &m.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return BaseMap{}, ErrNotFound
	}
	if err != nil {
		return BaseMap{}, err
	}
	m.Corners = m.ImageCorners()
	return m, nil
}
