package event

import (
	"context"
	"errors"

	"backend-courseview/internal/course"
	"backend-courseview/internal/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type Service struct {
	db db.Querier
}

func NewService(db db.Querier) *Service {
	return &Service{db: db}
}

// CreateEvent stores an event with its courses and controls in one
// transaction. Controls without a number are numbered by their position in
// the course.
func (s *Service) CreateEvent(ctx context.Context, input Event) (Event, error) {
	input.ID = uuid.NewString()
	if input.CRS.Kind == "" {
		input.CRS.Kind = course.DetectKind(input.Courses)
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return Event{}, err
	}
	if err := insertEvent(ctx, tx, &input); err != nil {
		_ = tx.Rollback(ctx)
		return Event{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return Event{}, err
	}
	return input, nil
}

func insertEvent(ctx context.Context, tx pgx.Tx, ev *Event) error {
	row := tx.QueryRow(ctx, `
		INSERT INTO events (id, name, crs_kind, crs_definition, created_by)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING created_at, updated_at
	`, ev.ID, ev.Name, string(ev.CRS.Kind), ev.CRS.Definition, ev.CreatedBy)
	if err := row.Scan(&ev.CreatedAt, &ev.UpdatedAt); err != nil {
		return err
	}

	for i := range ev.Courses {
		c := &ev.Courses[i]
		c.ID = uuid.NewString()
		_, err := tx.Exec(ctx, `
			INSERT INTO courses (id, event_id, seq, name, color, visible, start_lat, start_lng, finish_lat, finish_lng)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		`, c.ID, ev.ID, i, c.Name, c.Color, c.Visible, c.Start.Lat, c.Start.Lng, c.Finish.Lat, c.Finish.Lng)
		if err != nil {
			return err
		}

		for j := range c.Controls {
			ctrl := &c.Controls[j]
			ctrl.ID = uuid.NewString()
			if ctrl.Number == 0 {
				ctrl.Number = j + 1
			}
			_, err := tx.Exec(ctx, `
				INSERT INTO controls (id, course_id, seq, code, number, lat, lng)
				VALUES ($1,$2,$3,$4,$5,$6,$7)
			`, ctrl.ID, c.ID, j, ctrl.Code, ctrl.Number, ctrl.Position.Lat, ctrl.Position.Lng)
			if err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *Service) GetEvent(ctx context.Context, id string) (Event, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, name, crs_kind, COALESCE(crs_definition,''), created_by, created_at, updated_at
		FROM events WHERE id=$1
	`, id)
	ev, err := scanEvent(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Event{}, ErrNotFound
	}
	if err != nil {
		return Event{}, err
	}

	courses, err := s.courses(ctx, id)
	if err != nil {
		return Event{}, err
	}
	ev.Courses = courses
	return ev, nil
}

func (s *Service) ListEvents(ctx context.Context) ([]Event, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, name, crs_kind, COALESCE(crs_definition,''), created_by, created_at, updated_at
		FROM events
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}

func (s *Service) DeleteEvent(ctx context.Context, id string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM events WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SetCourseVisibility shows or hides a course and bumps the event's
// updated_at so cached overlays are recomputed.
func (s *Service) SetCourseVisibility(ctx context.Context, eventID, courseID string, visible bool) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE courses SET visible=$3
		WHERE id=$2 AND event_id=$1
	`, eventID, courseID, visible)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	_, err = s.db.Exec(ctx, `UPDATE events SET updated_at=now() WHERE id=$1`, eventID)
	return err
}

func (s *Service) courses(ctx context.Context, eventID string) ([]course.Course, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, name, COALESCE(color,''), visible, start_lat, start_lng, finish_lat, finish_lng
		FROM courses WHERE event_id=$1
		ORDER BY seq
	`, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var courses []course.Course
	index := map[string]int{}
	for rows.Next() {
		var c course.Course
		if err := rows.Scan(&c.ID, &c.Name, &c.Color, &c.Visible, &c.Start.Lat, &c.Start.Lng, &c.Finish.Lat, &c.Finish.Lng); err != nil {
			return nil, err
		}
		index[c.ID] = len(courses)
		courses = append(courses, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	ctrlRows, err := s.db.Query(ctx, `
		SELECT ct.id, ct.course_id, ct.code, ct.number, ct.lat, ct.lng
		FROM controls ct
		JOIN courses c ON c.id = ct.course_id
		WHERE c.event_id=$1
		ORDER BY c.seq, ct.seq
	`, eventID)
	if err != nil {
		return nil, err
	}
	defer ctrlRows.Close()

	for ctrlRows.Next() {
		var ctrl course.Control
		var courseID string
		if err := ctrlRows.Scan(&ctrl.ID, &courseID, &ctrl.Code, &ctrl.Number, &ctrl.Position.Lat, &ctrl.Position.Lng); err != nil {
			return nil, err
		}
		i, ok := index[courseID]
		if !ok {
			continue
		}
		courses[i].Controls = append(courses[i].Controls, ctrl)
	}
	return courses, ctrlRows.Err()
}

func scanEvent(row pgx.Row) (Event, error) {
	var ev Event
	var kind string
	if err := row.Scan(&ev.ID, &ev.Name, &kind, &ev.CRS.Definition, &ev.CreatedBy, &ev.CreatedAt, &ev.UpdatedAt); err != nil {
		return Event{}, err
	}
	ev.CRS.Kind = course.CRSKind(kind)
	return ev, nil
}
