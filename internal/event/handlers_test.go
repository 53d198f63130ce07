package event

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"backend-courseview/internal/auth"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
)

var passThrough = auth.WithOfficial("official-1")

func TestEventHandlersCreateAndGet(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	now := time.Now()
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO events`).
		WithArgs(pgxmock.AnyArg(), "Spring Cup", "geographic", "", "official-1").
		WillReturnRows(pgxmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))
	mock.ExpectExec(`INSERT INTO courses`).WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec(`INSERT INTO controls`).WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()
	expectEventLoad(mock, "event-1", now)

	app := fiber.New()
	RegisterRoutes(app.Group("/events"), NewService(mock), passThrough, nil)

	body, _ := json.Marshal(springCup())
	req := httptest.NewRequest(http.MethodPost, "/events", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil || resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status: %v %v", err, resp.StatusCode)
	}

	req = httptest.NewRequest(http.MethodGet, "/events/event-1", nil)
	resp, err = app.Test(req)
	if err != nil || resp.StatusCode != http.StatusOK {
		t.Fatalf("get status: %v", err)
	}
	var ev Event
	if err := json.NewDecoder(resp.Body).Decode(&ev); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(ev.Courses) != 2 {
		t.Fatalf("expected courses in response")
	}
}

func TestEventHandlersBadRequest(t *testing.T) {
	app := fiber.New()
	RegisterRoutes(app.Group("/events"), NewService(nil), passThrough, nil)

	for _, body := range []string{"{", `{"name":""}`, `{"name":"x","crs":{"kind":"lambert"}}`} {
		req := httptest.NewRequest(http.MethodPost, "/events", bytes.NewReader([]byte(body)))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)
		if err != nil || resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("expected bad request for %s", body)
		}
	}

	req := httptest.NewRequest(http.MethodPut, "/events/e/courses/c/visibility", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil || resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected bad request for missing visible")
	}
}

func TestEventHandlersNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectQuery(`SELECT id, name, crs_kind`).WithArgs("missing").WillReturnError(pgx.ErrNoRows)
	mock.ExpectExec(`UPDATE courses SET visible`).
		WithArgs("event-1", "nope", true).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	app := fiber.New()
	RegisterRoutes(app.Group("/events"), NewService(mock), passThrough, nil)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/events/missing", nil))
	if err != nil || resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected not found")
	}

	req := httptest.NewRequest(http.MethodPut, "/events/event-1/courses/nope/visibility", bytes.NewReader([]byte(`{"visible":true}`)))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req)
	if err != nil || resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected course not found")
	}
}

func TestEventHandlersListDelete(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	now := time.Now()
	mock.ExpectQuery(`SELECT id, name, crs_kind`).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "crs_kind", "crs_definition", "created_by", "created_at", "updated_at"}).
			AddRow("event-1", "Spring Cup", "geographic", "", "official-1", now, now))
	mock.ExpectExec(`DELETE FROM events`).WithArgs("event-1").WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectQuery(`SELECT id, name, crs_kind`).WillReturnError(errEvent)
	mock.ExpectExec(`DELETE FROM events`).WithArgs("event-2").WillReturnError(errEvent)

	app := fiber.New()
	RegisterRoutes(app.Group("/events"), NewService(mock), passThrough, nil)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/events", nil))
	if err != nil || resp.StatusCode != http.StatusOK {
		t.Fatalf("list status: %v", err)
	}
	resp, err = app.Test(httptest.NewRequest(http.MethodDelete, "/events/event-1", nil))
	if err != nil || resp.StatusCode != http.StatusNoContent {
		t.Fatalf("delete status: %v", err)
	}
	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/events", nil))
	if err != nil || resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected list error")
	}
	resp, err = app.Test(httptest.NewRequest(http.MethodDelete, "/events/event-2", nil))
	if err != nil || resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected delete error")
	}
}

func TestEventHandlersDeleteRunsHook(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectExec(`DELETE FROM events`).WithArgs("event-1").WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectExec(`DELETE FROM events`).WithArgs("ghost").WillReturnResult(pgxmock.NewResult("DELETE", 0))

	var dropped []string
	app := fiber.New()
	RegisterRoutes(app.Group("/events"), NewService(mock), passThrough, func(id string) {
		dropped = append(dropped, id)
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodDelete, "/events/event-1", nil))
	if err != nil || resp.StatusCode != http.StatusNoContent {
		t.Fatalf("delete status: %v", err)
	}
	resp, err = app.Test(httptest.NewRequest(http.MethodDelete, "/events/ghost", nil))
	if err != nil || resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected not found for missing event")
	}
	if len(dropped) != 1 || dropped[0] != "event-1" {
		t.Fatalf("hook should run once for the deleted event, got %v", dropped)
	}
}
