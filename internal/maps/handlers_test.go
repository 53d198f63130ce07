package maps

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

func putJSON(t *testing.T, app *fiber.App, path string, body any) *http.Response {
	t.Helper()
	raw, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPut, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request error: %v", err)
	}
	return resp
}

func TestPutMapWithWorldFileText(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(`INSERT INTO base_maps`).
		WithArgs("event-1", "https://maps.example/oxford.jpg", 2000, 1500,
			0.000025, 0.0, 0.0, -0.000016, -1.2600125, 51.759992, "official-1").
		WillReturnRows(pgxmock.NewRows([]string{"updated_at"}).AddRow(time.Now()))

	app := fiber.New()
	RegisterRoutes(app.Group("/maps"), NewService(mock), passThrough)

	resp := putJSON(t, app, "/maps/event-1", map[string]any{
		"image_url":       "https://maps.example/oxford.jpg",
		"width":           2000,
		"height":          1500,
		"world_file_text": oxfordWorldFile,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var saved BaseMap
	if err := json.NewDecoder(resp.Body).Decode(&saved); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if saved.EventID != "event-1" || len(saved.Corners) != 4 {
		t.Fatalf("unexpected response %+v", saved)
	}
}

func TestPutMapRejectsBadInput(t *testing.T) {
	app := fiber.New()
	RegisterRoutes(app.Group("/maps"), NewService(nil), passThrough)

	for _, body := range []map[string]any{
		{"width": 10, "height": 10, "world_file_text": oxfordWorldFile},
		{"image_url": "u", "width": 10, "height": 10, "world_file_text": "1\n2"},
		{"image_url": "u", "width": 10, "height": 10},
	} {
		if resp := putJSON(t, app, "/maps/event-1", body); resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("expected 400 for %v, got %d", body, resp.StatusCode)
		}
	}
}

func TestGetMapHandler(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(`SELECT event_id, image_url`).WithArgs("missing").WillReturnError(pgx.ErrNoRows)
	mock.ExpectQuery(`SELECT event_id, image_url`).WithArgs("broken").WillReturnError(errSave)

	app := fiber.New()
	RegisterRoutes(app.Group("/maps"), NewService(mock), passThrough)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/maps/missing", nil))
	if err != nil || resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404: %v", err)
	}
	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/maps/broken", nil))
	if err != nil || resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected 500: %v", err)
	}
}
