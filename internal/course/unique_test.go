package course

import (
	"errors"
	"fmt"
	"testing"
)

func sharedControlCourses(n int) []Course {
	pos := Position{Lat: 51.505, Lng: -0.105}
	var courses []Course
	for i := 0; i < n; i++ {
		courses = append(courses, Course{
			ID:    fmt.Sprintf("course-%d", i),
			Name:  fmt.Sprintf("Course %d", i),
			Color: "#c800c8",
			Start: Position{Lat: 51.50, Lng: -0.10},
			Controls: []Control{
				{ID: fmt.Sprintf("ctrl-%d", i), Code: "101", Number: i + 1, Position: pos},
			},
			Finish: Position{Lat: 51.51, Lng: -0.11},
		})
	}
	return courses
}

func TestExtractUniqueControlsShared(t *testing.T) {
	for _, n := range []int{1, 2, 5} {
		uniques := ExtractUniqueControls(sharedControlCourses(n))
		if len(uniques) != 1 {
			t.Fatalf("n=%d: expected 1 unique control, got %d", n, len(uniques))
		}
		u := uniques[0]
		if len(u.Courses) != n || len(u.ControlIDs) != n {
			t.Fatalf("n=%d: expected %d courses and ids, got %d/%d", n, n, len(u.Courses), len(u.ControlIDs))
		}
		for i, ref := range u.Courses {
			if ref.CourseID != fmt.Sprintf("course-%d", i) || ref.ControlNumber != i+1 {
				t.Fatalf("unexpected course ref %+v", ref)
			}
		}
	}
}

func TestExtractUniqueControlsSplitsOnCodeOrPosition(t *testing.T) {
	pos := Position{Lat: 51.505, Lng: -0.105}
	courses := []Course{
		{ID: "a", Controls: []Control{
			{ID: "a1", Code: "101", Number: 1, Position: pos},
			{ID: "a2", Code: "102", Number: 2, Position: pos},
		}},
		{ID: "b", Controls: []Control{
			{ID: "b1", Code: "101", Number: 1, Position: Position{Lat: 51.505, Lng: -0.1050001}},
			{ID: "b2", Code: "102", Number: 2, Position: pos},
		}},
	}
	uniques := ExtractUniqueControls(courses)
	if len(uniques) != 3 {
		t.Fatalf("expected 3 unique controls, got %d", len(uniques))
	}
	wantOrder := []string{"101", "102", "101"}
	for i, u := range uniques {
		if u.Code != wantOrder[i] {
			t.Fatalf("unexpected order at %d: %s", i, u.Code)
		}
	}
	if len(uniques[1].ControlIDs) != 2 {
		t.Fatalf("expected 102 to be shared")
	}

	// every control id appears in exactly one unique control
	seen := map[string]int{}
	for _, u := range uniques {
		for _, id := range u.ControlIDs {
			seen[id]++
		}
	}
	for _, id := range []string{"a1", "a2", "b1", "b2"} {
		if seen[id] != 1 {
			t.Fatalf("control %s seen %d times", id, seen[id])
		}
	}
}

func TestExtractUniqueControlsDeterministic(t *testing.T) {
	courses := sharedControlCourses(3)
	courses[1].Controls = append(courses[1].Controls, Control{ID: "x", Code: "150", Number: 2, Position: Position{Lat: 51.52, Lng: -0.12}})
	first := ExtractUniqueControls(courses)
	for i := 0; i < 20; i++ {
		again := ExtractUniqueControls(courses)
		if fmt.Sprint(first) != fmt.Sprint(again) {
			t.Fatalf("non-deterministic output")
		}
	}
}

func TestExtractUniqueStartsFinishes(t *testing.T) {
	courses := sharedControlCourses(3)
	courses[2].Start = Position{Lat: 51.49, Lng: -0.09}

	starts := ExtractUniqueStarts(courses)
	if len(starts) != 2 {
		t.Fatalf("expected 2 starts, got %d", len(starts))
	}
	if len(starts[0].CourseNames) != 2 || starts[1].CourseNames[0] != "Course 2" {
		t.Fatalf("unexpected start grouping %+v", starts)
	}

	finishes := ExtractUniqueFinishes(courses)
	if len(finishes) != 1 || len(finishes[0].CourseNames) != 3 {
		t.Fatalf("unexpected finish grouping %+v", finishes)
	}
}

func TestHasAnyControl(t *testing.T) {
	u := UniqueControl{ControlIDs: []string{"a", "b"}}
	if u.HasAnyControl(nil) {
		t.Fatalf("nil predicate must be false")
	}
	if !u.HasAnyControl(func(id string) bool { return id == "b" }) {
		t.Fatalf("expected visited")
	}
}

func TestVisibleControls(t *testing.T) {
	courses := sharedControlCourses(2)
	courses[0].Visible = true
	got := VisibleControls(courses)
	if len(got) != 1 || got[0].ID != "ctrl-0" {
		t.Fatalf("unexpected visible controls %+v", got)
	}
}

func TestCoordinateSystemCheck(t *testing.T) {
	if err := (CoordinateSystem{}).Check(); err != nil {
		t.Fatalf("empty kind should be geographic: %v", err)
	}
	if err := (CoordinateSystem{Kind: CRSGeographic}).Check(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, cs := range []CoordinateSystem{
		{Kind: CRSProjected},
		{Kind: CRSProjected, Definition: "+proj=utm +zone=30"},
	} {
		if err := cs.Check(); !errors.Is(err, ErrUnsupportedProjection) {
			t.Fatalf("expected unsupported projection for %+v", cs)
		}
	}
}

func TestDetectKind(t *testing.T) {
	courses := sharedControlCourses(1)
	if DetectKind(courses) != CRSGeographic {
		t.Fatalf("expected geographic")
	}
	courses[0].Controls[0].Position = Position{Lat: 5712345, Lng: 612345}
	if DetectKind(courses) != CRSProjected {
		t.Fatalf("expected projected")
	}
}
