package course

type controlKey struct {
	code string
	pos  Position
}

// ExtractUniqueControls groups controls by exact code and position. Output
// order is the order in which each key is first seen, walking courses and
// then controls in input order.
func ExtractUniqueControls(courses []Course) []UniqueControl {
	index := map[controlKey]int{}
	seenIDs := map[string]struct{}{}
	var out []UniqueControl

	for _, c := range courses {
		for _, ctrl := range c.Controls {
			key := controlKey{code: ctrl.Code, pos: ctrl.Position}
			i, ok := index[key]
			if !ok {
				i = len(out)
				index[key] = i
				out = append(out, UniqueControl{Code: ctrl.Code, Position: ctrl.Position})
			}
			u := &out[i]
			if _, dup := seenIDs[ctrl.ID]; !dup {
				seenIDs[ctrl.ID] = struct{}{}
				u.ControlIDs = append(u.ControlIDs, ctrl.ID)
			}
			u.Courses = append(u.Courses, CourseRef{
				CourseID:      c.ID,
				CourseName:    c.Name,
				CourseColor:   c.Color,
				ControlNumber: ctrl.Number,
			})
		}
	}
	return out
}

func ExtractUniqueStarts(courses []Course) []UniqueSite {
	return uniqueSites(courses, func(c Course) Position { return c.Start })
}

func ExtractUniqueFinishes(courses []Course) []UniqueSite {
	return uniqueSites(courses, func(c Course) Position { return c.Finish })
}

func uniqueSites(courses []Course, site func(Course) Position) []UniqueSite {
	index := map[Position]int{}
	var out []UniqueSite
	for _, c := range courses {
		pos := site(c)
		i, ok := index[pos]
		if !ok {
			i = len(out)
			index[pos] = i
			out = append(out, UniqueSite{Position: pos})
		}
		out[i].CourseNames = append(out[i].CourseNames, c.Name)
	}
	return out
}

// HasAnyControl reports whether any id of u satisfies visited.
func (u UniqueControl) HasAnyControl(visited func(string) bool) bool {
	if visited == nil {
		return false
	}
	for _, id := range u.ControlIDs {
		if visited(id) {
			return true
		}
	}
	return false
}
