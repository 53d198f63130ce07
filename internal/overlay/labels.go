package overlay

import (
	"math"
	"strconv"
	"unicode/utf8"

	"backend-courseview/internal/course"
	"backend-courseview/internal/shared/geo"

	"github.com/dhconnelly/rtreego"
)

// labelCandidateOffsets are tried in this order relative to the preferred
// bearing; the first one without a conflict wins.
var labelCandidateOffsets = [...]float64{0, 180, 90, -90, 45, -45, 135, -135}

const (
	labelPointSize = 1e-9
	// labelCharWidth is the advance of one digit as a fraction of font size.
	labelCharWidth = 0.6
)

type placedLabel struct {
	pos geo.Position
}

func (p *placedLabel) Bounds() rtreego.Rect {
	rect, _ := rtreego.NewRect(rtreego.Point{p.pos.Lng, p.pos.Lat}, []float64{labelPointSize, labelPointSize})
	return rect
}

// LabelPlacer positions control numbers for one course so they avoid each
// other and the start and finish symbols. Placement depends only on the
// order of Place calls.
type LabelPlacer struct {
	start  geo.Position
	finish geo.Position
	style  Style
	placed *rtreego.Rtree
}

func NewLabelPlacer(start, finish geo.Position, style Style) *LabelPlacer {
	return &LabelPlacer{
		start:  start,
		finish: finish,
		style:  style,
		placed: rtreego.NewTree(2, 25, 50),
	}
}

// LabelOffsetM is the distance from a control centre at which a label box of
// the given text fits fully outside the circle, measured along its diagonal.
func LabelOffsetM(text string, style Style) float64 {
	height := style.FontSize
	width := labelCharWidth * style.FontSize * float64(utf8.RuneCountInString(text))
	halfDiagonalPx := math.Hypot(width/2, height/2)
	return ControlRadiusM + LabelMarginM + halfDiagonalPx*style.MetersPerPx
}

// PreferredLabelBearing picks the side of a control with more open space.
// With both neighbours it reflects the mean of the incoming and outgoing legs
// away from the turn, or points opposite the shared leg on a U-turn; with one
// neighbour it sits square to that leg.
func PreferredLabelBearing(prev *geo.Position, cur geo.Position, next *geo.Position) float64 {
	switch {
	case prev != nil && next != nil:
		in := geo.Bearing(*prev, cur)
		out := geo.Bearing(cur, *next)
		turn := geo.NormalizeBearing(out - in)
		if math.Abs(turn-180) < 1e-9 {
			return geo.NormalizeBearing(out + 180)
		}
		mean := geo.AverageBearing(in, out)
		if turn < 180 {
			return geo.NormalizeBearing(mean - 90)
		}
		return geo.NormalizeBearing(mean + 90)
	case next != nil:
		return geo.NormalizeBearing(geo.Bearing(cur, *next) + 90)
	case prev != nil:
		return geo.NormalizeBearing(geo.Bearing(*prev, cur) + 90)
	default:
		return DefaultLabelBearing
	}
}

// Place returns the anchor for a label at cur and records it so later labels
// avoid it. When every candidate conflicts the preferred position is used.
func (lp *LabelPlacer) Place(prev *geo.Position, cur geo.Position, next *geo.Position, text string) geo.Position {
	preferred := PreferredLabelBearing(prev, cur, next)
	offset := LabelOffsetM(text, lp.style)

	chosen := geo.Offset(cur, preferred, offset)
	for _, delta := range labelCandidateOffsets {
		candidate := geo.Offset(cur, geo.NormalizeBearing(preferred+delta), offset)
		if lp.fits(candidate) {
			chosen = candidate
			break
		}
	}
	lp.placed.Insert(&placedLabel{pos: chosen})
	return chosen
}

func (lp *LabelPlacer) fits(candidate geo.Position) bool {
	if geo.DistanceMeters(candidate, lp.finish) < FinishOuterRadiusM+LabelMarginM {
		return false
	}
	if geo.DistanceMeters(candidate, lp.start) < StartRadiusM+LabelMarginM {
		return false
	}

	dLat := MinLabelSeparationM / geo.MetersPerDegreeLat
	dLng := MinLabelSeparationM / geo.MetersPerDegreeLng(candidate.Lat)
	window, err := rtreego.NewRect(
		rtreego.Point{candidate.Lng - dLng, candidate.Lat - dLat},
		[]float64{2 * dLng, 2 * dLat},
	)
	if err != nil {
		return true
	}
	for _, hit := range lp.placed.SearchIntersect(window) {
		if geo.DistanceMeters(candidate, hit.(*placedLabel).pos) < MinLabelSeparationM {
			return false
		}
	}
	return true
}

// PlaceLabels numbers the controls of one course in running order.
func PlaceLabels(c course.Course, style Style) []Label {
	lp := NewLabelPlacer(c.Start, c.Finish, style)
	labels := make([]Label, 0, len(c.Controls))
	for i, ctrl := range c.Controls {
		var prev, next *geo.Position
		if i > 0 {
			p := c.Controls[i-1].Position
			prev = &p
		}
		if i+1 < len(c.Controls) {
			n := c.Controls[i+1].Position
			next = &n
		}
		text := strconv.Itoa(ctrl.Number)
		labels = append(labels, Label{
			Anchor:    lp.Place(prev, ctrl.Position, next, text),
			Text:      text,
			FontSize:  style.FontSize,
			ControlID: ctrl.ID,
		})
	}
	return labels
}
