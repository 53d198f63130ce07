package overlay

import (
	"backend-courseview/internal/shared/geo"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

const circleSegments = 48

// EncodeGeoJSON flattens an overlay into a feature collection for web map
// clients. Circles become 48-sided polygons that keep their centre and
// radius as properties.
func EncodeGeoJSON(o Overlay) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	for _, line := range o.Lines {
		f := geojson.NewFeature(lineString(line.Vertices))
		f.Properties["kind"] = "line"
		f.Properties["color"] = line.Color
		f.Properties["stroke_width"] = line.StrokeWidth
		f.Properties["opacity"] = line.Opacity
		fc.Append(f)
	}

	for _, c := range o.Controls {
		f := circleFeature(c.Circle, "control")
		f.Properties["code"] = c.Code
		f.Properties["control_ids"] = c.ControlIDs
		f.Properties["visited"] = c.Visited
		fc.Append(f)
	}

	for _, s := range o.Starts {
		f := geojson.NewFeature(polygon(s.Vertices))
		f.Properties["kind"] = "start"
		f.Properties["color"] = s.Color
		f.Properties["stroke_width"] = s.StrokeWidth
		f.Properties["bearing"] = s.Bearing
		f.Properties["courses"] = s.CourseNames
		fc.Append(f)
	}

	for _, fin := range o.Finishes {
		outer := circleFeature(fin.Outer, "finish_outer")
		outer.Properties["courses"] = fin.CourseNames
		fc.Append(outer)
		fc.Append(circleFeature(fin.Inner, "finish_inner"))
	}

	for _, l := range o.Labels {
		f := geojson.NewFeature(l.Anchor.Point())
		f.Properties["kind"] = "label"
		f.Properties["text"] = l.Text
		f.Properties["font_size"] = l.FontSize
		f.Properties["control_id"] = l.ControlID
		fc.Append(f)
	}
	return fc
}

func circleFeature(c Circle, kind string) *geojson.Feature {
	ring := make(orb.Ring, 0, circleSegments+1)
	for i := 0; i < circleSegments; i++ {
		b := float64(i) * 360 / circleSegments
		ring = append(ring, geo.Offset(c.Center, b, c.RadiusM).Point())
	}
	ring = append(ring, ring[0])

	f := geojson.NewFeature(orb.Polygon{ring})
	f.Properties["kind"] = kind
	f.Properties["color"] = c.Color
	f.Properties["stroke_width"] = c.StrokeWidth
	f.Properties["radius_m"] = c.RadiusM
	f.Properties["center"] = []float64{c.Center.Lng, c.Center.Lat}
	return f
}

func lineString(vertices []geo.Position) orb.LineString {
	ls := make(orb.LineString, 0, len(vertices))
	for _, v := range vertices {
		ls = append(ls, v.Point())
	}
	return ls
}

func polygon(vertices []geo.Position) orb.Polygon {
	ring := make(orb.Ring, 0, len(vertices)+1)
	for _, v := range vertices {
		ring = append(ring, v.Point())
	}
	if len(ring) > 0 {
		ring = append(ring, ring[0])
	}
	return orb.Polygon{ring}
}
