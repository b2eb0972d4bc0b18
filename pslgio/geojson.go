package pslgio

import (
	"encoding/json"
	"io"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/pkg/errors"
	"github.com/smasonuk/gotri"
)

// ReadGeoJSON builds a PSLG from a GeoJSON geometry, feature or feature
// collection. The first polygon gives the outline and holes; points and
// multipoints become Steiner points.
func ReadGeoJSON(r io.Reader) (*gotri.PSLG, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "read geojson")
	}

	var probe struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, errors.Wrap(err, "decode geojson")
	}

	var geoms []orb.Geometry
	switch probe.Type {
	case "FeatureCollection":
		fc, err := geojson.UnmarshalFeatureCollection(data)
		if err != nil {
			return nil, errors.Wrap(err, "decode feature collection")
		}
		for _, f := range fc.Features {
			geoms = append(geoms, f.Geometry)
		}
	case "Feature":
		f, err := geojson.UnmarshalFeature(data)
		if err != nil {
			return nil, errors.Wrap(err, "decode feature")
		}
		geoms = append(geoms, f.Geometry)
	default:
		g, err := geojson.UnmarshalGeometry(data)
		if err != nil {
			return nil, errors.Wrap(err, "decode geometry")
		}
		geoms = append(geoms, g.Geometry())
	}

	pslg := &gotri.PSLG{}
	for i, g := range geoms {
		if err := addGeometry(pslg, g); err != nil {
			return nil, errors.Wrapf(err, "geometry %d", i)
		}
	}
	if len(pslg.Outline) == 0 {
		return nil, errors.New("geojson has no polygon")
	}
	return pslg, nil
}

func addGeometry(pslg *gotri.PSLG, g orb.Geometry) error {
	switch g := g.(type) {
	case orb.Polygon:
		return addPolygon(pslg, g)
	case orb.MultiPolygon:
		if len(g) == 0 {
			return nil
		}
		return addPolygon(pslg, g[0])
	case orb.Point:
		pslg.AddSteiner(toVec(g))
	case orb.MultiPoint:
		for _, p := range g {
			pslg.AddSteiner(toVec(p))
		}
	case nil:
		return errors.New("missing geometry")
	default:
		return errors.Errorf("unsupported geometry %s", g.GeoJSONType())
	}
	return nil
}

func addPolygon(pslg *gotri.PSLG, poly orb.Polygon) error {
	if len(pslg.Outline) > 0 {
		return errors.New("more than one polygon")
	}
	if len(poly) == 0 {
		return errors.New("empty polygon")
	}
	pslg.Outline = fromRing(poly[0])
	for _, h := range poly[1:] {
		pslg.AddHole(fromRing(h))
	}
	return nil
}

func fromRing(r orb.Ring) []mgl64.Vec2 {
	if r.Closed() {
		r = r[:len(r)-1]
	}
	out := make([]mgl64.Vec2, len(r))
	for i, p := range r {
		out[i] = toVec(p)
	}
	return out
}

func toVec(p orb.Point) mgl64.Vec2 {
	return mgl64.Vec2{p[0], p[1]}
}

func toPoint(v mgl64.Vec2) orb.Point {
	return orb.Point{v[0], v[1]}
}

// MeshFeatures describes m as a feature collection: one polygon per
// triangle with its smallest angle in degrees, and one line string per
// constrained edge.
func MeshFeatures(m *gotri.Mesh) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, t := range m.Triangles() {
		a, b, c := t.Coords()
		// triangles are stored clockwise, GeoJSON rings run the other way
		ring := orb.Ring{toPoint(a), toPoint(c), toPoint(b), toPoint(a)}
		f := geojson.NewFeature(orb.Polygon{ring})
		f.Properties["id"] = t.ID()
		f.Properties["min_angle"] = t.MinAngle() * 180 / math.Pi
		f.Properties["area"] = t.Area()
		fc.Append(f)
	}
	for _, e := range m.Segments() {
		f := geojson.NewFeature(orb.LineString{toPoint(e.Start().C), toPoint(e.End.C)})
		f.Properties["constrained"] = true
		fc.Append(f)
	}
	return fc
}

func WriteGeoJSON(w io.Writer, m *gotri.Mesh) error {
	data, err := MeshFeatures(m).MarshalJSON()
	if err != nil {
		return errors.Wrap(err, "encode geojson")
	}
	_, err = w.Write(data)
	return errors.Wrap(err, "write geojson")
}
