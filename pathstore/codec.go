package pathstore

import (
	"encoding/json"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	pp "github.com/npillmayer/pathpioneer"
	"github.com/peterstace/simplefeatures/geom"
	"gorm.io/datatypes"
)

type quatJSON [4]float64 // w, x, y, z

type lineJSON struct {
	Position [3]float64 `json:"position"`
	Rotation quatJSON   `json:"rotation"`
}

func toQuatJSON(q pp.Quat) quatJSON {
	return quatJSON{q.W, q.V.X(), q.V.Y(), q.V.Z()}
}

func (qj quatJSON) quat() pp.Quat {
	return mgl64.Quat{W: qj[0], V: pp.Vec3{qj[1], qj[2], qj[3]}}
}

func encodeLine(t *pp.Transform) (datatypes.JSON, error) {
	if t == nil {
		return datatypes.JSON("null"), nil
	}
	b, err := json.Marshal(lineJSON{Position: t.Position, Rotation: toQuatJSON(t.Rotation)})
	return datatypes.JSON(b), err
}

func decodeLine(data datatypes.JSON) (*pp.Transform, error) {
	var lj *lineJSON
	if err := json.Unmarshal(data, &lj); err != nil {
		return nil, err
	}
	if lj == nil {
		return nil, nil
	}
	t := pp.NewTransform(lj.Position, lj.Rotation.quat())
	return &t, nil
}

// lineString encodes points as WKT. Fewer than 2 points yield the empty
// string.
func lineString(points []pp.Vec3) string {
	if len(points) < 2 {
		return ""
	}
	flat := make([]float64, 0, 3*len(points))
	for _, p := range points {
		flat = append(flat, p.X(), p.Y(), p.Z())
	}
	return geom.NewLineString(geom.NewSequence(flat, geom.DimXYZ)).AsText()
}

func points(wkt string) ([]pp.Vec3, error) {
	if wkt == "" {
		return nil, nil
	}
	g, err := geom.UnmarshalWKT(wkt)
	if err != nil {
		return nil, err
	}
	ls, ok := g.AsLineString()
	if !ok {
		return nil, fmt.Errorf("expected LINESTRING, have %s", g.Type())
	}
	seq := ls.Coordinates()
	pts := make([]pp.Vec3, seq.Length())
	for i := range pts {
		c := seq.Get(i)
		pts[i] = pp.Vec3{c.X, c.Y, c.Z}
	}
	return pts, nil
}

func encode(name string, path pp.PathData) (Record, error) {
	rec := Record{
		Name:       name,
		IsLoop:     path.IsLoop,
		Length:     path.Length(),
		Samples:    lineString(pp.Positions(path.SplinePoints)),
		PathPoints: lineString(path.PathPoints),
	}
	var err error
	if rec.Start, err = encodeLine(&path.Start); err != nil {
		return rec, err
	}
	if rec.Finish, err = encodeLine(path.Finish); err != nil {
		return rec, err
	}
	rots := make([]quatJSON, len(path.SplinePoints))
	for i, sp := range path.SplinePoints {
		rots[i] = toQuatJSON(sp.Rotation)
	}
	b, err := json.Marshal(rots)
	if err != nil {
		return rec, err
	}
	rec.Rotations = datatypes.JSON(b)
	return rec, nil
}

func decode(rec Record) (pp.PathData, error) {
	path := pp.PathData{IsLoop: rec.IsLoop}
	corrupt := func(what string, err error) (pp.PathData, error) {
		return pp.PathData{}, fmt.Errorf("%w: #%d %s: %v", ErrCorrupt, rec.ID, what, err)
	}
	start, err := decodeLine(rec.Start)
	if err != nil || start == nil {
		return corrupt("start line", err)
	}
	path.Start = *start
	if path.Finish, err = decodeLine(rec.Finish); err != nil {
		return corrupt("finish line", err)
	}
	positions, err := points(rec.Samples)
	if err != nil {
		return corrupt("samples", err)
	}
	var rots []quatJSON
	if err := json.Unmarshal(rec.Rotations, &rots); err != nil {
		return corrupt("rotations", err)
	}
	if len(rots) != len(positions) {
		return corrupt("rotations", fmt.Errorf("%d rotations for %d samples", len(rots), len(positions)))
	}
	path.SplinePoints = make([]pp.SplinePoint, len(positions))
	for i, p := range positions {
		path.SplinePoints[i] = pp.SplinePoint{Position: p, Rotation: rots[i].quat()}
	}
	if path.PathPoints, err = points(rec.PathPoints); err != nil {
		return corrupt("path points", err)
	}
	return path, nil
}
