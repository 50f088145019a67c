package utils

import (
	"encoding/binary"
	"errors"

	"github.com/twpayne/go-geom"
	gjson "github.com/twpayne/go-geom/encoding/geojson"
	"github.com/twpayne/go-geom/encoding/wkb"
)

var ErrNotLineString = errors.New("route path must be a GeoJSON LineString")

// ParseRoutePath decodes a GeoJSON LineString and returns it as little-endian WKB.
// An empty input yields nil.
func ParseRoutePath(raw string) ([]byte, error) {
	if raw == "" {
		return nil, nil
	}
	var g geom.T
	if err := gjson.Unmarshal([]byte(raw), &g); err != nil {
		return nil, err
	}
	line, ok := g.(*geom.LineString)
	if !ok {
		return nil, ErrNotLineString
	}
	if line.NumCoords() < 2 {
		return nil, errors.New("route path needs at least two points")
	}
	return wkb.Marshal(line, binary.LittleEndian)
}

// RoutePathGeoJSON converts stored WKB back to a GeoJSON string.
func RoutePathGeoJSON(wkbBytes []byte) (string, error) {
	if len(wkbBytes) == 0 {
		return "", nil
	}
	g, err := wkb.Unmarshal(wkbBytes)
	if err != nil {
		return "", err
	}
	b, err := gjson.Marshal(g)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
