// Package polyline implements Google's encoded polyline algorithm, the
// format routing engines use for leg geometries.
// See https://developers.google.com/maps/documentation/utilities/polylinealgorithm
package polyline

import "math"

// precision is the standard 5 decimal place factor used by OTP and Google.
const precision = 1e5

// Coordinate is a geographic point.
type Coordinate struct {
	Lat float64
	Lon float64
}

// Decode expands an encoded polyline into its coordinates. Returns nil
// for an empty string. Truncated input yields the points decoded so far.
func Decode(encoded string) []Coordinate {
	if encoded == "" {
		return nil
	}

	coords := make([]Coordinate, 0, len(encoded)/4)
	var lat, lon, pos int

	for pos < len(encoded) {
		dLat, next := decodeDelta(encoded, pos)
		lat += dLat

		dLon, next := decodeDelta(encoded, next)
		lon += dLon
		pos = next

		coords = append(coords, Coordinate{
			Lat: float64(lat) / precision,
			Lon: float64(lon) / precision,
		})
	}

	return coords
}

// decodeDelta reads one zigzag-encoded delta starting at pos and returns
// it together with the position of the next value.
func decodeDelta(encoded string, pos int) (int, int) {
	var result, shift int

	for pos < len(encoded) {
		chunk := int(encoded[pos]) - 63
		pos++
		result |= (chunk & 0x1f) << shift
		shift += 5
		if chunk < 0x20 {
			break
		}
	}

	if result&1 != 0 {
		return ^(result >> 1), pos
	}
	return result >> 1, pos
}

// Encode produces the encoded polyline for a set of coordinates.
func Encode(coords []Coordinate) string {
	if len(coords) == 0 {
		return ""
	}

	buf := make([]byte, 0, len(coords)*4)
	var prevLat, prevLon int

	for _, c := range coords {
		lat := int(math.Round(c.Lat * precision))
		lon := int(math.Round(c.Lon * precision))

		buf = encodeDelta(buf, lat-prevLat)
		buf = encodeDelta(buf, lon-prevLon)

		prevLat, prevLon = lat, lon
	}

	return string(buf)
}

func encodeDelta(buf []byte, value int) []byte {
	if value < 0 {
		value = ^(value << 1)
	} else {
		value <<= 1
	}

	for value >= 0x20 {
		buf = append(buf, byte((value&0x1f)|0x20)+63)
		value >>= 5
	}
	return append(buf, byte(value)+63)
}
