// Package hexgrid provides the axial-coordinate system for the 3x3
// overworld board: territory generation, neighbor lookup, identifier
// round-tripping, and pixel projection for flat-top hexes.
package hexgrid

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"endofline-server/internal/game"
)

// Axial is an axial (q, r) hex coordinate.
type Axial struct {
	Q int // column
	R int // row
}

// Pixel is a 2D position produced by projecting an axial coordinate.
type Pixel struct {
	X float64
	Y float64
}

// Six axial direction vectors: E, NE, NW, W, SW, SE.
var directions = [6]Axial{
	{Q: 1, R: 0},
	{Q: 1, R: -1},
	{Q: 0, R: -1},
	{Q: -1, R: 0},
	{Q: -1, R: 1},
	{Q: 0, R: 1},
}

// GridCoords returns the nine coordinates of the 3x3 board in row order.
func GridCoords() []Axial {
	coords := make([]Axial, 0, 9)
	for r := 0; r < 3; r++ {
		for q := 0; q < 3; q++ {
			coords = append(coords, Axial{Q: q, R: r})
		}
	}
	return coords
}

// CoordToID encodes an axial coordinate as a stable territory identifier.
func CoordToID(coord Axial) string {
	return fmt.Sprintf("hex-%d-%d", coord.Q, coord.R)
}

// IDToCoord parses a territory identifier back to its coordinate.
// Malformed identifiers return ok=false; negative coordinates (used for
// out-of-grid neighbor checks) parse fine.
func IDToCoord(id string) (Axial, bool) {
	rest, found := strings.CutPrefix(id, "hex-")
	if !found {
		return Axial{}, false
	}
	// Split on the last delimiter so "hex--1--2" still parses: the q part
	// is everything up to the dash that precedes the final integer.
	q, rest, ok := cutInt(rest)
	if !ok {
		return Axial{}, false
	}
	r, rest, ok := cutInt(rest)
	if !ok || rest != "" {
		return Axial{}, false
	}
	return Axial{Q: q, R: r}, true
}

// cutInt reads one signed integer off the front of s, consuming the
// trailing "-" separator if one follows.
func cutInt(s string) (int, string, bool) {
	i := 0
	if i < len(s) && s[i] == '-' {
		i++
	}
	start := i
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == start {
		return 0, "", false
	}
	n, err := strconv.Atoi(s[:i])
	if err != nil {
		return 0, "", false
	}
	rest := s[i:]
	rest, _ = strings.CutPrefix(rest, "-")
	return n, rest, true
}

// Neighbors returns the subset of the six theoretical neighbors that fall
// inside the 3x3 grid. The square board cut out of axial space is lopsided
// on purpose: the (0,0) and (2,2) corners have 2 neighbors, the other two
// corners 3, edges 4, and the center all 6.
func Neighbors(coord Axial) []Axial {
	var neighbors []Axial
	for _, dir := range directions {
		n := Axial{Q: coord.Q + dir.Q, R: coord.R + dir.R}
		if n.Q >= 0 && n.Q < 3 && n.R >= 0 && n.R < 3 {
			neighbors = append(neighbors, n)
		}
	}
	return neighbors
}

// NeighborIDs returns neighbor identifiers for a territory id. An
// unparseable id yields no neighbors.
func NeighborIDs(territoryID string) []string {
	coord, ok := IDToCoord(territoryID)
	if !ok {
		return nil
	}
	neighbors := Neighbors(coord)
	ids := make([]string, len(neighbors))
	for i, n := range neighbors {
		ids[i] = CoordToID(n)
	}
	return ids
}

// AxialToPixel projects an axial coordinate to a pixel position for a
// flat-top hex layout with the given hex size and origin offset.
func AxialToPixel(coord Axial, hexSize, offsetX, offsetY float64) Pixel {
	x := hexSize*1.5*float64(coord.Q) + offsetX
	y := hexSize*math.Sqrt(3)*(float64(coord.R)+float64(coord.Q)/2) + offsetY
	return Pixel{X: x, Y: y}
}

// PixelToAxial inverts AxialToPixel, snapping to the nearest hex.
func PixelToAxial(pos Pixel, hexSize, offsetX, offsetY float64) Axial {
	x := pos.X - offsetX
	y := pos.Y - offsetY

	q := (2.0 / 3.0) * x / hexSize
	r := (-1.0/3.0)*x/hexSize + (math.Sqrt(3)/3.0)*y/hexSize

	return axialRound(q, r)
}

// axialRound rounds fractional axial coordinates to the nearest hex. The
// component with the largest rounding error is recomputed from the other
// two so q + r + s stays zero.
func axialRound(q, r float64) Axial {
	s := -q - r

	rq := math.Round(q)
	rr := math.Round(r)
	rs := math.Round(s)

	qDiff := math.Abs(rq - q)
	rDiff := math.Abs(rr - r)
	sDiff := math.Abs(rs - s)

	if qDiff > rDiff && qDiff > sDiff {
		rq = -rr - rs
	} else if rDiff > sDiff {
		rr = -rq - rs
	}

	return Axial{Q: int(rq), R: int(rr)}
}

// territoryType derives the fixed type from board position: the center is
// corporate, the four corners underground, the rest fringe.
func territoryType(coord Axial) game.TerritoryType {
	if coord.Q == 1 && coord.R == 1 {
		return game.TerritoryCorporate
	}
	if (coord.Q == 0 || coord.Q == 2) && (coord.R == 0 || coord.R == 2) {
		return game.TerritoryUnderground
	}
	return game.TerritoryFringe
}

var territoryNames = map[Axial]string{
	{Q: 0, R: 0}: "Sector Alpha",
	{Q: 1, R: 0}: "Northern District",
	{Q: 2, R: 0}: "Sector Beta",
	{Q: 0, R: 1}: "Western Reach",
	{Q: 1, R: 1}: "Central Hub",
	{Q: 2, R: 1}: "Eastern Reach",
	{Q: 0, R: 2}: "Sector Gamma",
	{Q: 1, R: 2}: "Southern District",
	{Q: 2, R: 2}: "Sector Delta",
}

func territoryName(coord Axial) string {
	if name, ok := territoryNames[coord]; ok {
		return name
	}
	return fmt.Sprintf("Hex %d-%d", coord.Q, coord.R)
}

// NewTerritory creates a territory at coord with default attributes.
func NewTerritory(coord Axial) game.Territory {
	neighbors := Neighbors(coord)
	adjacent := make([]string, len(neighbors))
	for i, n := range neighbors {
		adjacent[i] = CoordToID(n)
	}

	return game.Territory{
		ID:                   CoordToID(coord),
		Name:                 territoryName(coord),
		Type:                 territoryType(coord),
		SecurityLevel:        1,
		ResourceValue:        3,
		StabilityIndex:       100,
		CorporateInfluence:   50,
		AdjacentTerritoryIDs: adjacent,
	}
}

// NewGrid builds the full 3x3 board of nine territories.
func NewGrid() []game.Territory {
	coords := GridCoords()
	territories := make([]game.Territory, len(coords))
	for i, coord := range coords {
		territories[i] = NewTerritory(coord)
	}
	return territories
}
