package shared

// Position is a tile coordinate on a map grid.
type Position struct {
	X int32 `json:"x"`
	Y int32 `json:"y"`
}

// Direction is a cardinal facing.
type Direction string

const (
	DirectionNorth Direction = "north"
	DirectionEast  Direction = "east"
	DirectionSouth Direction = "south"
	DirectionWest  Direction = "west"
)

// TurnLeft rotates the facing counter-clockwise.
func (d Direction) TurnLeft() Direction {
	switch d {
	case DirectionNorth:
		return DirectionWest
	case DirectionWest:
		return DirectionSouth
	case DirectionSouth:
		return DirectionEast
	default:
		return DirectionNorth
	}
}

// TurnRight rotates the facing clockwise.
func (d Direction) TurnRight() Direction {
	switch d {
	case DirectionNorth:
		return DirectionEast
	case DirectionEast:
		return DirectionSouth
	case DirectionSouth:
		return DirectionWest
	default:
		return DirectionNorth
	}
}

// Opposite returns the reverse facing.
func (d Direction) Opposite() Direction {
	return d.TurnLeft().TurnLeft()
}

// Delta returns the tile offset one step forward.
func (d Direction) Delta() (dx, dy int32) {
	switch d {
	case DirectionNorth:
		return 0, -1
	case DirectionEast:
		return 1, 0
	case DirectionSouth:
		return 0, 1
	default:
		return -1, 0
	}
}

// WithinRadius reports whether other is at most radius tiles away,
// measured in squared euclidean distance.
func (p Position) WithinRadius(other Position, radius uint32) bool {
	dx := int64(p.X) - int64(other.X)
	dy := int64(p.Y) - int64(other.Y)
	return dx*dx+dy*dy <= int64(radius)*int64(radius)
}

// Step returns the position one tile forward in the facing.
func (p Position) Step(d Direction) Position {
	dx, dy := d.Delta()
	return Position{X: p.X + dx, Y: p.Y + dy}
}
