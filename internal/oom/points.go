package oom

// pointsTable maps finishing positions 1..10 to Order-of-Merit points.
var pointsTable = [...]int{25, 18, 15, 12, 10, 8, 6, 4, 2, 1}

// PointsForPosition returns the Order-of-Merit points awarded for a finishing position.
// Positions outside 1..10 earn nothing.
func PointsForPosition(position int) int {
	if position < 1 || position > len(pointsTable) {
		return 0
	}
	return pointsTable[position-1]
}
