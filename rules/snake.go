package rules

import "math"

// Snake is the chain of body segments, head first. The body always holds at
// least one point.
type Snake struct {
	body   []Point
	target int
	radius float64
}

// NewSnake returns a one segment snake at head. radius is the size of every
// body piece in pixels.
func NewSnake(head Point, radius float64) *Snake {
	return &Snake{
		body:   []Point{head},
		target: 1,
		radius: radius,
	}
}

// AdvanceHead moves the head step pixels along heading. The new head is
// prepended and the tail is trimmed back to the target length, so segments
// added by GrowBy show up one per advance.
func (s *Snake) AdvanceHead(heading, step float64) {
	head := s.body[0].Add(step*math.Cos(heading), step*math.Sin(heading))

	s.body = append(s.body, Point{})
	copy(s.body[1:], s.body[:len(s.body)-1])
	s.body[0] = head

	if len(s.body) > s.target {
		s.body = s.body[:s.target]
	}
}

// Head returns the first point in the body.
func (s *Snake) Head() Point { return s.body[0] }

// Body returns a copy of the body, head first.
func (s *Snake) Body() []Point {
	body := make([]Point, len(s.body))
	copy(body, s.body)
	return body
}

// Len is the number of stored segments.
func (s *Snake) Len() int { return len(s.body) }

// TargetLength is the length the body grows towards.
func (s *Snake) TargetLength() int { return s.target }

// Radius of a body piece in pixels.
func (s *Snake) Radius() float64 { return s.radius }

// GrowBy raises the target length by n segments. The target never shrinks.
func (s *Snake) GrowBy(n int) {
	if n <= 0 {
		return
	}
	s.target += n
}

// neckLength is the path length behind the head where segments are ignored by
// self collision. Pieces that close along the trail always overlap the head.
func (s *Snake) neckLength() float64 { return 2 * s.radius }

// CollidesWithSelf reports whether the head overlaps a body segment that is
// not part of its neck.
func (s *Snake) CollidesWithSelf() bool {
	head := s.body[0]
	trail := 0.0
	for i := 1; i < len(s.body); i++ {
		trail += Distance(s.body[i-1], s.body[i])
		if i == 1 || trail <= s.neckLength() {
			continue
		}
		if Distance(head, s.body[i]) <= s.radius {
			return true
		}
	}
	return false
}

// CollidesWithPoint reports whether the head touches a disk of radius around p.
func (s *Snake) CollidesWithPoint(p Point, radius float64) bool {
	return Distance(s.body[0], p) <= s.radius+radius
}
