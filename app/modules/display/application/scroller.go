package displayservice

import "sync"

// Scroller tracks the ticker offset.
type Scroller struct {
	mu     sync.Mutex
	offset int
	speed  int
}

// NewScroller creates a scroller advancing speed pixels per frame.
func NewScroller(speed int) *Scroller {
	return &Scroller{speed: max(1, speed)}
}

// Next returns the offset for this frame and advances, wrapping at width.
func (s *Scroller) Next(width int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if width <= 0 {
		return 0
	}
	cur := s.offset % width
	s.offset = (cur + s.speed) % width
	return cur
}

// Reset moves back to the start of the strip.
func (s *Scroller) Reset() {
	s.mu.Lock()
	s.offset = 0
	s.mu.Unlock()
}

// SetSpeed changes the pixels advanced per frame.
func (s *Scroller) SetSpeed(speed int) {
	s.mu.Lock()
	s.speed = max(1, speed)
	s.mu.Unlock()
}

// Offset reports the next offset without advancing.
func (s *Scroller) Offset() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.offset
}
