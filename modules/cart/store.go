package cart

import (
	"sync"
)

// Line is one reserved product entry in a user's in-progress purchase. Name
// and Price are captured at add time and do not follow later product edits.
type Line struct {
	Number    int     `json:"number"`
	ProductID uint    `json:"product_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Count     int     `json:"count"`
}

// Store keeps each user's in-progress selections between requests. Entries
// live for the process lifetime and are removed on checkout completion or
// account deletion.
type Store interface {
	// Get returns the user's lines in insertion order.
	Get(userID uint) []Line
	// Append adds a line, assigning the next sequence number for that user.
	// Sequence numbers are append-only and never reassigned.
	Append(userID uint, line Line) Line
	// Remove drops the line with the given number. It reports whether a
	// line was removed and returns the removed line.
	Remove(userID uint, number int) (Line, bool)
	// Delete drops the user's cart entirely.
	Delete(userID uint)
}

type userCart struct {
	lines []Line
	next  int
}

// memoryStore is the in-process Store implementation. All access goes
// through one mutex; carts are small and mutations are quick.
type memoryStore struct {
	mu    sync.Mutex
	carts map[uint]*userCart
}

// NewMemoryStore creates an empty in-memory cart store.
func NewMemoryStore() Store {
	return &memoryStore{carts: make(map[uint]*userCart)}
}

func (s *memoryStore) Get(userID uint) []Line {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.carts[userID]
	if !ok {
		return nil
	}
	lines := make([]Line, len(c.lines))
	copy(lines, c.lines)
	return lines
}

func (s *memoryStore) Append(userID uint, line Line) Line {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.carts[userID]
	if !ok {
		c = &userCart{}
		s.carts[userID] = c
	}
	line.Number = c.next
	c.next++
	c.lines = append(c.lines, line)
	return line
}

func (s *memoryStore) Remove(userID uint, number int) (Line, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.carts[userID]
	if !ok {
		return Line{}, false
	}
	for i, line := range c.lines {
		if line.Number == number {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			if len(c.lines) == 0 {
				delete(s.carts, userID)
			}
			return line, true
		}
	}
	return Line{}, false
}

func (s *memoryStore) Delete(userID uint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, userID)
}
