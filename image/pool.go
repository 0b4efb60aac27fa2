package image

import "fmt"

// Pool tracks which pages of an image have already been claimed by some archive's reconstruction, so that no page
// is ever assigned to two archives.
//
// Pool is not safe for concurrent use; the pipeline drives one Pool per image from a single goroutine.
type Pool struct {
	taken []bool
}

// NewPool creates a Pool with all pageCount pages initially available.
func NewPool(pageCount int64) *Pool {
	return &Pool{taken: make([]bool, pageCount)}
}

// Available reports whether page i has not yet been taken.
func (p *Pool) Available(i int64) bool {
	return i >= 0 && i < int64(len(p.taken)) && !p.taken[i]
}

// Take claims page i for the caller. It returns an error if the page was already taken — claiming is one-way and
// exclusive, matching the specification's take-once semantics for pool pages.
func (p *Pool) Take(i int64) error {
	if i < 0 || i >= int64(len(p.taken)) {
		return fmt.Errorf("image: pool page index %d out of range [0, %d)", i, len(p.taken))
	}
	if p.taken[i] {
		return fmt.Errorf("image: pool page %d already taken", i)
	}
	p.taken[i] = true
	return nil
}

// AvailablePages returns the indices of all pages not yet taken, in ascending order.
func (p *Pool) AvailablePages() []int64 {
	var out []int64
	for i, taken := range p.taken {
		if !taken {
			out = append(out, int64(i))
		}
	}
	return out
}

// Len returns the total number of pages tracked by the pool.
func (p *Pool) Len() int64 {
	return int64(len(p.taken))
}
