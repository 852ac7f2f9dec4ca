package physics

import "iter"

// Window is a run of link indices starting at Start, Size entries long,
// wrapping modulo the link count.
type Window struct {
	Start int
	Size  int
	count int
}

// At returns the k-th link index of the window.
func (w Window) At(k int) int {
	return (w.Start + k) % w.count
}

// All yields the link indices of the window in processing order. A window
// larger than the link count visits some links more than once.
func (w Window) All() iter.Seq[int] {
	return func(yield func(int) bool) {
		for k := 0; k < w.Size; k++ {
			if !yield(w.At(k)) {
				return
			}
		}
	}
}

// End returns the index following the last entry of the window.
func (w Window) End() int {
	if w.count == 0 {
		return w.Start
	}
	return (w.Start + w.Size) % w.count
}

// Scheduler is a round-robin cursor over a fixed-size index space. Each call
// to Next hands out the following window and rotates the cursor past it, so
// that ceil(count/size) consecutive windows cover every index.
type Scheduler struct {
	cursor int
}

// Cursor returns the starting index of the next window.
func (s *Scheduler) Cursor() int {
	return s.cursor
}

// Reset moves the cursor back to the first index.
func (s *Scheduler) Reset() {
	s.cursor = 0
}

// Seek places the cursor at i. Values outside the index space are wrapped
// on the next call to Next.
func (s *Scheduler) Seek(i int) {
	if i < 0 {
		i = 0
	}
	s.cursor = i
}

// Next returns the window of size entries starting at the cursor and
// advances the cursor past it. With count == 0 the window is empty and the
// cursor is left alone.
func (s *Scheduler) Next(count, size int) Window {
	if count <= 0 {
		return Window{Start: s.cursor}
	}
	if size < 0 {
		size = 0
	}
	w := Window{Start: s.cursor % count, Size: size, count: count}
	s.cursor = w.End()
	return w
}
