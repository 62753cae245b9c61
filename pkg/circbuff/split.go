package circbuff

// extent is a half-open range [lo, hi) of physical storage indices.
type extent struct {
	lo, hi int
}

func (e extent) len() int { return e.hi - e.lo }

// split maps n logical bytes beginning at physical index start onto storage of
// the given capacity. The window wraps at most once, so it is covered by at
// most two contiguous extents; second is empty unless the window wraps.
//
//	no wrap:  |----[start=====start+n)------|
//	wrap:     |==second)-------[start=======|  (first runs to capacity)
//
// The caller guarantees 0 <= start < capacity and 0 <= n <= capacity.
func split(capacity, start, n int) (first, second extent) {
	if n == 0 {
		return extent{start, start}, extent{}
	}
	end := start + n
	if end <= capacity {
		return extent{start, end}, extent{}
	}
	return extent{start, capacity}, extent{0, end - capacity}
}

// wrap maps a logical offset from position onto a physical index.
func wrap(capacity, position, off int) int {
	if capacity == 0 {
		return 0
	}
	return (position + off) % capacity
}
