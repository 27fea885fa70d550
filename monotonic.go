package logarray

// MonotonicArray wraps a PackedArray known to hold a non-decreasing
// sequence, adding O(log n) search by value on top of PackedArray's O(1)
// indexed access.
type MonotonicArray struct {
	arr PackedArray
}

// NewMonotonicArray wraps arr without checking that it is actually
// non-decreasing. Use this when the caller already trusts the source (for
// example, an array this process just built itself); prefer
// NewMonotonicArrayChecked when the data came from somewhere untrusted.
func NewMonotonicArray(arr PackedArray) MonotonicArray {
	return MonotonicArray{arr: arr}
}

// NewMonotonicArrayChecked wraps arr after walking it once to confirm
// every element is >= its predecessor. It returns an error naming the
// first violation instead of panicking, since a malformed input here is a
// data problem, not a programming error.
func NewMonotonicArrayChecked(arr PackedArray) (MonotonicArray, error) {
	it := arr.Iter()
	pred, ok := it.Next()
	for ok {
		var succ uint64
		succ, ok = it.Next()
		if !ok {
			break
		}
		if pred > succ {
			return MonotonicArray{}, &ErrNotMonotonic{Predecessor: pred, Successor: succ}
		}
		pred = succ
	}
	return MonotonicArray{arr: arr}, nil
}

// ParseMonotonic is Parse followed by NewMonotonicArrayChecked.
func ParseMonotonic(buf []byte) (MonotonicArray, error) {
	arr, err := Parse(buf)
	if err != nil {
		return MonotonicArray{}, err
	}
	return NewMonotonicArrayChecked(arr)
}

// ParseHeaderFirstMonotonic is ParseHeaderFirst followed by
// NewMonotonicArrayChecked.
func ParseHeaderFirstMonotonic(buf []byte) (MonotonicArray, []byte, error) {
	arr, rest, err := ParseHeaderFirst(buf)
	if err != nil {
		return MonotonicArray{}, nil, err
	}
	m, err := NewMonotonicArrayChecked(arr)
	if err != nil {
		return MonotonicArray{}, nil, err
	}
	return m, rest, nil
}

func (m MonotonicArray) Len() int        { return m.arr.Len() }
func (m MonotonicArray) IsEmpty() bool   { return m.arr.IsEmpty() }
func (m MonotonicArray) Entry(i int) uint64 { return m.arr.Entry(i) }
func (m MonotonicArray) Iter() *Iterator { return m.arr.Iter() }

// Slice returns a monotonic view of the off..off+n elements of m. Since any
// contiguous run of a non-decreasing sequence is itself non-decreasing,
// this does not need to re-validate.
func (m MonotonicArray) Slice(off, n int) MonotonicArray {
	return MonotonicArray{arr: m.arr.Slice(off, n)}
}

// IndexOf returns the index of element, or false if it isn't present. When
// element appears more than once, the index of its first occurrence is
// returned.
func (m MonotonicArray) IndexOf(element uint64) (int, bool) {
	i := m.NearestIndexOf(element)
	if i >= m.Len() || m.Entry(i) != element {
		return 0, false
	}
	return i, true
}

// NearestIndexOf returns the index of the first element >= element (the
// lower-bound position), which is Len() if element exceeds every element
// in m.
func (m MonotonicArray) NearestIndexOf(element uint64) int {
	if m.IsEmpty() {
		return 0
	}

	min, max := 0, m.Len()-1
	for min <= max {
		mid := (min + max) / 2
		switch {
		case element > m.Entry(mid):
			min = mid + 1
		default:
			if mid == 0 {
				return 0
			}
			max = mid - 1
		}
	}
	return (min+max)/2 + 1
}
