package core

import "golang.org/x/exp/constraints"

// Extent is a closed [Min, Max] interval over an ordered type
type Extent[T constraints.Ordered] struct {
	Min   T
	Max   T
	Valid bool // false until at least one value was included
}

// Include widens the extent so it contains v
func (e Extent[T]) Include(v T) Extent[T] {
	if !e.Valid {
		return Extent[T]{Min: v, Max: v, Valid: true}
	}
	if v < e.Min {
		e.Min = v
	}
	if v > e.Max {
		e.Max = v
	}
	return e
}

// Union returns the smallest extent containing both e and other
func (e Extent[T]) Union(other Extent[T]) Extent[T] {
	if !other.Valid {
		return e
	}
	return e.Include(other.Min).Include(other.Max)
}

// Degenerate reports whether the extent is empty or collapsed to one value
func (e Extent[T]) Degenerate() bool {
	return !e.Valid || e.Min == e.Max
}
