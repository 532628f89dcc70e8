package model

// Expression is a linear form sum(coef_i * var_i) + constant. Its current
// value is cached and maintained incrementally by Model.ApplyAlteration rather
// than recomputed from scratch on every access.
type Expression struct {
	Terms     []Term
	Constant  int64
	cached    int64
	Saturated bool
}

// Value returns the cached current value.
func (e *Expression) Value() int64 {
	return e.cached
}

// Recompute recomputes the cached value from scratch given a value lookup,
// used to validate the incremental-maintenance invariant in tests and to
// seed the cache after construction. Accumulation saturates at
// ±IntHalfMax; Saturated records whether that clamp ever fired.
func (e *Expression) Recompute(valueOf func(VariableID) int64) int64 {
	total := e.Constant
	ok := true
	for _, t := range e.Terms {
		var termOK bool
		total, termOK = SaturatingAdd(total, t.Coef*valueOf(t.Var))
		ok = ok && termOK
	}
	e.cached = total
	e.Saturated = !ok
	return total
}

// ApplyDelta adjusts the cached value by delta without a full recompute,
// saturating at ±IntHalfMax.
func (e *Expression) ApplyDelta(delta int64) {
	sum, ok := SaturatingAdd(e.cached, delta)
	e.cached = sum
	if !ok {
		e.Saturated = true
	}
}
