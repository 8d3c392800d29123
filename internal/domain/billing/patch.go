package billing

// Field is one sequence of a RoomPatch. A set field replaces the stored
// sequence wholesale; an unset field leaves it untouched.
type Field[T any] struct {
	value T
	set   bool
}

// Replace returns a field that replaces the stored sequence with v
func Replace[T any](v T) Field[T] {
	return Field[T]{value: v, set: true}
}

// Unchanged returns a field that keeps the stored sequence
func Unchanged[T any]() Field[T] {
	return Field[T]{}
}

// Get returns the replacement value and whether one was given
func (f Field[T]) Get() (T, bool) {
	return f.value, f.set
}

// IsSet reports whether the field replaces the stored sequence
func (f Field[T]) IsSet() bool {
	return f.set
}

// RoomPatch is a partial write to one room slot. Numeric sequences carry the
// raw text the caller submitted so they can be checked before anything is
// applied. An empty rate entry means the rate is absent for that line.
type RoomPatch struct {
	Items      Field[[]string]
	Prices     Field[[]string]
	Quantities Field[[]string]
	TaxRates   Field[[]string]
	CGSTRates  Field[[]string]
	SGSTRates  Field[[]string]
	HSNCodes   Field[[]string]
	Remarks    Field[[]string]
}

// Empty reports whether the patch changes nothing
func (p RoomPatch) Empty() bool {
	return !p.Items.IsSet() && !p.Prices.IsSet() && !p.Quantities.IsSet() &&
		!p.TaxRates.IsSet() && !p.CGSTRates.IsSet() && !p.SGSTRates.IsSet() &&
		!p.HSNCodes.IsSet() && !p.Remarks.IsSet()
}
