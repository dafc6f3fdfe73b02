package series

import "fmt"

// EmptySeriesError reports an operation that requires a non-empty input.
type EmptySeriesError struct {
	Op string
}

func (e *EmptySeriesError) Error() string {
	return fmt.Sprintf("%s: series is empty", e.Op)
}

// InconsistentUnitsError reports an attempt to compare series whose heights
// are measured in different units.
type InconsistentUnitsError struct {
	A, B Unit
}

func (e *InconsistentUnitsError) Error() string {
	return fmt.Sprintf("inconsistent units: %s vs %s", e.A, e.B)
}
