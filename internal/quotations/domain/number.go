package domain

import (
	"fmt"
	"time"
)

// FormatNumber builds a quotation number of the form COT-YYYYMM-NNNN.
// The sequence restarts every calendar year and the month reflects the
// creation date, so numbers issued in different months of the same year
// share one running sequence.
func FormatNumber(createdAt time.Time, sequence int) string {
	return fmt.Sprintf("COT-%04d%02d-%04d", createdAt.Year(), int(createdAt.Month()), sequence)
}
