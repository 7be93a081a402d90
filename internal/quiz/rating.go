package quiz

import (
	"fmt"
	"time"
)

// Thresholds bound the average time per question for a perfect quiz.
// A perfect run averaging under FiveStar earns 5 stars, up to and including
// FourStar earns 4, slower earns 3. The defaults are tuned for three questions.
type Thresholds struct {
	FiveStar time.Duration
	FourStar time.Duration
}

func DefaultThresholds() Thresholds {
	return Thresholds{FiveStar: 3 * time.Second, FourStar: 5 * time.Second}
}

func (t Thresholds) Validate() error {
	if t.FiveStar <= 0 || t.FourStar < t.FiveStar {
		return fmt.Errorf("%w: star thresholds %s/%s", ErrInvalidConfig, t.FiveStar, t.FourStar)
	}
	return nil
}

// Rate turns a quiz result into 1-5 stars. Speed only matters when every
// answer was correct; one miss is 2 stars, anything worse is 1.
func Rate(correct, total int, elapsed time.Duration, t Thresholds) int {
	if total <= 0 {
		return 1
	}
	// compare totals rather than a truncated average
	n := time.Duration(total)

	switch {
	case correct == total && elapsed < t.FiveStar*n:
		return 5
	case correct == total && elapsed <= t.FourStar*n:
		return 4
	case correct == total:
		return 3
	case correct == total-1:
		return 2
	default:
		return 1
	}
}
