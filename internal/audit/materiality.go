package audit

import (
	"fmt"
	"math"

	"github.com/Veraticus/journal-sift/internal/common"
)

// DefaultMateriality is the reference materiality threshold.
const DefaultMateriality = 170000.0

// Materiality classifies entries by the size of their absolute audit amount.
type Materiality struct {
	Threshold float64
}

// NewMateriality validates a caller supplied threshold.
func NewMateriality(threshold float64) (Materiality, error) {
	if math.IsNaN(threshold) || math.IsInf(threshold, 0) || threshold <= 0 {
		return Materiality{}, fmt.Errorf("%w: materiality must be a positive number, got %v", common.ErrInvalidConfig, threshold)
	}
	return Materiality{Threshold: threshold}, nil
}

// IsMaterial reports whether an absolute amount meets the threshold.
func (m Materiality) IsMaterial(absoluteAmount float64) bool {
	return absoluteAmount >= m.Threshold
}
