package workflow

import (
	"fmt"

	"github.com/noah-isme/scholarship-approval-api/internal/models"
)

// Chain is the ordered list of levels an artifact kind is approved through.
type Chain []models.Level

var (
	// ReportChain approves monthly reports at every tier.
	ReportChain = Chain{models.LevelCounty, models.LevelRegional, models.LevelState}
	// RegistrationChain stops at the regional tier.
	RegistrationChain = Chain{models.LevelCounty, models.LevelRegional}
	// WorkPlanChain has no county tier.
	WorkPlanChain = Chain{models.LevelRegional, models.LevelState}
)

// Validate checks the chain is non-empty and strictly ascending.
func (c Chain) Validate() error {
	if len(c) == 0 {
		return fmt.Errorf("approval chain is empty")
	}
	for i, l := range c {
		if !l.Valid() {
			return fmt.Errorf("approval chain has unknown level %q", l)
		}
		if i > 0 && !c[i-1].Below(l) {
			return fmt.Errorf("approval chain is not ascending at %q", l)
		}
	}
	return nil
}

// First returns the entry level.
func (c Chain) First() models.Level { return c[0] }

// Last returns the final level.
func (c Chain) Last() models.Level { return c[len(c)-1] }

// Contains reports whether l is part of the chain.
func (c Chain) Contains(l models.Level) bool {
	return c.index(l) >= 0
}

// Next returns the level after l, or false when l is the last level.
func (c Chain) Next(l models.Level) (models.Level, bool) {
	i := c.index(l)
	if i < 0 || i == len(c)-1 {
		return "", false
	}
	return c[i+1], true
}

func (c Chain) index(l models.Level) int {
	for i, candidate := range c {
		if candidate == l {
			return i
		}
	}
	return -1
}
