package occupancy

import "pos/internal/domains/order/model"

// ReleasePolicy decides whether a table can go back to available given the statuses of its orders.
type ReleasePolicy interface {
	ShouldRelease(statuses []string) bool
}

type settledPolicy struct{}

func NewReleasePolicy() ReleasePolicy {
	return settledPolicy{}
}

// ShouldRelease requires at least one order and every order settled. A cancelled order
// counts as unsettled, so such a table is released by hand.
func (settledPolicy) ShouldRelease(statuses []string) bool {
	if len(statuses) == 0 {
		return false
	}

	for _, status := range statuses {
		if !model.IsSettled(status) {
			return false
		}
	}

	return true
}
