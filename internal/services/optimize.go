package services

import (
	"fleet-route-service/internal/domain"
	"slices"
)

// priorityTier ranks High first, then Normal, then everything else (Low and Critical alike).
func priorityTier(p domain.StopPriority) int {
	switch p {
	case domain.StopPriorityHigh:
		return 0
	case domain.StopPriorityNormal:
		return 1
	default:
		return 2
	}
}

// OrderByPriority stable-sorts stops by priority tier, breaking ties by current
// StopOrder, then renumbers StopOrder from 1. Stops are modified in place and the
// new order is returned. Running it twice yields the same order.
func OrderByPriority(stops []*domain.RouteStop) []*domain.RouteStop {
	out := slices.Clone(stops)
	slices.SortStableFunc(out, func(a, b *domain.RouteStop) int {
		if ta, tb := priorityTier(a.Priority), priorityTier(b.Priority); ta != tb {
			return ta - tb
		}
		return a.StopOrder - b.StopOrder
	})

	for i, s := range out {
		s.StopOrder = i + 1
	}
	return out
}
