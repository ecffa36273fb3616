package routeresolver

import (
	"strings"

	"github.com/mofussil/mofussil/pkg/rbdf"
	"golang.org/x/exp/slices"
)

// Rank sorts results into the deterministic presentation order: match
// kind, then departure time, then total duration, then transfer count
// (reserved for multi-leg support), then trip identifier as the final
// stable tie-break.
func Rank(results []*rbdf.SearchResult) {
	slices.SortStableFunc(results, compareResults)
}

func compareResults(a *rbdf.SearchResult, b *rbdf.SearchResult) int {
	if priority := a.Kind.RankPriority() - b.Kind.RankPriority(); priority != 0 {
		return priority
	}

	if !a.DepartureTime.Equal(b.DepartureTime) {
		if a.DepartureTime.Before(b.DepartureTime) {
			return -1
		}
		return 1
	}

	if a.Duration != b.Duration {
		if a.Duration < b.Duration {
			return -1
		}
		return 1
	}

	if a.Transfers != b.Transfers {
		return a.Transfers - b.Transfers
	}

	return strings.Compare(a.TripIdentifier(), b.TripIdentifier())
}
