package query

import "time"

// RouteSearch is the resolveRoutes operation - find every way of
// travelling between two named places on a given date.
type RouteSearch struct {
	OriginPlaceName      string
	DestinationPlaceName string

	TravelDate time.Time
}
