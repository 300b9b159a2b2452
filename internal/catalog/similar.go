// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog

import "github.com/taibuivan/autoluxe/pkg/slice"

// similarPriceBand is the relative price distance under which two listings are similar.
const similarPriceBand = 0.3

/*
Similar returns up to limit listings related to v, in catalog order.

Description: A candidate qualifies when it shares the brand, OR shares the
body type, OR its price is within 30% of v's price. v itself is excluded.

Parameters:
  - vehicles: []Vehicle (The whole catalog)
  - v: Vehicle (The listing being viewed)
  - limit: int

Returns:
  - []Vehicle
*/
func Similar(vehicles []Vehicle, v Vehicle, limit int) []Vehicle {
	brand := fold(v.Brand)
	bodyType := fold(v.BodyType)
	band := float64(v.Price) * similarPriceBand

	candidates := slice.Filter(vehicles, func(candidate Vehicle) bool {
		if candidate.ID == v.ID {
			return false
		}

		delta := float64(candidate.Price - v.Price)
		if delta < 0 {
			delta = -delta
		}

		return fold(candidate.Brand) == brand ||
			fold(candidate.BodyType) == bodyType ||
			delta < band
	})

	return slice.Take(candidates, limit)
}
