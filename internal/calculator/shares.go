// Package calculator computes per-member monetary shares from item ownership
// and derives settlement ids for the external ledger. All functions are pure
// and safe for concurrent use.
package calculator

import (
	"splitlink/internal/models"
	"splitlink/internal/money"
)

// OwnershipMap maps a line-item id to the ordered list of member ids who
// claim that item. Order is part of the contract: indivisible remainder cents
// go to the earliest claimants. An item absent from the map, or mapped to an
// empty list, contributes nothing to anyone.
type OwnershipMap map[string][]string

// ComputeShares converts ownership selections into exact per-member shares.
//
// Per item, in integer cents: total = round(qty × price × 100); each claimant
// gets floor(total/n), and the first (total mod n) claimants in list order
// get one extra cent. Cents accumulate per member across items and convert
// back to major units at the end, so the sum of all shares equals the sum of
// claimed item totals exactly.
//
// The remainder tie-break is positional, not proportional. Callers control
// fairness by controlling claimant order; by convention the payer goes last.
func ComputeShares(items []models.LineItem, ownership OwnershipMap) []models.Share {
	totals := make(map[string]int64)
	var order []string

	for _, item := range items {
		participants := ownership[item.ID]
		if len(participants) == 0 {
			continue
		}

		itemCents := money.ToCents(item.Total())
		n := int64(len(participants))
		base := itemCents / n
		remainder := itemCents - base*n

		for i, memberID := range participants {
			cents := base
			if int64(i) < remainder {
				cents++
			}
			if _, seen := totals[memberID]; !seen {
				order = append(order, memberID)
			}
			totals[memberID] += cents
		}
	}

	shares := make([]models.Share, 0, len(order))
	for _, memberID := range order {
		cents := totals[memberID]
		if cents == 0 {
			continue
		}
		shares = append(shares, models.Share{
			MemberID: memberID,
			Amount:   money.FromCents(cents),
		})
	}
	return shares
}
