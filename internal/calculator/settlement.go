package calculator

import "splitlink/internal/models"

// DeriveSettlementID maps an opaque expense id to a numeric ledger reference:
// the sum of each character's code point weighted by its 1-based position.
//
// This is a convenience mapping, not a hash. Two distinct expense ids can
// derive the same settlement id; that is an accepted limitation because ids
// are scoped to a single group's ledger. Callers must not rely on it for any
// security or uniqueness property beyond "same string, same id, always".
func DeriveSettlementID(expenseID string) int64 {
	var sum int64
	for i, r := range []rune(expenseID) {
		sum += int64(r) * int64(i+1)
	}
	return sum
}

// OwedRow is one pending payment toward the payer: a non-payer member with a
// positive share, plus everything the external settlement step needs to
// submit the payment instruction.
type OwedRow struct {
	MemberID     string  `json:"memberId"`
	MemberName   string  `json:"memberName"`
	PayerWallet  string  `json:"payerWallet"`
	Amount       float64 `json:"amount"`
	SettlementID int64   `json:"settlementId"`
}

// OwedRows lists who still owes the payer for a snapshot, in share order.
// Returns nil when the payer is not among the members.
func OwedRows(snap *models.ExpenseSnapshot) []OwedRow {
	var payer *models.GroupMember
	for i := range snap.Members {
		if snap.Members[i].ID == snap.PayerID {
			payer = &snap.Members[i]
			break
		}
	}
	if payer == nil {
		return nil
	}

	settlementID := DeriveSettlementID(snap.ID)
	var rows []OwedRow
	for _, share := range snap.Shares {
		if share.MemberID == payer.ID || share.Amount <= 0 {
			continue
		}
		name := share.MemberID
		for _, m := range snap.Members {
			if m.ID == share.MemberID {
				if m.Name != "" {
					name = m.Name
				} else {
					name = m.Wallet
				}
				break
			}
		}
		rows = append(rows, OwedRow{
			MemberID:     share.MemberID,
			MemberName:   name,
			PayerWallet:  payer.Wallet,
			Amount:       share.Amount,
			SettlementID: settlementID,
		})
	}
	return rows
}
