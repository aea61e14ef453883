// Package models defines the domain types shared across the invite codec,
// the allocation engine, and the snapshot store.
//
// The invite token and the persistence layer both serialize these types, so
// every validation rule lives here: the category enumeration, minimum-length
// and non-negativity constraints, and the defaults applied by normalization.
// The allocation and round-trip guarantees downstream depend on these rules
// being enforced before anything is signed or stored.
//
// Ordering is semantic in two places:
//   - Group.Members keeps its given order; callers control remainder
//     fairness by ordering participants (convention: payer last).
//   - InvitePayload field order defines the canonical byte serialization
//     used for signing.
package models
