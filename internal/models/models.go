package models

// Category classifies a line item on a receipt.
type Category string

const (
	CategoryFood          Category = "food"
	CategoryDrinks        Category = "drinks"
	CategoryUtilities     Category = "utilities"
	CategoryTransport     Category = "transport"
	CategoryEntertainment Category = "entertainment"
	CategoryOther         Category = "other"
)

// GroupMember is one participant in a split group. Identity is the ID;
// uniqueness within a group is the caller's responsibility. Duplicate IDs
// would silently collide in allocation totals.
type GroupMember struct {
	// ID is the opaque member identifier.
	ID string `json:"id" validate:"required,notblank"`

	// Name is the display name shown in the UI.
	Name string `json:"name" validate:"required,notblank"`

	// Wallet is the member's payout address for settlement.
	Wallet string `json:"wallet" validate:"required,notblank"`
}

// Group is a set of people who split an expense. PayerID must reference one
// of Members.
type Group struct {
	ID      string        `json:"id" validate:"required,notblank"`
	Name    string        `json:"name" validate:"required,notblank"`
	Members []GroupMember `json:"members" validate:"required,min=1,dive"`
	PayerID string        `json:"payerId" validate:"required,notblank"`
}

// LineItem is a single priced item on an expense. Qty defaults to 1 when
// absent; the item total is Qty × Price.
type LineItem struct {
	// ID is unique within an expense. Assigned when an invite is created.
	ID       string   `json:"id" validate:"required,notblank"`
	Name     string   `json:"name" validate:"required,notblank"`
	Qty      float64  `json:"qty" validate:"gt=0,lte=9999"`
	Price    float64  `json:"price" validate:"gte=0"`
	Category Category `json:"category" validate:"required,oneof=food drinks utilities transport entertainment other"`
}

// Total returns the item total in major units.
func (i LineItem) Total() float64 {
	qty := i.Qty
	if qty == 0 {
		qty = 1
	}
	return qty * i.Price
}

// ExpenseDocument is a structured receipt as produced by the upstream
// extraction service. Subtotal/total arithmetic is not re-checked here; the
// allocation engine works from item prices alone.
type ExpenseDocument struct {
	Merchant      string     `json:"merchant" validate:"required,notblank"`
	Date          string     `json:"date" validate:"required,notblank"`
	Currency      string     `json:"currency" validate:"required,min=1,max=8"`
	Items         []LineItem `json:"items" validate:"required,min=1,dive"`
	Subtotal      float64    `json:"subtotal" validate:"gte=0"`
	Tax           float64    `json:"tax" validate:"gte=0"`
	ServiceCharge *float64   `json:"service_charge,omitempty" validate:"omitempty,gte=0"`
	SGST          float64    `json:"sgst" validate:"gte=0"`
	CGST          float64    `json:"cgst" validate:"gte=0"`
	Discount      float64    `json:"discount" validate:"gte=0"`
	Total         float64    `json:"total" validate:"gte=0"`
	Notes         string     `json:"notes,omitempty" validate:"max=500"`
}

// InvitePayload is the exact structure serialized into a signed invite token.
// Field order is part of the canonical byte serialization: two semantically
// equal payloads must marshal to identical bytes after normalization.
type InvitePayload struct {
	GroupID   string          `json:"groupId" validate:"required,notblank"`
	ExpenseID string          `json:"expenseId" validate:"required,notblank"`
	GroupName string          `json:"groupName" validate:"required,notblank"`
	PayerID   string          `json:"payerId" validate:"required,notblank"`
	Members   []GroupMember   `json:"members" validate:"required,min=1,dive"`
	Expense   ExpenseDocument `json:"expense"`
	CreatedAt string          `json:"createdAt" validate:"required,notblank"`
}

// Share is one member's computed portion of an expense, in major units.
type Share struct {
	MemberID string  `json:"memberId" validate:"required,notblank"`
	Amount   float64 `json:"amount" validate:"gte=0"`
}

// ExpenseSnapshot is the unit of persistence: group, expense, and computed
// shares for one settled-or-settling bill. Created when a bill is saved or an
// invite is accepted, mutated whenever shares are recomputed, deleted only on
// user request.
type ExpenseSnapshot struct {
	ID        string          `json:"id" validate:"required,notblank"`
	GroupID   string          `json:"groupId" validate:"required,notblank"`
	GroupName string          `json:"groupName" validate:"required,notblank"`
	PayerID   string          `json:"payerId" validate:"required,notblank"`
	Members   []GroupMember   `json:"members" validate:"required,min=1,dive"`
	Expense   ExpenseDocument `json:"expense"`
	Shares    []Share         `json:"shares,omitempty" validate:"omitempty,dive"`
	CreatedAt string          `json:"createdAt" validate:"required,notblank"`
}

// SnapshotFromPayload builds the snapshot persisted when an invite is
// accepted. The snapshot ID is the expense ID from the token, so repeated
// accepts of the same invite converge on one record.
func SnapshotFromPayload(p *InvitePayload) *ExpenseSnapshot {
	return &ExpenseSnapshot{
		ID:        p.ExpenseID,
		GroupID:   p.GroupID,
		GroupName: p.GroupName,
		PayerID:   p.PayerID,
		Members:   p.Members,
		Expense:   p.Expense,
		CreatedAt: p.CreatedAt,
	}
}
