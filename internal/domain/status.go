package domain

// OperationKind tags a unified operation form. The set is closed: changing the
// kind of an open form is not supported, the dialog must be reopened.
type OperationKind string

const (
	OperationSupply    OperationKind = "supply"
	OperationTransfer  OperationKind = "transfer"
	OperationInventory OperationKind = "inventory"
)

func (k OperationKind) IsValid() bool {
	switch k {
	case OperationSupply, OperationTransfer, OperationInventory:
		return true
	}
	return false
}

func (k OperationKind) String() string {
	return string(k)
}

type SupplyStatus string

const (
	SupplyStatusPending   SupplyStatus = "pending"
	SupplyStatusReceived  SupplyStatus = "received"
	SupplyStatusPartial   SupplyStatus = "partial"
	SupplyStatusCancelled SupplyStatus = "cancelled"
)

func (s SupplyStatus) IsValid() bool {
	switch s {
	case SupplyStatusPending, SupplyStatusReceived, SupplyStatusPartial, SupplyStatusCancelled:
		return true
	}
	return false
}

func (s SupplyStatus) String() string {
	return string(s)
}

// MapSupplyStatus maps a free-form status string into the supply vocabulary.
// Unrecognized values fall back to the initial state.
func MapSupplyStatus(raw string) SupplyStatus {
	if s := SupplyStatus(raw); s.IsValid() {
		return s
	}
	return SupplyStatusPending
}

type TransferStatus string

const (
	TransferStatusPending   TransferStatus = "pending"
	TransferStatusPartial   TransferStatus = "partial"
	TransferStatusCompleted TransferStatus = "completed"
	TransferStatusCancelled TransferStatus = "cancelled"
)

func (s TransferStatus) IsValid() bool {
	switch s {
	case TransferStatusPending, TransferStatusPartial, TransferStatusCompleted, TransferStatusCancelled:
		return true
	}
	return false
}

func (s TransferStatus) String() string {
	return string(s)
}

func MapTransferStatus(raw string) TransferStatus {
	if s := TransferStatus(raw); s.IsValid() {
		return s
	}
	return TransferStatusPending
}

type CountStatus string

const (
	CountStatusDraft      CountStatus = "draft"
	CountStatusInProgress CountStatus = "in_progress"
	CountStatusCompleted  CountStatus = "completed"
	CountStatusCancelled  CountStatus = "cancelled"
)

func (s CountStatus) IsValid() bool {
	switch s {
	case CountStatusDraft, CountStatusInProgress, CountStatusCompleted, CountStatusCancelled:
		return true
	}
	return false
}

func (s CountStatus) String() string {
	return string(s)
}

func MapCountStatus(raw string) CountStatus {
	if s := CountStatus(raw); s.IsValid() {
		return s
	}
	return CountStatusDraft
}

// SaleStatus is the only vocabulary with a transition table: the sales screen
// renders next-action buttons from it. All other document kinds change status
// upstream only.
type SaleStatus string

const (
	SaleStatusDraft          SaleStatus = "draft"
	SaleStatusPending        SaleStatus = "pending"
	SaleStatusConfirmed      SaleStatus = "confirmed"
	SaleStatusPaymentPending SaleStatus = "payment_pending"
	SaleStatusPartiallyPaid  SaleStatus = "partially_paid"
	SaleStatusPaid           SaleStatus = "paid"
	SaleStatusShipped        SaleStatus = "shipped"
	SaleStatusDelivered      SaleStatus = "delivered"
	SaleStatusCompleted      SaleStatus = "completed"
	SaleStatusCancelled      SaleStatus = "cancelled"
)

func (s SaleStatus) IsValid() bool {
	switch s {
	case SaleStatusDraft, SaleStatusPending, SaleStatusConfirmed, SaleStatusPaymentPending,
		SaleStatusPartiallyPaid, SaleStatusPaid, SaleStatusShipped, SaleStatusDelivered,
		SaleStatusCompleted, SaleStatusCancelled:
		return true
	}
	return false
}

func (s SaleStatus) String() string {
	return string(s)
}

// IsTerminal reports whether no further transition leaves s.
func (s SaleStatus) IsTerminal() bool {
	return s == SaleStatusCompleted || s == SaleStatusCancelled
}

// CanTransitionTo checks the fixed sale transition table. partially_paid is a
// legal target from payment_pending even though the UI never offers it as a
// button; it is reached as a side effect of upstream payment processing.
func (s SaleStatus) CanTransitionTo(target SaleStatus) bool {
	for _, next := range saleTransitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

var saleTransitions = map[SaleStatus][]SaleStatus{
	SaleStatusDraft:          {SaleStatusPending, SaleStatusCancelled},
	SaleStatusPending:        {SaleStatusConfirmed, SaleStatusCancelled},
	SaleStatusConfirmed:      {SaleStatusPaymentPending, SaleStatusPaid, SaleStatusCancelled},
	SaleStatusPaymentPending: {SaleStatusPartiallyPaid, SaleStatusPaid, SaleStatusCancelled},
	SaleStatusPartiallyPaid:  {SaleStatusPaid, SaleStatusCancelled},
	SaleStatusPaid:           {SaleStatusShipped, SaleStatusCancelled},
	SaleStatusShipped:        {SaleStatusDelivered, SaleStatusCancelled},
	SaleStatusDelivered:      {SaleStatusCompleted, SaleStatusCancelled},
	SaleStatusCompleted:      nil,
	SaleStatusCancelled:      nil,
}

// SaleTransitions returns the legal targets for the given status. The returned
// slice must not be mutated.
func SaleTransitions(s SaleStatus) []SaleStatus {
	return saleTransitions[s]
}

type QuoteStatus string

const (
	QuoteStatusDraft     QuoteStatus = "draft"
	QuoteStatusSent      QuoteStatus = "sent"
	QuoteStatusAccepted  QuoteStatus = "accepted"
	QuoteStatusRejected  QuoteStatus = "rejected"
	QuoteStatusExpired   QuoteStatus = "expired"
	QuoteStatusConverted QuoteStatus = "converted"
)

func (s QuoteStatus) IsValid() bool {
	switch s {
	case QuoteStatusDraft, QuoteStatusSent, QuoteStatusAccepted, QuoteStatusRejected,
		QuoteStatusExpired, QuoteStatusConverted:
		return true
	}
	return false
}

func (s QuoteStatus) String() string {
	return string(s)
}

type InvoiceStatus string

const (
	InvoiceStatusDraft         InvoiceStatus = "draft"
	InvoiceStatusSent          InvoiceStatus = "sent"
	InvoiceStatusPartiallyPaid InvoiceStatus = "partially_paid"
	InvoiceStatusPaid          InvoiceStatus = "paid"
	InvoiceStatusOverdue       InvoiceStatus = "overdue"
	InvoiceStatusCancelled     InvoiceStatus = "cancelled"
)

func (s InvoiceStatus) IsValid() bool {
	switch s {
	case InvoiceStatusDraft, InvoiceStatusSent, InvoiceStatusPartiallyPaid, InvoiceStatusPaid,
		InvoiceStatusOverdue, InvoiceStatusCancelled:
		return true
	}
	return false
}

func (s InvoiceStatus) String() string {
	return string(s)
}
