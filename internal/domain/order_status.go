package domain

// OrderStatus values are the server's wire names.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "Pending"
	OrderStatusPaid      OrderStatus = "Dibayar"
	OrderStatusShipped   OrderStatus = "Dikirim"
	OrderStatusCompleted OrderStatus = "Selesai"
	OrderStatusCancelled OrderStatus = "Dibatalkan"
)

var transitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending: {OrderStatusPaid, OrderStatusCancelled},
	OrderStatusPaid:    {OrderStatusShipped},
	OrderStatusShipped: {OrderStatusCompleted},
}

func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusCompleted || s == OrderStatusCancelled
}

func (s OrderStatus) Known() bool {
	switch s {
	case OrderStatusPending, OrderStatusPaid, OrderStatusShipped, OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo reports whether the server lifecycle allows moving from s to next.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, n := range transitions[s] {
		if n == next {
			return true
		}
	}
	return false
}

// String representation (for logging)
func (s OrderStatus) String() string {
	return string(s)
}

// Label is the English display name.
func (s OrderStatus) Label() string {
	switch s {
	case OrderStatusPending:
		return "Pending"
	case OrderStatusPaid:
		return "Paid"
	case OrderStatusShipped:
		return "Shipped"
	case OrderStatusCompleted:
		return "Completed"
	case OrderStatusCancelled:
		return "Cancelled"
	default:
		return "Unknown"
	}
}

// Action is a transition the client may request from the server.
type Action string

const (
	ActionCancel   Action = "cancel"
	ActionPay      Action = "pay"
	ActionComplete Action = "complete"
)

// AllowedActions lists the client-initiated actions for o's status.
// Pay is only offered while a redirect URL exists.
func AllowedActions(o Order) []Action {
	switch o.Status {
	case OrderStatusPending:
		actions := []Action{ActionCancel}
		if o.PaymentURL() != "" {
			actions = append(actions, ActionPay)
		}
		return actions
	case OrderStatusShipped:
		return []Action{ActionComplete}
	default:
		return []Action{}
	}
}
