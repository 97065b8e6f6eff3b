package service

import (
	"context"
	"fmt"
	"log"
	"slices"
	"time"

	"tokoku/gateway/internal/domain"
)

// SaleAction is a user-facing button on the sales workflow screen.
type SaleAction string

const (
	ActionConfirm        SaleAction = "confirm"
	ActionRequestPayment SaleAction = "request-payment"
	ActionMarkPartial    SaleAction = "mark-partial"
	ActionMarkPaid       SaleAction = "mark-paid"
	ActionMarkShipped    SaleAction = "mark-shipped"
	ActionMarkDelivered  SaleAction = "mark-delivered"
	ActionComplete       SaleAction = "complete"
	ActionCancel         SaleAction = "cancel"
	ActionFastForward    SaleAction = "fast-forward"
)

type actionSpec struct {
	action SaleAction
	from   []domain.SaleStatus
	target domain.SaleStatus
	// hidden actions are legal to invoke (payment processing drives them)
	// but are never rendered as buttons.
	hidden bool
}

var saleActionCatalogue = []actionSpec{
	{action: ActionConfirm, from: []domain.SaleStatus{domain.SaleStatusPending}, target: domain.SaleStatusConfirmed},
	{action: ActionRequestPayment, from: []domain.SaleStatus{domain.SaleStatusConfirmed}, target: domain.SaleStatusPaymentPending},
	{action: ActionMarkPartial, from: []domain.SaleStatus{domain.SaleStatusPaymentPending}, target: domain.SaleStatusPartiallyPaid, hidden: true},
	{action: ActionMarkPaid, from: []domain.SaleStatus{domain.SaleStatusPaymentPending, domain.SaleStatusPartiallyPaid}, target: domain.SaleStatusPaid},
	{action: ActionMarkShipped, from: []domain.SaleStatus{domain.SaleStatusPaid}, target: domain.SaleStatusShipped},
	{action: ActionMarkDelivered, from: []domain.SaleStatus{domain.SaleStatusShipped}, target: domain.SaleStatusDelivered},
	{action: ActionComplete, from: []domain.SaleStatus{domain.SaleStatusDelivered}, target: domain.SaleStatusCompleted},
}

// fastForwardNext is the canonical happy path the fast-forward chain walks.
// The two payment side-states rejoin the chain at paid.
var fastForwardNext = map[domain.SaleStatus]domain.SaleStatus{
	domain.SaleStatusDraft:          domain.SaleStatusPending,
	domain.SaleStatusPending:        domain.SaleStatusConfirmed,
	domain.SaleStatusConfirmed:      domain.SaleStatusPaid,
	domain.SaleStatusPaymentPending: domain.SaleStatusPaid,
	domain.SaleStatusPartiallyPaid:  domain.SaleStatusPaid,
	domain.SaleStatusPaid:           domain.SaleStatusShipped,
	domain.SaleStatusShipped:        domain.SaleStatusDelivered,
	domain.SaleStatusDelivered:      domain.SaleStatusCompleted,
}

// AvailableActions intersects the transition table with the action catalogue.
// The allowed set comes from the caller (ultimately the upstream); nil means
// "use the fixed table". Terminal statuses render nothing, whatever the
// allowed set claims.
func AvailableActions(current domain.SaleStatus, allowed []domain.SaleStatus) []SaleAction {
	if current.IsTerminal() {
		return nil
	}
	if allowed == nil {
		allowed = domain.SaleTransitions(current)
	}

	var actions []SaleAction
	for _, spec := range saleActionCatalogue {
		if spec.hidden {
			continue
		}
		if !slices.Contains(spec.from, current) {
			continue
		}
		if !slices.Contains(allowed, spec.target) {
			continue
		}
		actions = append(actions, spec.action)
	}
	if slices.Contains(allowed, domain.SaleStatusCancelled) {
		actions = append(actions, ActionCancel)
	}
	// Fast-forward is offered from every non-terminal status; it is a
	// composite convenience, not a single table transition.
	actions = append(actions, ActionFastForward)
	return actions
}

// SaleActions fetches the sale and returns its rendered action set.
func (s *Service) SaleActions(ctx context.Context, saleID int64, allowed []domain.SaleStatus) (*domain.Sale, []SaleAction, error) {
	sale, err := s.backend.GetSaleByID(ctx, saleID)
	if err != nil {
		return nil, nil, err
	}
	return sale, AvailableActions(sale.Status, allowed), nil
}

// PerformSaleAction resolves the action against the sale's current status and
// requests the transition upstream. The returned sale reflects the server's
// view; on error the caller's view of the status must not change.
func (s *Service) PerformSaleAction(ctx context.Context, saleID int64, action SaleAction, allowed []domain.SaleStatus) (*domain.Sale, error) {
	sale, err := s.backend.GetSaleByID(ctx, saleID)
	if err != nil {
		return nil, err
	}
	if sale.Status.IsTerminal() {
		return nil, validationErr(fmt.Sprintf("sale %s is %s and cannot change status", sale.Reference, sale.Status))
	}

	var target domain.SaleStatus
	switch action {
	case ActionCancel:
		target = domain.SaleStatusCancelled
	case ActionFastForward:
		return nil, validationErr("fast-forward is a composite action, use the fast-forward operation")
	default:
		spec, ok := findActionSpec(action)
		if !ok {
			return nil, validationErr(fmt.Sprintf("unknown sale action %q", action))
		}
		if !slices.Contains(spec.from, sale.Status) {
			return nil, validationErr(fmt.Sprintf("action %s is not available while the sale is %s", action, sale.Status))
		}
		target = spec.target
	}

	if allowed != nil && !slices.Contains(allowed, target) {
		return nil, validationErr(fmt.Sprintf("transition to %s is not in the allowed set", target))
	}

	updated, err := s.backend.UpdateSaleStatus(ctx, saleID, target)
	if err != nil {
		return nil, err
	}
	log.Printf("[service] sale %s: %s -> %s (%s by %s)", updated.Reference, sale.Status, updated.Status, action, actorName(ctx))
	return updated, nil
}

func findActionSpec(action SaleAction) (actionSpec, bool) {
	for _, spec := range saleActionCatalogue {
		if spec.action == action {
			return spec, true
		}
	}
	return actionSpec{}, false
}

// FastForwardResult reports how far the chain got. The chain is not
// transactional: each step is a persisted upstream transition, so a failure
// stops the walk but never rolls back.
type FastForwardResult struct {
	Reached     []domain.SaleStatus `json:"reached"`
	FinalStatus domain.SaleStatus   `json:"final_status"`
	Failed      string              `json:"failed,omitempty"`
}

// FastForwardSale walks the remaining happy path to completed, one upstream
// transition at a time with a short pause between steps. It stops at the
// first failure and reports it rather than swallowing it.
func (s *Service) FastForwardSale(ctx context.Context, saleID int64) (*FastForwardResult, error) {
	sale, err := s.backend.GetSaleByID(ctx, saleID)
	if err != nil {
		return nil, err
	}
	if sale.Status.IsTerminal() {
		return nil, validationErr(fmt.Sprintf("sale %s is %s and cannot be fast-forwarded", sale.Reference, sale.Status))
	}

	result := &FastForwardResult{FinalStatus: sale.Status}
	current := sale.Status
	for current != domain.SaleStatusCompleted {
		next, ok := fastForwardNext[current]
		if !ok {
			break
		}
		updated, err := s.backend.UpdateSaleStatus(ctx, saleID, next)
		if err != nil {
			result.Failed = err.Error()
			log.Printf("[service] fast-forward of sale %s stopped at %s: %v", sale.Reference, current, err)
			return result, nil
		}
		current = updated.Status
		result.Reached = append(result.Reached, current)
		result.FinalStatus = current

		if current != domain.SaleStatusCompleted && s.fastForwardDelay > 0 {
			select {
			case <-ctx.Done():
				result.Failed = ctx.Err().Error()
				return result, nil
			case <-time.After(s.fastForwardDelay):
			}
		}
	}

	log.Printf("[service] sale %s fast-forwarded to %s by %s", sale.Reference, result.FinalStatus, actorName(ctx))
	return result, nil
}
