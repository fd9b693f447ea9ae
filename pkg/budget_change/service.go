package budget_change

import (
	"context"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/timebudget/timebudget/internal/event_bus"
)

type Service interface {
	AppendChange(ctx context.Context, change BudgetChange) (BudgetChange, error)
	ListChanges(ctx context.Context, customerId int) ([]BudgetChange, error)
}

type ServiceImpl struct {
	repo     Repository
	eventBus *event_bus.EventBus
}

func NewService(repo Repository, eventBus *event_bus.EventBus) *ServiceImpl {
	return &ServiceImpl{repo: repo, eventBus: eventBus}
}

// AppendChange validates and stores a new ledger entry. Stored changes are
// never modified or removed.
func (s *ServiceImpl) AppendChange(ctx context.Context, change BudgetChange) (BudgetChange, error) {
	change.Comment = strings.TrimSpace(change.Comment)
	if err := change.Validate(); err != nil {
		return BudgetChange{}, err
	}

	stored, err := s.repo.AppendChange(ctx, change)
	if err != nil {
		return BudgetChange{}, err
	}
	log.Debugf("Appended %s of %.2f to ledger of customer %d", stored.Kind, stored.Amount, stored.CustomerId)

	// The change is committed already; a failing subscriber only affects derived state.
	err = s.eventBus.Publish(event_bus.NewEvent(ctx, event_bus.BudgetChangeCreated, event_bus.BudgetChangeAppended{
		Id:         stored.Id,
		CustomerId: stored.CustomerId,
		Kind:       string(stored.Kind),
		Amount:     stored.Amount,
	}))
	if err != nil {
		log.Warnf("failed to publish budget change %d: %v", stored.Id, err)
	}
	return stored, nil
}

func (s *ServiceImpl) ListChanges(ctx context.Context, customerId int) ([]BudgetChange, error) {
	return s.repo.ListChanges(ctx, customerId)
}
