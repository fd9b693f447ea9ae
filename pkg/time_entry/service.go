package time_entry

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/timebudget/timebudget/internal/event_bus"
	"github.com/timebudget/timebudget/internal/utils"
)

const (
	ActionStart  = "start"
	ActionManual = "manual"
	ActionPause  = "pause"
	ActionResume = "resume"
	ActionFinish = "finish"
	ActionEdit   = "edit"
	ActionDelete = "delete"
)

type Service interface {
	StartEntry(ctx context.Context, customerId int, description string) (TimeEntry, error)
	CreateManualEntry(ctx context.Context, customerId int, input EntryInput) (TimeEntry, error)
	PauseEntry(ctx context.Context, id int) (TimeEntry, error)
	ResumeEntry(ctx context.Context, id int) (TimeEntry, error)
	FinishEntry(ctx context.Context, id int) (TimeEntry, error)
	EditEntry(ctx context.Context, id int, input EditInput) (TimeEntry, error)
	DeleteEntry(ctx context.Context, id int) error
	ListEntries(ctx context.Context, customerId int) ([]TimeEntry, error)
	// ListRunning returns all unfinished entries with their elapsed seconds as of now.
	ListRunning(ctx context.Context) ([]RunningEntry, error)
}

type ServiceImpl struct {
	repo     Repository
	eventBus *event_bus.EventBus
	clock    utils.Clock
}

func NewService(repo Repository, eventBus *event_bus.EventBus, clock utils.Clock) *ServiceImpl {
	return &ServiceImpl{repo: repo, eventBus: eventBus, clock: clock}
}

func (s *ServiceImpl) StartEntry(ctx context.Context, customerId int, description string) (TimeEntry, error) {
	description, err := validDescription(description)
	if err != nil {
		return TimeEntry{}, err
	}
	created, err := s.repo.CreateEntry(ctx, Start(customerId, description, s.clock.Now()))
	if err != nil {
		return TimeEntry{}, err
	}
	log.Debugf("Started time entry %d for customer %d", created.Id, created.CustomerId)
	s.publish(ctx, created, ActionStart)
	return created, nil
}

func (s *ServiceImpl) CreateManualEntry(ctx context.Context, customerId int, input EntryInput) (TimeEntry, error) {
	entry, err := NewManualEntry(customerId, input, s.clock.Now())
	if err != nil {
		return TimeEntry{}, err
	}
	created, err := s.repo.CreateEntry(ctx, entry)
	if err != nil {
		return TimeEntry{}, err
	}
	if created.WindowDecoupled() {
		log.Debugf("Manual time entry %d accounts %ds outside of its time window", created.Id, created.DurationSeconds)
	}
	s.publish(ctx, created, ActionManual)
	return created, nil
}

func (s *ServiceImpl) PauseEntry(ctx context.Context, id int) (TimeEntry, error) {
	return s.transition(ctx, id, ActionPause, Pause)
}

func (s *ServiceImpl) ResumeEntry(ctx context.Context, id int) (TimeEntry, error) {
	return s.transition(ctx, id, ActionResume, Resume)
}

func (s *ServiceImpl) FinishEntry(ctx context.Context, id int) (TimeEntry, error) {
	return s.transition(ctx, id, ActionFinish, Finish)
}

func (s *ServiceImpl) transition(ctx context.Context, id int, action string, apply func(TimeEntry, time.Time) (TimeEntry, error)) (TimeEntry, error) {
	updated, err := s.repo.UpdateEntry(ctx, id, func(current TimeEntry) (TimeEntry, error) {
		// now is read under the row lock so segments of concurrent calls cannot overlap
		return apply(current, s.clock.Now())
	})
	if err != nil {
		return TimeEntry{}, err
	}
	log.Debugf("Time entry %d: %s, accumulated %ds", updated.Id, action, updated.DurationSeconds)
	s.publish(ctx, updated, action)
	return updated, nil
}

func (s *ServiceImpl) EditEntry(ctx context.Context, id int, input EditInput) (TimeEntry, error) {
	updated, err := s.repo.UpdateEntry(ctx, id, func(current TimeEntry) (TimeEntry, error) {
		return ApplyEdit(current, input)
	})
	if err != nil {
		return TimeEntry{}, err
	}
	s.publish(ctx, updated, ActionEdit)
	return updated, nil
}

func (s *ServiceImpl) DeleteEntry(ctx context.Context, id int) error {
	deleted, err := s.repo.DeleteEntry(ctx, id)
	if err != nil {
		return err
	}
	log.Debugf("Deleted time entry %d of customer %d", deleted.Id, deleted.CustomerId)
	s.publish(ctx, deleted, ActionDelete)
	return nil
}

func (s *ServiceImpl) ListEntries(ctx context.Context, customerId int) ([]TimeEntry, error) {
	return s.repo.ListEntries(ctx, customerId)
}

func (s *ServiceImpl) ListRunning(ctx context.Context) ([]RunningEntry, error) {
	entries, err := s.repo.ListUnfinished(ctx)
	if err != nil {
		return nil, err
	}
	now := s.clock.Now()
	for i := range entries {
		entries[i].ElapsedSeconds = Elapsed(entries[i].TimeEntry, now)
	}
	return entries, nil
}

func (s *ServiceImpl) publish(ctx context.Context, entry TimeEntry, action string) {
	err := s.eventBus.Publish(event_bus.NewEvent(ctx, event_bus.TimeEntryChanged, event_bus.TimeEntryUpdated{
		Id:              entry.Id,
		CustomerId:      entry.CustomerId,
		Action:          action,
		DurationSeconds: entry.DurationSeconds,
	}))
	if err != nil {
		log.Warnf("failed to publish %s of time entry %d: %v", action, entry.Id, err)
	}
}
