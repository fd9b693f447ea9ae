package overview

import (
	"context"
)

type Service interface {
	GetOverview(ctx context.Context, customerId int) (Overview, error)
}

type ServiceImpl struct {
	repo Repository
}

func NewService(repo Repository) *ServiceImpl {
	return &ServiceImpl{repo: repo}
}

func (s *ServiceImpl) GetOverview(ctx context.Context, customerId int) (Overview, error) {
	snapshot, err := s.repo.LoadSnapshot(ctx, customerId)
	if err != nil {
		return Overview{}, err
	}
	return Aggregate(snapshot), nil
}
