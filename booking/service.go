package booking

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Service struct {
	repo        Repository
	idGenerator func() string
	now         func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo:        repo,
		idGenerator: func() string { return uuid.NewString() },
		now:         time.Now,
	}
}

func (s *Service) Create(ctx context.Context, params CreateParams) (Booking, error) {
	b := Booking{
		ID:                 s.idGenerator(),
		CustomerID:         params.CustomerID,
		CustomerName:       params.CustomerName,
		PickupAddress:      params.PickupAddress,
		DestinationAddress: params.DestinationAddress,
		RequestedTime:      params.RequestedTime,
		Notes:              params.Notes,
		CreatedAt:          s.now().UTC(),
	}
	return s.repo.Create(ctx, b)
}

func (s *Service) List(ctx context.Context) ([]Booking, error) {
	return s.repo.List(ctx)
}

func (s *Service) ListForCustomer(ctx context.Context, customerID string) ([]Booking, error) {
	return s.repo.ListByCustomer(ctx, customerID)
}
