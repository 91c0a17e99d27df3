package mocks

import (
	"context"
	"errors"
	"time"

	"github.com/v6census/v6census/pkg/domain"
	"github.com/v6census/v6census/pkg/domain/census"
	dbmock "github.com/v6census/v6census/pkg/domain/internal/db/mock"
)

type Service struct {
	Impl struct {
		Dataset         func(context.Context, domain.Key) (domain.Snapshot, error)
		Refresh         func(context.Context, ...domain.Key) ([]domain.Snapshot, error)
		RefreshExpiring func(context.Context, time.Duration) ([]domain.Snapshot, error)
		Invalidate      func(context.Context, ...domain.Key) (int, error)
		InvalidateAll   func(context.Context) (int, error)
		Sources         func() []domain.SourceInfo
		Peek            func(domain.Key) (domain.Snapshot, bool)
		Stats           func() census.CacheStats
	}
	Calls struct {
		Dataset         dbmock.CallLog[struct{ Key domain.Key }]
		Refresh         dbmock.CallLog[struct{ Keys []domain.Key }]
		RefreshExpiring dbmock.CallLog[struct{ Horizon time.Duration }]
		Invalidate      dbmock.CallLog[struct{ Keys []domain.Key }]
		InvalidateAll   dbmock.CallLog[struct{}]
		Sources         dbmock.CallLog[struct{}]
		Peek            dbmock.CallLog[struct{ Key domain.Key }]
		Stats           dbmock.CallLog[struct{}]
	}
}

func NewService() *Service {
	return &Service{}
}

var _ census.Service = &Service{}

func (s *Service) Dataset(ctx context.Context, key domain.Key) (domain.Snapshot, error) {
	s.Calls.Dataset = append(s.Calls.Dataset, struct{ Key domain.Key }{Key: key})
	if s.Impl.Dataset != nil {
		return s.Impl.Dataset(ctx, key)
	}
	panic(errors.New("it should not be called"))
}

func (s *Service) Refresh(ctx context.Context, keys ...domain.Key) ([]domain.Snapshot, error) {
	s.Calls.Refresh = append(s.Calls.Refresh, struct{ Keys []domain.Key }{Keys: keys})
	if s.Impl.Refresh != nil {
		return s.Impl.Refresh(ctx, keys...)
	}
	panic(errors.New("it should not be called"))
}

func (s *Service) RefreshExpiring(ctx context.Context, horizon time.Duration) ([]domain.Snapshot, error) {
	s.Calls.RefreshExpiring = append(s.Calls.RefreshExpiring, struct{ Horizon time.Duration }{Horizon: horizon})
	if s.Impl.RefreshExpiring != nil {
		return s.Impl.RefreshExpiring(ctx, horizon)
	}
	panic(errors.New("it should not be called"))
}

func (s *Service) Invalidate(ctx context.Context, keys ...domain.Key) (int, error) {
	s.Calls.Invalidate = append(s.Calls.Invalidate, struct{ Keys []domain.Key }{Keys: keys})
	if s.Impl.Invalidate != nil {
		return s.Impl.Invalidate(ctx, keys...)
	}
	panic(errors.New("it should not be called"))
}

func (s *Service) InvalidateAll(ctx context.Context) (int, error) {
	s.Calls.InvalidateAll = append(s.Calls.InvalidateAll, struct{}{})
	if s.Impl.InvalidateAll != nil {
		return s.Impl.InvalidateAll(ctx)
	}
	panic(errors.New("it should not be called"))
}

func (s *Service) Sources() []domain.SourceInfo {
	s.Calls.Sources = append(s.Calls.Sources, struct{}{})
	if s.Impl.Sources != nil {
		return s.Impl.Sources()
	}
	panic(errors.New("it should not be called"))
}

func (s *Service) Peek(key domain.Key) (domain.Snapshot, bool) {
	s.Calls.Peek = append(s.Calls.Peek, struct{ Key domain.Key }{Key: key})
	if s.Impl.Peek != nil {
		return s.Impl.Peek(key)
	}
	panic(errors.New("it should not be called"))
}

func (s *Service) Stats() census.CacheStats {
	s.Calls.Stats = append(s.Calls.Stats, struct{}{})
	if s.Impl.Stats != nil {
		return s.Impl.Stats()
	}
	panic(errors.New("it should not be called"))
}
