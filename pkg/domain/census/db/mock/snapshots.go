package mocks

import (
	"context"
	"errors"

	"github.com/v6census/v6census/pkg/domain"
	kdb "github.com/v6census/v6census/pkg/domain/census/db"
	dbmock "github.com/v6census/v6census/pkg/domain/internal/db/mock"
)

type SnapshotInterface struct {
	Impl struct {
		Get       func(context.Context, []domain.Key) (map[domain.Key]domain.Snapshot, error)
		List      func(context.Context) ([]domain.Snapshot, error)
		Put       func(context.Context, domain.Snapshot) error
		Delete    func(context.Context, []domain.Key) error
		DeleteAll func(context.Context) error
	}
	Calls struct {
		Get       dbmock.CallLog[struct{ Keys []domain.Key }]
		List      dbmock.CallLog[struct{}]
		Put       dbmock.CallLog[struct{ Snapshot domain.Snapshot }]
		Delete    dbmock.CallLog[struct{ Keys []domain.Key }]
		DeleteAll dbmock.CallLog[struct{}]
	}
}

func NewSnapshotInterface() *SnapshotInterface {
	return &SnapshotInterface{}
}

var _ kdb.SnapshotInterface = &SnapshotInterface{}

func (si *SnapshotInterface) Get(ctx context.Context, keys []domain.Key) (map[domain.Key]domain.Snapshot, error) {
	si.Calls.Get = append(si.Calls.Get, struct{ Keys []domain.Key }{Keys: keys})
	if si.Impl.Get != nil {
		return si.Impl.Get(ctx, keys)
	}
	panic(errors.New("it should not be called"))
}

func (si *SnapshotInterface) List(ctx context.Context) ([]domain.Snapshot, error) {
	si.Calls.List = append(si.Calls.List, struct{}{})
	if si.Impl.List != nil {
		return si.Impl.List(ctx)
	}
	panic(errors.New("it should not be called"))
}

func (si *SnapshotInterface) Put(ctx context.Context, s domain.Snapshot) error {
	si.Calls.Put = append(si.Calls.Put, struct{ Snapshot domain.Snapshot }{Snapshot: s})
	if si.Impl.Put != nil {
		return si.Impl.Put(ctx, s)
	}
	panic(errors.New("it should not be called"))
}

func (si *SnapshotInterface) Delete(ctx context.Context, keys []domain.Key) error {
	si.Calls.Delete = append(si.Calls.Delete, struct{ Keys []domain.Key }{Keys: keys})
	if si.Impl.Delete != nil {
		return si.Impl.Delete(ctx, keys)
	}
	panic(errors.New("it should not be called"))
}

func (si *SnapshotInterface) DeleteAll(ctx context.Context) error {
	si.Calls.DeleteAll = append(si.Calls.DeleteAll, struct{}{})
	if si.Impl.DeleteAll != nil {
		return si.Impl.DeleteAll(ctx)
	}
	panic(errors.New("it should not be called"))
}

// Database is a mock of kdb.Database handing out mocked stores.
type Database struct {
	Snapshot *SnapshotInterface

	Impl struct {
		Ping  func(context.Context) error
		Close func() error
	}
	Calls struct {
		Ping  dbmock.CallLog[struct{}]
		Close dbmock.CallLog[struct{}]
	}
}

func NewDatabase() *Database {
	return &Database{Snapshot: NewSnapshotInterface()}
}

var _ kdb.Database = &Database{}

func (d *Database) Snapshots() kdb.SnapshotInterface {
	return d.Snapshot
}

func (d *Database) Ping(ctx context.Context) error {
	d.Calls.Ping = append(d.Calls.Ping, struct{}{})
	if d.Impl.Ping != nil {
		return d.Impl.Ping(ctx)
	}
	return nil
}

func (d *Database) Close() error {
	d.Calls.Close = append(d.Calls.Close, struct{}{})
	if d.Impl.Close != nil {
		return d.Impl.Close()
	}
	return nil
}
