package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/guttosm/print-order-service/internal/domain/model"
	"github.com/guttosm/print-order-service/internal/mocks"
	"github.com/guttosm/print-order-service/internal/ordering"
	"github.com/guttosm/print-order-service/internal/service"
)

type failingPrices struct {
	service.PriceTableService
}

func (failingPrices) Calculator(context.Context) (service.PriceCalculator, error) {
	return nil, model.ErrInvalidPriceTable
}

func newSessionService(t *testing.T, prices service.PriceTableService, cfg service.SessionConfig) *service.SessionServiceImpl {
	t.Helper()
	store := service.NewSessionStore(64, time.Minute, 4)
	t.Cleanup(store.Stop)
	return service.NewSessionService(store, prices, cfg)
}

func TestSessionService_Lifecycle(t *testing.T) {
	prices, err := service.NewPriceTableService(model.DefaultPriceTable())
	require.NoError(t, err)
	svc := newSessionService(t, prices, service.SessionConfig{})

	id, m, err := svc.Start(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	assert.Equal(t, ordering.StepUpload, m.Step())
	assert.Equal(t, 1, m.Snapshot().Draft.PriceTableVersion)

	got, err := svc.Get(id)
	require.NoError(t, err)
	assert.Same(t, m, got)

	otherID, _, err := svc.Start(context.Background())
	require.NoError(t, err)
	assert.NotEqual(t, id, otherID)
	assert.Equal(t, 2, svc.Stats().Size)

	require.NoError(t, svc.Discard(id))
	_, err = svc.Get(id)
	assert.ErrorIs(t, err, service.ErrSessionNotFound)
	assert.ErrorIs(t, svc.Discard(id), service.ErrSessionNotFound)
}

func TestSessionService_PinsPriceTable(t *testing.T) {
	repo := new(mocks.MockPriceTablesRepositoryInterface)
	v1 := model.DefaultPriceTable()
	v2 := model.DefaultPriceTable()
	v2.Version = 2
	v2.MonochromeRate = decimal.RequireFromString("0.5")

	repo.On("GetActive", mock.Anything).Return(&model.PriceTableRecord{ID: "v1", Table: v1, Active: true}, nil).Once()
	repo.On("GetActive", mock.Anything).Return(&model.PriceTableRecord{ID: "v2", Table: v2, Active: true}, nil)

	prices, err := service.NewPriceTableService(model.DefaultPriceTable(),
		service.WithPriceTableRepository(repo),
		service.WithPriceTableRefresh(time.Nanosecond),
	)
	require.NoError(t, err)
	svc := newSessionService(t, prices, service.SessionConfig{})

	_, early, err := svc.Start(context.Background())
	require.NoError(t, err)
	time.Sleep(time.Millisecond)
	_, late, err := svc.Start(context.Background())
	require.NoError(t, err)

	info := model.DocumentInfo{FileID: "f_1", FileName: "a.pdf", PageCount: 10}
	earlySnap, err := early.SetDocument(info)
	require.NoError(t, err)
	lateSnap, err := late.SetDocument(info)
	require.NoError(t, err)

	assert.Equal(t, "10", earlySnap.Draft.PriceBreakdown.TotalCost.String())
	assert.Equal(t, "5", lateSnap.Draft.PriceBreakdown.TotalCost.String())
	assert.Equal(t, 2, lateSnap.Draft.PriceTableVersion)
}

func TestSessionService_UsesCollaboratorsAndClock(t *testing.T) {
	prices, err := service.NewPriceTableService(model.DefaultPriceTable())
	require.NoError(t, err)

	fixed := time.Date(2026, 10, 18, 9, 30, 0, 0, time.UTC)
	uploader := new(mocks.MockDocumentUploader)
	svc := newSessionService(t, prices, service.SessionConfig{
		Collaborators: ordering.Collaborators{Uploader: uploader},
		UploadPolicy:  ordering.UploadPolicy{MaxBytes: 4},
		Clock:         func() time.Time { return fixed },
	})

	_, m, err := svc.Start(context.Background())
	require.NoError(t, err)
	assert.Equal(t, fixed, m.UpdatedAt())

	_, err = m.AttachDocument(context.Background(), ordering.Upload{FileName: "big.pdf", Size: 5, Body: nil})
	assert.ErrorIs(t, err, ordering.ErrUpload)
	uploader.AssertNotCalled(t, "UploadDocument", mock.Anything, mock.Anything)
}

func TestSessionService_StartFailsWithoutPrices(t *testing.T) {
	svc := newSessionService(t, failingPrices{}, service.SessionConfig{})

	_, _, err := svc.Start(context.Background())

	assert.True(t, errors.Is(err, model.ErrInvalidPriceTable))
	assert.Zero(t, svc.Stats().Size)
}
