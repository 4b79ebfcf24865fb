//go:build !integration

package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/guttosm/print-order-service/internal/domain/model"
	"github.com/guttosm/print-order-service/internal/mocks"
	"github.com/guttosm/print-order-service/internal/repository"
	"github.com/guttosm/print-order-service/internal/service"
)

func TestLoggingService_CreateLog(t *testing.T) {
	tests := []struct {
		name      string
		entry     *model.LogEntry
		repoErr   error
		wantError bool
	}{
		{
			name:  "assigns id and timestamp",
			entry: &model.LogEntry{Level: "info", Message: "session started", ActionType: model.ActionSessionStart},
		},
		{
			name:  "keeps existing id",
			entry: &model.LogEntry{ID: primitive.NewObjectID(), Level: "info", Message: "order submitted"},
		},
		{
			name:      "repository error",
			entry:     &model.LogEntry{Level: "error", Message: "boom"},
			repoErr:   errors.New("write failed"),
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(mocks.MockLogsRepositoryInterface)
			originalID := tt.entry.ID
			repo.On("Create", mock.Anything, mock.MatchedBy(func(doc *repository.LogEntryDocument) bool {
				return doc.Message == tt.entry.Message && !doc.ID.IsZero() && !doc.Timestamp.IsZero()
			})).Return(tt.repoErr)

			err := service.NewLoggingService(repo).CreateLog(context.Background(), tt.entry)

			if tt.wantError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			if !originalID.IsZero() {
				assert.Equal(t, originalID, tt.entry.ID)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestLoggingService_CreateLogs(t *testing.T) {
	t.Run("empty batch skips the repository", func(t *testing.T) {
		repo := new(mocks.MockLogsRepositoryInterface)
		assert.NoError(t, service.NewLoggingService(repo).CreateLogs(context.Background(), nil))
		repo.AssertNotCalled(t, "CreateMany", mock.Anything, mock.Anything)
	})

	t.Run("converts every entry", func(t *testing.T) {
		repo := new(mocks.MockLogsRepositoryInterface)
		repo.On("CreateMany", mock.Anything, mock.MatchedBy(func(docs []*repository.LogEntryDocument) bool {
			return len(docs) == 2 && docs[1].OrderNumber == "PRN-1" && docs[1].SessionID == "s-1"
		})).Return(nil)

		err := service.NewLoggingService(repo).CreateLogs(context.Background(), []*model.LogEntry{
			{Level: "info", Message: "a"},
			{Level: "info", Message: "b", SessionID: "s-1", OrderNum: "PRN-1", ActionType: model.ActionOrderSubmit},
		})

		require.NoError(t, err)
		repo.AssertExpectations(t)
	})
}

func TestLoggingService_QueryLogs(t *testing.T) {
	start := time.Now().Add(-time.Hour)
	opts := model.LogQueryOptions{SessionID: "s-1", ActionType: model.ActionPaymentCheck, StartTime: &start, Limit: 20}
	expected := repository.LogQueryOptions{SessionID: "s-1", ActionType: model.ActionPaymentCheck, StartTime: &start, Limit: 20}

	t.Run("maps filters and documents", func(t *testing.T) {
		repo := new(mocks.MockLogsRepositoryInterface)
		repo.On("Query", mock.Anything, expected).Return([]*repository.LogEntryDocument{
			{Level: "info", Message: "payment pending", SessionID: "s-1", OrderNumber: "PRN-1", ActionType: model.ActionPaymentCheck},
		}, nil)

		entries, err := service.NewLoggingService(repo).QueryLogs(context.Background(), opts)

		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "PRN-1", entries[0].OrderNum)
		assert.Equal(t, "s-1", entries[0].SessionID)
	})

	t.Run("repository error", func(t *testing.T) {
		repo := new(mocks.MockLogsRepositoryInterface)
		repo.On("Query", mock.Anything, expected).Return(nil, errors.New("query failed"))

		_, err := service.NewLoggingService(repo).QueryLogs(context.Background(), opts)
		assert.Error(t, err)
	})
}

func TestLoggingService_CountLogs(t *testing.T) {
	repo := new(mocks.MockLogsRepositoryInterface)
	repo.On("Count", mock.Anything, repository.LogQueryOptions{OrderNumber: "PRN-1"}).Return(int64(3), nil)

	count, err := service.NewLoggingService(repo).CountLogs(context.Background(), model.LogQueryOptions{OrderNumber: "PRN-1"})

	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}
