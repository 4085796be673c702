package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"clubledger/domain/entities"
	"clubledger/domain/errs"
	"clubledger/domain/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestMembershipService_ExpireMemberships(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		setupMock func(m *TestMocks)
		wantCount int
		wantErr   bool
	}{
		{
			name: "expires and publishes per membership",
			setupMock: func(m *TestMocks) {
				m.MembershipRepo.On("ExpireBefore", mock.Anything, TestToday).Return([]*entities.Membership{
					{ID: 1, UserID: 10, Status: entities.MembershipStatusExpired, ExpiryDate: TestToday.AddDate(0, 0, -1)},
					{ID: 2, UserID: 20, Status: entities.MembershipStatusExpired, ExpiryDate: TestToday.AddDate(0, 0, -30)},
				}, nil)
				m.ExpectEventPublish(events.EventTypeMembershipExpired)
			},
			wantCount: 2,
		},
		{
			name: "nothing to expire",
			setupMock: func(m *TestMocks) {
				m.MembershipRepo.On("ExpireBefore", mock.Anything, TestToday).Return([]*entities.Membership{}, nil)
			},
		},
		{
			name: "repository error",
			setupMock: func(m *TestMocks) {
				m.MembershipRepo.On("ExpireBefore", mock.Anything, TestToday).Return(nil, errors.New("timeout"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			mocks := NewTestMocks()
			tt.setupMock(mocks)

			service := NewMembershipService(mocks.MembershipRepo, mocks.EventPublisher)
			expired, err := service.ExpireMemberships(context.Background(), TestToday.Add(23*time.Hour))

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Len(t, expired, tt.wantCount)
				mocks.EventPublisher.AssertNumberOfCalls(t, "Publish", tt.wantCount)
			}
			mocks.AssertAllExpectations(t)
		})
	}
}

func TestMembershipService_GetMembership_NotFound(t *testing.T) {
	t.Parallel()

	mocks := NewTestMocks()
	mocks.MembershipRepo.On("GetByUserID", mock.Anything, TestUserID).Return(nil, nil)

	_, err := NewMembershipService(mocks.MembershipRepo, mocks.EventPublisher).GetMembership(context.Background(), TestUserID)

	assert.True(t, errs.IsNotFound(err))
}
