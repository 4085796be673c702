package services

import (
	"context"
	"testing"

	"clubledger/domain/entities"
	"clubledger/domain/errs"
	"clubledger/domain/events"
	"clubledger/domain/interfaces"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestUserService_Register(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		input     interfaces.NewUser
		setupMock func(m *TestMocks)
		wantErr   bool
	}{
		{
			name:  "registers with normalised email and hashed password",
			input: interfaces.NewUser{Name: "Robin", Email: " Robin@Example.COM ", Password: "longbow123"},
			setupMock: func(m *TestMocks) {
				m.UserRepo.On("GetByEmail", mock.Anything, "robin@example.com").Return(nil, nil)
				m.UserRepo.On("Create", mock.Anything, mock.MatchedBy(func(u *entities.User) bool {
					return u.Email == "robin@example.com" &&
						u.Qualification == entities.DefaultQualification &&
						u.IsActive &&
						bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("longbow123")) == nil
				})).Return(nil)
				m.ExpectEventPublish(events.EventTypeUserRegistered)
			},
		},
		{
			name:  "duplicate email",
			input: interfaces.NewUser{Name: "Robin", Email: "robin@example.com", Password: "longbow123"},
			setupMock: func(m *TestMocks) {
				m.UserRepo.On("GetByEmail", mock.Anything, "robin@example.com").Return(&entities.User{ID: 1}, nil)
			},
			wantErr: true,
		},
		{
			name:      "short password",
			input:     interfaces.NewUser{Name: "Robin", Email: "robin@example.com", Password: "bow"},
			setupMock: func(m *TestMocks) {},
			wantErr:   true,
		},
		{
			name:      "missing name",
			input:     interfaces.NewUser{Email: "robin@example.com", Password: "longbow123"},
			setupMock: func(m *TestMocks) {},
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			mocks := NewTestMocks()
			tt.setupMock(mocks)

			service := NewUserService(mocks.UserRepo, mocks.EventPublisher, bcrypt.MinCost)
			user, err := service.Register(context.Background(), tt.input)

			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errs.IsValidation(err), "unexpected error: %v", err)
				assert.Nil(t, user)
			} else {
				require.NoError(t, err)
				assert.NotEqual(t, tt.input.Password, user.PasswordHash)
			}
			mocks.AssertAllExpectations(t)
		})
	}
}

func TestUserService_VerifyPassword(t *testing.T) {
	t.Parallel()

	hash, err := bcrypt.GenerateFromPassword([]byte("longbow123"), bcrypt.MinCost)
	require.NoError(t, err)

	active := &entities.User{ID: 1, Email: "robin@example.com", PasswordHash: string(hash), IsActive: true}
	inactive := &entities.User{ID: 2, Email: "old@example.com", PasswordHash: string(hash), IsActive: false}

	mocks := NewTestMocks()
	mocks.UserRepo.On("GetByEmail", mock.Anything, "robin@example.com").Return(active, nil)
	mocks.UserRepo.On("GetByEmail", mock.Anything, "old@example.com").Return(inactive, nil)
	mocks.UserRepo.On("GetByEmail", mock.Anything, "nobody@example.com").Return(nil, nil)

	service := NewUserService(mocks.UserRepo, mocks.EventPublisher, bcrypt.MinCost)
	ctx := context.Background()

	user, err := service.VerifyPassword(ctx, "ROBIN@example.com", "longbow123")
	require.NoError(t, err)
	assert.Equal(t, int64(1), user.ID)

	_, err = service.VerifyPassword(ctx, "robin@example.com", "crossbow")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = service.VerifyPassword(ctx, "old@example.com", "longbow123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = service.VerifyPassword(ctx, "nobody@example.com", "longbow123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
