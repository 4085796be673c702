package repository

import (
	"context"
	"testing"
	"time"

	"clubledger/domain/entities"
	"clubledger/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShootRepository(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	users := NewUserRepository(testDB.DB)
	repo := NewShootRepository(testDB.DB)
	ctx := context.Background()

	may := &entities.Shoot{Date: entities.NewDate(2026, time.May, 2), Location: entities.ShootLocationMeadow}
	june := &entities.Shoot{Date: entities.NewDate(2026, time.June, 6), Location: entities.ShootLocationHall}
	require.NoError(t, repo.Create(ctx, may))
	require.NoError(t, repo.Create(ctx, june))

	t.Run("list is inclusive and newest first", func(t *testing.T) {
		shoots, err := repo.ListBetween(ctx, may.Date, june.Date)
		require.NoError(t, err)
		require.Len(t, shoots, 2)
		assert.Equal(t, june.ID, shoots[0].ID)
		assert.True(t, shoots[1].Date.Equal(may.Date))
	})

	t.Run("attendance is recorded once", func(t *testing.T) {
		user := testutil.CreateTestUser("attendee")
		require.NoError(t, users.Create(ctx, user))

		added, err := repo.AddAttendee(ctx, may.ID, user.ID)
		require.NoError(t, err)
		assert.True(t, added)

		added, err = repo.AddAttendee(ctx, may.ID, user.ID)
		require.NoError(t, err)
		assert.False(t, added)

		attendees, err := repo.ListAttendees(ctx, may.ID)
		require.NoError(t, err)
		require.Len(t, attendees, 1)
		assert.Equal(t, user.ID, attendees[0].UserID)
	})

	t.Run("visitors", func(t *testing.T) {
		visitor := &entities.ShootVisitor{
			ShootID:       june.ID,
			Name:          "Guest",
			Club:          "Sherwood Bowmen",
			Affiliation:   "County",
			PaymentMethod: entities.PaymentMethodCash,
		}
		require.NoError(t, repo.AddVisitor(ctx, visitor))

		visitors, err := repo.ListVisitors(ctx, june.ID)
		require.NoError(t, err)
		require.Len(t, visitors, 1)
		assert.Equal(t, "Sherwood Bowmen", visitors[0].Club)
	})

	t.Run("unknown location is rejected by the schema", func(t *testing.T) {
		err := repo.Create(ctx, &entities.Shoot{Date: may.Date, Location: "BEACH"})
		assert.Error(t, err)
	})
}
