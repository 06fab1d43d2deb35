package repositories

import (
	"context"
	"errors"
	"testing"

	"agrimarket.backend/internal/domain/entities"
	domainerrors "agrimarket.backend/internal/domain/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnitOfWork_CommitAndRollback(t *testing.T) {
	db := newTestDB(t)
	uow := NewUnitOfWork(db)
	users := NewUserRepository(db)
	sellers := NewSellerRepository(db)
	ctx := context.Background()
	u := seedUser(t, db, "s@farm.test", entities.UserRoleFarmer, 2)

	failing := errors.New("blob write failed")
	err := uow.Do(ctx, func(txCtx context.Context) error {
		require.NoError(t, sellers.CreateProfile(txCtx, &entities.SellerProfile{
			UserID: u.ID, StoreName: "Rollback Farm", BusinessType: entities.BusinessTypeIndividual,
			ProfileReview: entities.ProfileReview{Status: entities.ProfileStatusPending},
		}))
		require.NoError(t, users.AdvanceRegistrationStep(txCtx, u.ID, 2, 3, entities.RegistrationInProgress))
		return failing
	})
	assert.ErrorIs(t, err, failing)

	_, err = sellers.GetProfileByUserID(ctx, u.ID)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound, "profile insert rolled back")
	got, err := users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.RegistrationStep, "cursor advance rolled back")

	err = uow.Do(ctx, func(txCtx context.Context) error {
		if err := sellers.CreateProfile(txCtx, &entities.SellerProfile{
			UserID: u.ID, StoreName: "Commit Farm", BusinessType: entities.BusinessTypeIndividual,
			ProfileReview: entities.ProfileReview{Status: entities.ProfileStatusPending},
		}); err != nil {
			return err
		}
		return uow.Do(txCtx, func(inner context.Context) error {
			return users.AdvanceRegistrationStep(inner, u.ID, 2, 3, entities.RegistrationInProgress)
		})
	})
	require.NoError(t, err)

	got, err = users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.RegistrationStep)
}

func TestGetDB_Fallback(t *testing.T) {
	db := newTestDB(t)
	assert.NotNil(t, GetDB(context.Background(), db))
}
