package persistence_test

import (
	"context"
	"sync"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"stealdeals/internal/domain"
	"stealdeals/internal/domain/entity"
	"stealdeals/internal/domain/value"
	"stealdeals/internal/infrastructure/persistence"
	"stealdeals/pkg/dbtest"
	"stealdeals/pkg/errcodes"
)

func connect(t *testing.T) *sqlx.DB {
	t.Helper()

	db := dbtest.Connect(t, "../../../migrations/001_init.sql")

	_, err := db.Exec(`TRUNCATE deals, user_roles, users`)
	require.NoError(t, err)

	return db
}

func sampleDeal(title string) entity.Deal {
	return entity.Deal{
		Title:           title,
		ImageURL:        "https://img.example.com/1.png",
		OriginalPrice:   1000,
		DiscountedPrice: 500,
		AffiliateURL:    "https://shop.example.com/p/1",
		Category:        value.CategoryMobiles,
		IsTrending:      true,
	}
}

func TestDealRepository(t *testing.T) {
	db := connect(t)
	repo := persistence.NewDealRepository(db)
	ctx := context.Background()

	first, err := repo.Create(ctx, sampleDeal("First phone"))
	require.NoError(t, err)
	require.False(t, first.ID.IsZero())
	require.Zero(t, first.Clicks)

	second, err := repo.Create(ctx, sampleDeal("Second phone"))
	require.NoError(t, err)

	deals, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, deals, 2)
	require.Equal(t, second.ID, deals[0].ID)

	edited := first
	edited.Title = "First phone, renamed"
	edited.DiscountedPrice = 250

	updated, err := repo.Update(ctx, edited)
	require.NoError(t, err)
	require.Equal(t, "First phone, renamed", updated.Title)
	require.InDelta(t, 250.0, updated.DiscountedPrice, 0.001)

	got, err := repo.GetByID(ctx, first.ID)
	require.NoError(t, err)
	require.Equal(t, updated.Title, got.Title)

	require.NoError(t, repo.Delete(ctx, first.ID))

	_, err = repo.GetByID(ctx, first.ID)
	require.True(t, domain.HasCode(err, errcodes.DealNotFound))

	err = repo.Delete(ctx, first.ID)
	require.True(t, domain.HasCode(err, errcodes.DealNotFound))

	_, err = repo.Update(ctx, edited)
	require.True(t, domain.HasCode(err, errcodes.DealNotFound))
}

func TestDealRepositoryIncrementClicks(t *testing.T) {
	db := connect(t)
	repo := persistence.NewDealRepository(db)
	ctx := context.Background()

	deal, err := repo.Create(ctx, sampleDeal("Clicked phone"))
	require.NoError(t, err)

	const clicks = 20

	var wg sync.WaitGroup
	for range clicks {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = repo.IncrementClicks(ctx, deal.ID)
		}()
	}
	wg.Wait()

	got, err := repo.GetByID(ctx, deal.ID)
	require.NoError(t, err)
	require.EqualValues(t, clicks, got.Clicks)

	_, err = repo.IncrementClicks(ctx, value.NewDealID())
	require.True(t, domain.HasCode(err, errcodes.DealNotFound))
}

func TestUserRepository(t *testing.T) {
	db := connect(t)
	repo := persistence.NewUserRepository(db)
	ctx := context.Background()

	_, err := repo.GetByEmail(ctx, "admin@example.com")
	require.True(t, domain.HasCode(err, errcodes.UserNotFound))

	user, err := repo.Upsert(ctx, "admin@example.com", "hash-1")
	require.NoError(t, err)

	again, err := repo.Upsert(ctx, "admin@example.com", "hash-2")
	require.NoError(t, err)
	require.Equal(t, user.ID, again.ID)
	require.Equal(t, "hash-2", again.PasswordHash)

	isAdmin, err := repo.HasRole(ctx, user.ID, value.RoleAdmin)
	require.NoError(t, err)
	require.False(t, isAdmin)

	require.NoError(t, repo.GrantRole(ctx, user.ID, value.RoleAdmin))
	require.NoError(t, repo.GrantRole(ctx, user.ID, value.RoleAdmin))

	isAdmin, err = repo.HasRole(ctx, user.ID, value.RoleAdmin)
	require.NoError(t, err)
	require.True(t, isAdmin)
}
