//go:build integration

package loan_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"biblio/internal/lending/models"
	"biblio/internal/lending/store/loan"
	platformpg "biblio/internal/platform/postgres"
	id "biblio/pkg/domain"
	"biblio/pkg/platform/sentinel"
	"biblio/pkg/testutil/containers"
)

func TestPostgresStore(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	pc := containers.NewPostgresContainer(t)
	require.NoError(t, platformpg.EnsureSchema(ctx, pc.DB))

	store := loan.NewPostgres(pc.DB)
	borrowed := time.Date(2026, 1, 5, 14, 30, 0, 0, time.UTC)

	t.Run("save and get round trip", func(t *testing.T) {
		require.NoError(t, pc.TruncateAll(ctx, "loans"))

		saved := models.NewLoan("L1", "U1", "B1", borrowed)
		require.NoError(t, store.Save(ctx, saved))

		got, err := store.GetByID(ctx, "L1")
		require.NoError(t, err)
		require.Equal(t, saved.ID, got.ID)
		require.True(t, got.BorrowDate.Equal(saved.BorrowDate))
		require.True(t, got.DueDate.Equal(saved.DueDate))
		require.Nil(t, got.ReturnedDate)

		_, err = store.GetByID(ctx, "L404")
		require.ErrorIs(t, err, sentinel.ErrNotFound)
	})

	t.Run("returned date survives round trip", func(t *testing.T) {
		require.NoError(t, pc.TruncateAll(ctx, "loans"))

		saved := models.NewLoan("L1", "U1", "B1", borrowed)
		require.NoError(t, saved.Close(borrowed.AddDate(0, 0, 7)))
		require.NoError(t, store.Save(ctx, saved))

		got, err := store.GetByID(ctx, "L1")
		require.NoError(t, err)
		require.NotNil(t, got.ReturnedDate)
		require.True(t, got.ReturnedDate.Equal(*saved.ReturnedDate))
		require.True(t, got.IsReturned())
	})

	t.Run("get by user ordered by id suffix", func(t *testing.T) {
		require.NoError(t, pc.TruncateAll(ctx, "loans"))

		for _, loanID := range []id.LoanID{"L10", "L2", "L1"} {
			require.NoError(t, store.Save(ctx, models.NewLoan(loanID, "U1", "B1", borrowed)))
		}
		require.NoError(t, store.Save(ctx, models.NewLoan("L3", "U2", "B1", borrowed)))

		loans, err := store.GetByUser(ctx, "U1")
		require.NoError(t, err)
		require.Len(t, loans, 3)
		require.Equal(t, id.LoanID("L1"), loans[0].ID)
		require.Equal(t, id.LoanID("L2"), loans[1].ID)
		require.Equal(t, id.LoanID("L10"), loans[2].ID)
	})

	t.Run("upsert updates in place", func(t *testing.T) {
		require.NoError(t, pc.TruncateAll(ctx, "loans"))

		saved := models.NewLoan("L1", "U1", "B1", borrowed)
		require.NoError(t, store.Save(ctx, saved))
		require.NoError(t, saved.Close(borrowed.AddDate(0, 0, 3)))
		require.NoError(t, store.Save(ctx, saved))

		all, err := store.GetAll(ctx)
		require.NoError(t, err)
		require.Len(t, all, 1)
		require.True(t, all[0].IsReturned())
	})
}
