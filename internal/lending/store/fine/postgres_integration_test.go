//go:build integration

package fine_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"biblio/internal/lending/models"
	"biblio/internal/lending/store/fine"
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

	store := fine.NewPostgres(pc.DB)

	newFine := func(fineID id.FineID, userID id.UserID, loanID id.LoanID) *models.Fine {
		f, err := models.NewFine(fineID, userID, loanID, 10, 0)
		require.NoError(t, err)
		return f
	}

	t.Run("get by loan", func(t *testing.T) {
		require.NoError(t, pc.TruncateAll(ctx, "fines"))

		saved := newFine("F1", "U1", "L1")
		require.NoError(t, store.Save(ctx, saved))

		got, err := store.GetByLoan(ctx, "L1")
		require.NoError(t, err)
		require.Equal(t, saved.ID, got.ID)
		require.Equal(t, 10, got.TotalAmount)

		_, err = store.GetByLoan(ctx, "L404")
		require.ErrorIs(t, err, sentinel.ErrNotFound)
	})

	t.Run("get by user ordered by id suffix", func(t *testing.T) {
		require.NoError(t, pc.TruncateAll(ctx, "fines"))

		require.NoError(t, store.Save(ctx, newFine("F10", "U1", "L10")))
		require.NoError(t, store.Save(ctx, newFine("F2", "U1", "L2")))
		require.NoError(t, store.Save(ctx, newFine("F1", "U1", "L1")))
		require.NoError(t, store.Save(ctx, newFine("F3", "U2", "L3")))

		fines, err := store.GetByUser(ctx, "U1")
		require.NoError(t, err)
		require.Len(t, fines, 3)
		require.Equal(t, id.FineID("F1"), fines[0].ID)
		require.Equal(t, id.FineID("F2"), fines[1].ID)
		require.Equal(t, id.FineID("F10"), fines[2].ID)
	})

	t.Run("payment progress survives upsert", func(t *testing.T) {
		require.NoError(t, pc.TruncateAll(ctx, "fines"))

		saved := newFine("F1", "U1", "L1")
		require.NoError(t, store.Save(ctx, saved))

		applied, err := saved.ApplyPayment(4)
		require.NoError(t, err)
		require.Equal(t, 4, applied)
		require.NoError(t, store.Save(ctx, saved))

		got, err := store.GetByLoan(ctx, "L1")
		require.NoError(t, err)
		require.Equal(t, 4, got.PaidAmount)
		require.Equal(t, 6, got.Outstanding())
	})
}
