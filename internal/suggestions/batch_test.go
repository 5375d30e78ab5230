package suggestions

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/tylerquinn/scoutline/internal/database/testutil"
	"github.com/tylerquinn/scoutline/internal/models"
)

type flakyRules struct {
	failFor map[string]struct{}
	seen    []string
}

func (f *flakyRules) Evaluate(ctx context.Context, input EvaluateInput) (int, error) {
	f.seen = append(f.seen, input.AthleteID)
	if _, fail := f.failFor[input.AthleteID]; fail {
		return 0, errors.New("store timeout")
	}
	return 1, nil
}

func seedAthletes(t *testing.T, db *gorm.DB, n int) []string {
	t.Helper()
	ids := make([]string, 0, n)
	base := time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		u := &models.User{
			Email:          fmt.Sprintf("athlete%02d@example.com", i),
			Password:       "irrelevant",
			Role:           models.RoleAthlete,
			Sport:          "soccer",
			Position:       "mid",
			GraduationYear: 2027,
			GPA:            3.0,
			IsActive:       true,
		}
		u.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, db.Create(u).Error)
		ids = append(ids, u.ID)
	}
	return ids
}

func TestDailyBatchContinuesPastFailures(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	ids := seedAthletes(t, db, 10)

	rules := &flakyRules{failFor: map[string]struct{}{
		ids[2]: {},
		ids[7]: {},
	}}
	dispatcher, err := NewDispatcher(rules, NewSurfacer(db))
	require.NoError(t, err)
	batch, err := NewDailyBatch(db, dispatcher)
	require.NoError(t, err)

	result, err := batch.Run(context.Background())
	require.NoError(t, err, "per-athlete failures never abort the batch")

	require.Equal(t, 10, result.Total)
	require.Equal(t, 8, result.Updated)
	require.Equal(t, 2, result.Failed)
	require.Len(t, result.Errors, 2)
	require.Equal(t, 8, result.SuggestionsGenerated)

	failedIDs := []string{result.Errors[0].AthleteID, result.Errors[1].AthleteID}
	require.ElementsMatch(t, []string{ids[2], ids[7]}, failedIDs)

	// Every athlete was visited, in signup order.
	require.Equal(t, ids, rules.seen)
}

func TestDailyBatchSkipsParentsAndInactiveAccounts(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	ids := seedAthletes(t, db, 2)

	parent := &models.User{
		Email:    "parent@example.com",
		Password: "irrelevant",
		Role:     models.RoleParent,
		IsActive: true,
	}
	require.NoError(t, db.Create(parent).Error)

	retired := &models.User{
		Email:    "retired@example.com",
		Password: "irrelevant",
		Role:     models.RoleAthlete,
		IsActive: true,
	}
	require.NoError(t, db.Create(retired).Error)
	require.NoError(t, db.Model(retired).Update("is_active", false).Error)

	rules := &flakyRules{}
	dispatcher, err := NewDispatcher(rules, NewSurfacer(db))
	require.NoError(t, err)
	batch, err := NewDailyBatch(db, dispatcher)
	require.NoError(t, err)

	result, err := batch.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, result.Total)
	require.ElementsMatch(t, ids, rules.seen)
}

func TestDailyBatchEmptyPopulation(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())

	dispatcher, err := NewDispatcher(&flakyRules{}, NewSurfacer(db))
	require.NoError(t, err)
	batch, err := NewDailyBatch(db, dispatcher)
	require.NoError(t, err)

	result, err := batch.Run(context.Background())
	require.NoError(t, err)
	require.Zero(t, result.Total)
	require.Zero(t, result.Updated)
	require.Zero(t, result.Failed)
	require.Empty(t, result.Errors)
}
