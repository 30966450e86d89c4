package repository

import (
	"testing"

	"github.com/habitloop/habitloop/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGoalReplaceCategory(t *testing.T) {
	database := testDB(t)
	users := NewUserRepository(database)
	goals := NewGoalRepository(database)
	user := createTestUser(t, users, "alice")

	err := goals.ReplaceCategory(user.ID, model.FrequencyDaily, []model.GoalItem{
		{Text: "Run", Completed: false},
		{Text: "Read", Completed: true},
		{Text: "Meditate", Completed: false},
	})
	require.NoError(t, err)

	got, err := goals.ByCategory(user.ID, model.FrequencyDaily)
	require.NoError(t, err)
	require.Len(t, got, 3)

	// Dense sort order in submitted order.
	for i, g := range got {
		assert.Equal(t, i, g.SortOrder)
	}
	assert.Equal(t, "Run", got[0].Text)
	assert.Equal(t, "Read", got[1].Text)
	assert.True(t, got[1].Completed)
}

func TestGoalReplaceCategoryReplacesWholeList(t *testing.T) {
	database := testDB(t)
	users := NewUserRepository(database)
	goals := NewGoalRepository(database)
	user := createTestUser(t, users, "alice")

	err := goals.ReplaceCategory(user.ID, model.FrequencyWeekly, []model.GoalItem{
		{Text: "Old one"},
		{Text: "Old two"},
	})
	require.NoError(t, err)

	// Second save drops everything not in the new list and renumbers from 0.
	err = goals.ReplaceCategory(user.ID, model.FrequencyWeekly, []model.GoalItem{
		{Text: "New only", Completed: true},
	})
	require.NoError(t, err)

	got, err := goals.ByCategory(user.ID, model.FrequencyWeekly)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "New only", got[0].Text)
	assert.Equal(t, 0, got[0].SortOrder)
}

func TestGoalReplaceCategoryEmptyListClears(t *testing.T) {
	database := testDB(t)
	users := NewUserRepository(database)
	goals := NewGoalRepository(database)
	user := createTestUser(t, users, "alice")

	err := goals.ReplaceCategory(user.ID, model.FrequencyDaily, []model.GoalItem{{Text: "Run"}})
	require.NoError(t, err)

	err = goals.ReplaceCategory(user.ID, model.FrequencyDaily, nil)
	require.NoError(t, err)

	got, err := goals.ByCategory(user.ID, model.FrequencyDaily)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestGoalCategoriesAreIsolated(t *testing.T) {
	database := testDB(t)
	users := NewUserRepository(database)
	goals := NewGoalRepository(database)
	user := createTestUser(t, users, "alice")
	other := createTestUser(t, users, "bob")

	require.NoError(t, goals.ReplaceCategory(user.ID, model.FrequencyDaily, []model.GoalItem{{Text: "Daily"}}))
	require.NoError(t, goals.ReplaceCategory(user.ID, model.FrequencyYearly, []model.GoalItem{{Text: "Yearly"}}))
	require.NoError(t, goals.ReplaceCategory(other.ID, model.FrequencyDaily, []model.GoalItem{{Text: "Bob's"}}))

	// Saving one category leaves the other, and other users, untouched.
	require.NoError(t, goals.ReplaceCategory(user.ID, model.FrequencyDaily, []model.GoalItem{{Text: "Changed"}}))

	yearly, err := goals.ByCategory(user.ID, model.FrequencyYearly)
	require.NoError(t, err)
	require.Len(t, yearly, 1)
	assert.Equal(t, "Yearly", yearly[0].Text)

	bobs, err := goals.ByCategory(other.ID, model.FrequencyDaily)
	require.NoError(t, err)
	require.Len(t, bobs, 1)
	assert.Equal(t, "Bob's", bobs[0].Text)
}

func TestGoalDeleteAll(t *testing.T) {
	database := testDB(t)
	users := NewUserRepository(database)
	goals := NewGoalRepository(database)
	user := createTestUser(t, users, "alice")

	require.NoError(t, goals.ReplaceCategory(user.ID, model.FrequencyDaily, []model.GoalItem{{Text: "A"}}))
	require.NoError(t, goals.ReplaceCategory(user.ID, model.FrequencyMonthly, []model.GoalItem{{Text: "B"}}))

	require.NoError(t, goals.DeleteAll(user.ID))

	for _, cat := range []string{model.FrequencyDaily, model.FrequencyMonthly} {
		got, err := goals.ByCategory(user.ID, cat)
		require.NoError(t, err)
		assert.Empty(t, got)
	}
}
