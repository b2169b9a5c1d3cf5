package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecipesServedFromCacheWithinTTL(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.data.Recipes(ctx, false)
	require.NoError(t, err)
	env.clock.Advance(4 * time.Minute)
	_, err = env.data.Recipes(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, 1, env.api.Calls("/recipes"))

	env.clock.Advance(time.Minute)
	_, err = env.data.Recipes(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, 2, env.api.Calls("/recipes"))
}

func TestForceRefreshAlwaysHitsNetwork(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := env.data.Tags(ctx, true)
		require.NoError(t, err)
	}
	assert.Equal(t, 3, env.api.Calls("/recipes/tags"))

	env.api.SetTags([]string{"Brunch"})
	tags, err := env.data.Tags(ctx, true)
	require.NoError(t, err)
	assert.Equal(t, []string{"Brunch"}, tags)

	tags, err = env.data.Tags(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"Brunch"}, tags)
}

func TestRecipeCachedPerID(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	r, err := env.data.Recipe(ctx, 1, false)
	require.NoError(t, err)
	assert.Equal(t, "Classic Margherita Pizza", r.Name)
	_, err = env.data.Recipe(ctx, 2, false)
	require.NoError(t, err)
	_, err = env.data.Recipe(ctx, 1, true)
	require.NoError(t, err)
	_, err = env.data.Recipe(ctx, 2, false)
	require.NoError(t, err)

	assert.Equal(t, 2, env.api.Calls("/recipes/1"))
	assert.Equal(t, 1, env.api.Calls("/recipes/2"))

	_, err = env.data.Recipe(ctx, 404, false)
	require.Error(t, err)
	assert.Equal(t, "Recipe with id '404' not found", Message(err, "x"))
}

func TestRecipesByTagKeyedByLowercasedTag(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.data.RecipesByTag(ctx, "Italian", 0, 12, false)
	require.NoError(t, err)
	_, err = env.data.RecipesByTag(ctx, "  italian ", 0, 12, false)
	require.NoError(t, err)

	assert.Equal(t, 1, env.api.Calls("/recipes/tag/Italian")+env.api.Calls("/recipes/tag/italian"))
}

func TestRecipesByTagTotalIsIndependentOfLimit(t *testing.T) {
	env := newTestEnv(t)

	page, err := env.data.RecipesByTag(context.Background(), "Italian", 0, 1, false)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(page.Recipes), 1)
	assert.Equal(t, 2, page.Total)
}

func TestRecipesByTagNewPageIsAMiss(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	first, err := env.data.RecipesByTag(ctx, "Italian", 0, 1, false)
	require.NoError(t, err)
	second, err := env.data.RecipesByTag(ctx, "Italian", 1, 1, false)
	require.NoError(t, err)

	assert.NotEqual(t, first.Recipes[0].ID, second.Recipes[0].ID)
	assert.Equal(t, 2, env.api.Calls("/recipes/tag/Italian"))
}

func TestRecipesByTagRequiresTag(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.data.RecipesByTag(context.Background(), "   ", 0, 12, false)
	assert.ErrorIs(t, err, ErrTagRequired)
}

func TestFailureKeepsCacheAndRecordsError(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.data.Tags(ctx, false)
	require.NoError(t, err)

	env.api.Fail("/recipes/tags", http.StatusServiceUnavailable, "Service down")
	_, err = env.data.Tags(ctx, true)
	require.Error(t, err)
	assert.Equal(t, "Service down", err.Error())
	assert.Equal(t, ResourceState{Error: "Service down"}, env.data.State(ResourceTags))

	tags, err := env.data.Tags(ctx, false)
	require.NoError(t, err)
	assert.Contains(t, tags, "Italian")
	assert.Empty(t, env.data.State(ResourceTags).Error)
}

func TestAbandonedRequestLeavesSharedFetchHealthy(t *testing.T) {
	env := newTestEnv(t)
	release := env.api.Hold()
	defer release()

	leaderCtx, cancel := context.WithCancel(context.Background())
	leaderErr := make(chan error, 1)
	go func() {
		_, err := env.data.Recipes(leaderCtx, false)
		leaderErr <- err
	}()
	require.Eventually(t, func() bool { return env.api.Calls("/recipes") == 1 }, time.Second, time.Millisecond)

	followerErr := make(chan error, 1)
	go func() {
		_, err := env.data.Recipes(context.Background(), false)
		followerErr <- err
	}()
	time.Sleep(20 * time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-leaderErr, context.Canceled)

	release()
	require.NoError(t, <-followerErr)
	assert.Equal(t, 1, env.api.Calls("/recipes"))
	assert.Empty(t, env.data.State(ResourceRecipes).Error)
}

func TestFailureWithoutMessageUsesFallback(t *testing.T) {
	env := newTestEnv(t)

	env.api.Fail("/recipes", http.StatusInternalServerError, "")
	_, err := env.data.Recipes(context.Background(), false)
	require.Error(t, err)
	assert.Equal(t, "Failed to fetch recipes", env.data.State(ResourceRecipes).Error)
}

func TestCartListings(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	page, err := env.data.Carts(ctx, 0, 0, false)
	require.NoError(t, err)
	assert.Len(t, page.Carts, 2)
	_, err = env.data.Carts(ctx, 0, 0, false)
	require.NoError(t, err)
	assert.Equal(t, 1, env.api.Calls("/carts"))

	userPage, err := env.data.CartsByUser(ctx, 5, false)
	require.NoError(t, err)
	assert.Equal(t, 5, userPage.Carts[0].UserID)
	_, err = env.data.CartsByUser(ctx, 6, false)
	require.NoError(t, err)
	_, err = env.data.CartsByUser(ctx, 5, false)
	require.NoError(t, err)
	assert.Equal(t, 1, env.api.Calls("/carts/user/5"))
	assert.Equal(t, 1, env.api.Calls("/carts/user/6"))
}

func TestResolveTagThroughCache(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	assert.Equal(t, "Indian", env.data.ResolveTag(ctx, "ind"))
	assert.Equal(t, "Dessert", env.data.ResolveTag(ctx, "sser"))
	assert.Equal(t, 1, env.api.Calls("/recipes/tags"))
}

func TestResolveTagWithoutTags(t *testing.T) {
	env := newTestEnv(t)
	env.api.Fail("/recipes/tags", http.StatusInternalServerError, "")

	assert.Equal(t, "Sushi", env.data.ResolveTag(context.Background(), " Sushi "))
	assert.Equal(t, DefaultTag, env.data.ResolveTag(context.Background(), ""))
}
