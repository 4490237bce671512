package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scenestack/scenestack/internal/models"
	"github.com/scenestack/scenestack/internal/repositories"
)

func newWatchService(f *fixture) (*WatchService, *repositories.MovieRepository, *repositories.WatchRepository) {
	movies := repositories.NewMovieRepository(f.db)
	watches := repositories.NewWatchRepository(f.db)
	return NewWatchService(watches, movies, f.groups, f.feed), movies, watches
}

func createMovie(t *testing.T, movies *repositories.MovieRepository, title, genres string) *models.Movie {
	t.Helper()
	movie := &models.Movie{Title: title, Year: 2020, Genres: genres}
	require.NoError(t, movies.Create(movie))
	return movie
}

func TestWatchService_LogWatch(t *testing.T) {
	f := newFixture(t)
	svc, movies, _ := newWatchService(f)
	user := createUser(t, f.db, "alice", false)
	movie := createMovie(t, movies, "Heat", "crime,thriller")

	rating := 8.5
	watch, err := svc.LogWatch(user.ID, &LogWatchRequest{
		MovieID:   movie.ID,
		WatchedOn: "2026-08-01",
		Rating:    &rating,
		Review:    "still holds up",
	})
	require.NoError(t, err)
	assert.Equal(t, "Heat", watch.MovieTitle)
	assert.Equal(t, "2026-08-01", watch.WatchedOn)

	_, err = svc.LogWatch(user.ID, &LogWatchRequest{MovieID: 9999})
	assert.ErrorIs(t, err, ErrMovieNotFound)

	_, err = svc.LogWatch(user.ID, &LogWatchRequest{MovieID: movie.ID, WatchedOn: "01/08/2026"})
	assert.Error(t, err)

	bad := 11.0
	_, err = svc.LogWatch(user.ID, &LogWatchRequest{MovieID: movie.ID, Rating: &bad})
	assert.Error(t, err)
}

func TestWatchService_UpdateAndDeleteOwnerOnly(t *testing.T) {
	f := newFixture(t)
	svc, movies, _ := newWatchService(f)
	owner := createUser(t, f.db, "owner", false)
	other := createUser(t, f.db, "other", false)
	movie := createMovie(t, movies, "Heat", "crime")

	watch, err := svc.LogWatch(owner.ID, &LogWatchRequest{MovieID: movie.ID})
	require.NoError(t, err)

	var authz *AuthorizationError
	_, err = svc.UpdateWatch(other.ID, watch.ID, &UpdateWatchRequest{})
	require.ErrorAs(t, err, &authz)
	require.ErrorAs(t, svc.DeleteWatch(other.ID, watch.ID), &authz)

	rating := 7.0
	review := "rewatch"
	updated, err := svc.UpdateWatch(owner.ID, watch.ID, &UpdateWatchRequest{Rating: &rating, Review: &review})
	require.NoError(t, err)
	require.NotNil(t, updated.Rating)
	assert.Equal(t, 7.0, *updated.Rating)
	assert.Equal(t, "rewatch", updated.Review)

	require.NoError(t, svc.DeleteWatch(owner.ID, watch.ID))
	_, err = svc.UpdateWatch(owner.ID, watch.ID, &UpdateWatchRequest{})
	assert.ErrorIs(t, err, ErrWatchNotFound)
}

func TestWatchService_ShareIntoGroup(t *testing.T) {
	f := newFixture(t)
	svc, movies, _ := newWatchService(f)
	owner := createUser(t, f.db, "owner", false)
	member := createUser(t, f.db, "member", false)
	outsider := createUser(t, f.db, "outsider", false)
	group := createGroup(t, f.groups, owner.ID, "movie-night", member.ID)
	movie := createMovie(t, movies, "Heat", "crime")

	watch, err := svc.LogWatch(owner.ID, &LogWatchRequest{MovieID: movie.ID})
	require.NoError(t, err)

	// Sharing requires group membership.
	outsiderWatch, err := svc.LogWatch(outsider.ID, &LogWatchRequest{MovieID: movie.ID})
	require.NoError(t, err)
	assert.ErrorIs(t, svc.Share(outsider.ID, outsiderWatch.ID, group.ID), ErrNotMember)

	require.NoError(t, svc.Share(owner.ID, watch.ID, group.ID))
	assert.Error(t, svc.Share(owner.ID, watch.ID, group.ID), "double share is rejected")

	shared, total, err := svc.GroupWatches(member.ID, group.ID, 10, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, shared, 1)
	assert.Equal(t, watch.ID, shared[0].ID)

	// Members who are not in the group see nothing.
	_, _, err = svc.GroupWatches(outsider.ID, group.ID, 10, 0)
	assert.ErrorIs(t, err, ErrNotMember)

	require.NoError(t, svc.Unshare(owner.ID, watch.ID, group.ID))
	_, total, err = svc.GroupWatches(member.ID, group.ID, 10, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 0, total)
}

func TestWatchService_DeleteRemovesGroupLinks(t *testing.T) {
	f := newFixture(t)
	svc, movies, watches := newWatchService(f)
	owner := createUser(t, f.db, "owner", false)
	group := createGroup(t, f.groups, owner.ID, "movie-night")
	movie := createMovie(t, movies, "Heat", "crime")

	watch, err := svc.LogWatch(owner.ID, &LogWatchRequest{MovieID: movie.ID})
	require.NoError(t, err)
	require.NoError(t, svc.Share(owner.ID, watch.ID, group.ID))

	require.NoError(t, svc.DeleteWatch(owner.ID, watch.ID))

	shared, err := watches.IsShared(watch.ID, group.ID)
	require.NoError(t, err)
	assert.False(t, shared)
}
