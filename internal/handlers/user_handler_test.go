package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	redis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/scenestack/scenestack/config"
	"github.com/scenestack/scenestack/internal/handlers"
	"github.com/scenestack/scenestack/internal/repositories"
	"github.com/scenestack/scenestack/internal/routers"
	"github.com/scenestack/scenestack/internal/services"
	"github.com/scenestack/scenestack/internal/storage"
	pkgutils "github.com/scenestack/scenestack/pkg/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
	pkgutils.SetJWTSecret("test-secret")
}

// setupServer wires the full HTTP stack against in-memory backends.
func setupServer(t *testing.T) *gin.Engine {
	t.Helper()

	name := strings.ReplaceAll(t.Name(), "/", "_")
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, storage.Migrate(db))

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { redisClient.Close() })

	userRepo := repositories.NewUserRepository(db)
	movieRepo := repositories.NewMovieRepository(db)
	watchRepo := repositories.NewWatchRepository(db)
	groupRepo := repositories.NewGroupRepository(db)
	feedRepo := repositories.NewFeedRepository(db)
	insightRepo := repositories.NewInsightRepository(db)

	staged := services.NewStagedActionStore(redisClient)
	denylist := services.NewTokenDenylist(redisClient)
	feed := services.NewFeedPublisher(nil, feedRepo)
	authService := services.NewAuthService(userRepo, denylist)
	userService := services.NewUserService(userRepo, staged)
	movieService := services.NewMovieService(movieRepo)
	watchService := services.NewWatchService(watchRepo, movieRepo, groupRepo, feed)
	groupService := services.NewGroupService(groupRepo, userRepo, feed)
	feedService := services.NewFeedService(feedRepo, groupRepo)
	insightService := services.NewInsightService(insightRepo, groupRepo)
	deletionService := services.NewDeletionService(userRepo, groupRepo, staged, feed, "admin")

	r := gin.New()
	routers.SetupRoutes(r, &config.Config{},
		handlers.NewAuthHandler(authService),
		handlers.NewUserHandler(userService, deletionService),
		handlers.NewGroupHandler(groupService, feedService),
		handlers.NewMovieHandler(movieService),
		handlers.NewWatchHandler(watchService),
		handlers.NewInsightHandler(insightService, feedService),
		denylist,
		nil,
	)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func register(t *testing.T, r *gin.Engine, username string) string {
	t.Helper()

	w := doJSON(t, r, http.MethodPost, "/api/users/register", "", gin.H{
		"username": username,
		"email":    username + "@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Data.Token)
	return resp.Data.Token
}

func TestAccountDeletionWorkflow(t *testing.T) {
	r := setupServer(t)

	ownerToken := register(t, r, "owner")
	heirToken := register(t, r, "heir")

	// Owner creates a group, heir joins via invite code.
	w := doJSON(t, r, http.MethodPost, "/api/groups", ownerToken, gin.H{"name": "movie-night"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created struct {
		Data struct {
			ID         uint   `json:"id"`
			InviteCode string `json:"invite_code"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = doJSON(t, r, http.MethodPost, "/api/groups/join", heirToken, gin.H{"invite_code": created.Data.InviteCode})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// The created-groups report shows the heir as an eligible recipient.
	w = doJSON(t, r, http.MethodGet, "/api/users/groups/created", ownerToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var report struct {
		Data []struct {
			GroupID         uint `json:"groupId"`
			CanTransfer     bool `json:"canTransfer"`
			EligibleMembers []struct {
				UserID     uint `json:"userId"`
				IsEligible bool `json:"isEligible"`
			} `json:"eligibleMembers"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	require.Len(t, report.Data, 1)
	assert.True(t, report.Data[0].CanTransfer)
	require.Len(t, report.Data[0].EligibleMembers, 1)
	heirID := report.Data[0].EligibleMembers[0].UserID

	// Deleting without a staged decision fails with a validation error.
	w = doJSON(t, r, http.MethodDelete, "/api/users/account", ownerToken, gin.H{"password": "password123"})
	assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())

	// Stage a transfer, then delete.
	w = doJSON(t, r, http.MethodPost, "/api/users/groups/manage", ownerToken, gin.H{
		"groupActions": []gin.H{
			{"groupId": created.Data.ID, "action": "transfer", "transferToUserId": heirID},
		},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(t, r, http.MethodDelete, "/api/users/account", ownerToken, gin.H{"password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code, w.Body.String())

	w = doJSON(t, r, http.MethodDelete, "/api/users/account", ownerToken, gin.H{"password": "password123"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// The heir now owns the group.
	w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/groups/%d", created.Data.ID), heirToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var detail struct {
		Data struct {
			Group struct {
				CreatedByID uint `json:"created_by_id"`
			} `json:"group"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &detail))
	assert.Equal(t, heirID, detail.Data.Group.CreatedByID)

	// The deleted account's token no longer resolves to a profile.
	w = doJSON(t, r, http.MethodGet, "/api/users/me", ownerToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code, w.Body.String())
}

func TestManageGroupsRejectsForeignGroup(t *testing.T) {
	r := setupServer(t)

	register(t, r, "owner")
	intruderToken := register(t, r, "intruder")

	w := doJSON(t, r, http.MethodPost, "/api/users/groups/manage", intruderToken, gin.H{
		"groupActions": []gin.H{{"groupId": 12345, "action": "delete"}},
	})
	assert.Equal(t, http.StatusForbidden, w.Code, w.Body.String())
}

func TestAuthRequired(t *testing.T) {
	r := setupServer(t)

	w := doJSON(t, r, http.MethodGet, "/api/users/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/users/me", "garbage-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestDeactivateReactivateEndpoints(t *testing.T) {
	r := setupServer(t)
	token := register(t, r, "alice")

	w := doJSON(t, r, http.MethodPost, "/api/users/deactivate", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(t, r, http.MethodGet, "/api/users/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var me struct {
		Data struct {
			IsDeactivated bool `json:"is_deactivated"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &me))
	assert.True(t, me.Data.IsDeactivated)

	w = doJSON(t, r, http.MethodPost, "/api/users/reactivate", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestLogoutRevokesToken(t *testing.T) {
	r := setupServer(t)
	token := register(t, r, "alice")

	w := doJSON(t, r, http.MethodGet, "/api/users/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(t, r, http.MethodPost, "/api/users/logout", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(t, r, http.MethodGet, "/api/users/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
