package services

import (
	"fmt"
	"strings"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	redis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/scenestack/scenestack/internal/models"
	"github.com/scenestack/scenestack/internal/repositories"
	"github.com/scenestack/scenestack/internal/storage"
	"github.com/scenestack/scenestack/internal/utils"
)

// setupTestDB opens an isolated in-memory database with the full schema.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, storage.Migrate(db))
	return db
}

// setupTestRedis creates a miniredis instance for testing.
func setupTestRedis(t *testing.T) *redis.Client {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() { client.Close() })
	return client
}

const testPassword = "password123"

// createUser inserts a user with the shared test password.
func createUser(t *testing.T, db *gorm.DB, username string, premium bool) *models.User {
	t.Helper()

	hash, err := utils.HashPassword(testPassword)
	require.NoError(t, err)

	user := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: hash,
		Nickname:     username,
		IsPremium:    premium,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// createGroup creates a group owned by creatorID, then joins the given users
// as plain members.
func createGroup(t *testing.T, groupRepo *repositories.GroupRepository, creatorID uint, name string, memberIDs ...uint) *models.Group {
	t.Helper()

	group := &models.Group{
		Name:        name,
		CreatedByID: creatorID,
		InviteCode:  utils.GenerateInviteCode(),
	}
	require.NoError(t, groupRepo.CreateWithCreator(group))

	for _, id := range memberIDs {
		require.NoError(t, groupRepo.AddMember(&models.GroupMember{
			GroupID:  group.ID,
			UserID:   id,
			Role:     models.RoleMember,
			JoinedAt: time.Now(),
		}))
	}
	return group
}

// fixture bundles the repositories and services most tests need.
type fixture struct {
	db       *gorm.DB
	users    *repositories.UserRepository
	groups   *repositories.GroupRepository
	feeds    *repositories.FeedRepository
	staged   *StagedActionStore
	denylist *TokenDenylist
	feed     *FeedPublisher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := setupTestDB(t)
	feeds := repositories.NewFeedRepository(db)
	redisClient := setupTestRedis(t)
	return &fixture{
		db:       db,
		users:    repositories.NewUserRepository(db),
		groups:   repositories.NewGroupRepository(db),
		feeds:    feeds,
		staged:   NewStagedActionStore(redisClient),
		denylist: NewTokenDenylist(redisClient),
		feed:     NewFeedPublisher(nil, feeds), // degraded mode, direct writes
	}
}

func (f *fixture) deletionService(outgoingCreatorRole string) *DeletionService {
	return NewDeletionService(f.users, f.groups, f.staged, f.feed, outgoingCreatorRole)
}

func (f *fixture) groupService() *GroupService {
	return NewGroupService(f.groups, f.users, f.feed)
}
