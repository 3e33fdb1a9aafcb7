package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/lms/backend/internal/domain/identity"
	"github.com/lms/backend/internal/domain/shared"
)

func setupUserTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&identity.User{})
	require.NoError(t, err)

	return db
}

func newTestUser(t *testing.T, tenantID uuid.UUID, email string) *identity.User {
	t.Helper()
	user, err := identity.NewUser(tenantID, email, "s3curePassw0rd", "Test User")
	require.NoError(t, err)
	return user
}

func TestGormUserRepository_SaveAndFind(t *testing.T) {
	db := setupUserTestDB(t)
	repo := NewGormUserRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()

	user := newTestUser(t, tenantID, "alice@example.com")
	require.NoError(t, repo.Save(ctx, user))

	t.Run("by ID", func(t *testing.T) {
		found, err := repo.FindByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, "alice@example.com", found.Email)
		assert.Equal(t, identity.UserRoleLearner, found.Role)
	})

	t.Run("by email is case insensitive", func(t *testing.T) {
		found, err := repo.FindByEmail(ctx, tenantID, "ALICE@example.com")
		require.NoError(t, err)
		assert.Equal(t, user.ID, found.ID)
	})

	t.Run("email lookup is tenant scoped", func(t *testing.T) {
		_, err := repo.FindByEmail(ctx, uuid.New(), "alice@example.com")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("empty email", func(t *testing.T) {
		_, err := repo.FindByEmail(ctx, tenantID, "")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormUserRepository_ExistsByEmail(t *testing.T) {
	db := setupUserTestDB(t)
	repo := NewGormUserRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()

	require.NoError(t, repo.Save(ctx, newTestUser(t, tenantID, "bob@example.com")))

	exists, err := repo.ExistsByEmail(ctx, tenantID, "Bob@Example.com")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsByEmail(ctx, tenantID, "carol@example.com")
	require.NoError(t, err)
	assert.False(t, exists)

	exists, err = repo.ExistsByEmail(ctx, uuid.New(), "bob@example.com")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestGormUserRepository_SaveUpdates(t *testing.T) {
	db := setupUserTestDB(t)
	repo := NewGormUserRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()

	user := newTestUser(t, tenantID, "dave@example.com")
	require.NoError(t, repo.Save(ctx, user))

	user.RecordLoginSuccess()
	require.NoError(t, repo.Save(ctx, user))

	found, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.NotNil(t, found.LastLoginAt)
	assert.Equal(t, 0, found.FailedAttempts)
}

func TestGormUserRepository_FindAllForTenant(t *testing.T) {
	db := setupUserTestDB(t)
	repo := NewGormUserRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()

	require.NoError(t, repo.Save(ctx, newTestUser(t, tenantID, "u1@example.com")))
	require.NoError(t, repo.Save(ctx, newTestUser(t, tenantID, "u2@example.com")))
	require.NoError(t, repo.Save(ctx, newTestUser(t, uuid.New(), "u3@example.com")))

	users, err := repo.FindAllForTenant(ctx, tenantID, shared.DefaultFilter())
	require.NoError(t, err)
	assert.Len(t, users, 2)

	t.Run("search filter", func(t *testing.T) {
		filter := shared.DefaultFilter()
		filter.Search = "u1"

		users, err := repo.FindAllForTenant(ctx, tenantID, filter)
		require.NoError(t, err)
		require.Len(t, users, 1)
		assert.Equal(t, "u1@example.com", users[0].Email)
	})

	t.Run("count", func(t *testing.T) {
		count, err := repo.Count(ctx, shared.DefaultFilter())
		require.NoError(t, err)
		assert.Equal(t, int64(3), count)
	})
}

func TestGormUserRepository_Delete(t *testing.T) {
	db := setupUserTestDB(t)
	repo := NewGormUserRepository(db)
	ctx := context.Background()

	user := newTestUser(t, uuid.New(), "gone@example.com")
	require.NoError(t, repo.Save(ctx, user))

	require.NoError(t, repo.Delete(ctx, user.ID))
	assert.ErrorIs(t, repo.Delete(ctx, user.ID), shared.ErrNotFound)

	_, err := repo.FindByID(ctx, user.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
