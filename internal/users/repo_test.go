package users

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/foamwash/foamwash-backend/pkg/db/models"
	"github.com/foamwash/foamwash-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupUsersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:" + strings.ReplaceAll(t.Name(), "/", "_") + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	schema := `
CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL,
  password_hash TEXT NOT NULL DEFAULT '',
  full_name TEXT NOT NULL DEFAULT '',
  phone TEXT NOT NULL DEFAULT '',
  role TEXT NOT NULL DEFAULT 'client',
  is_active BOOLEAN NOT NULL DEFAULT TRUE,
  last_login_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email ON users (lower(email));`
	require.NoError(t, db.Exec(schema).Error)
	return db
}

func seedUser(t *testing.T, db *gorm.DB, email string, role enums.MemberRole) *models.User {
	t.Helper()

	user := &models.User{
		ID:       uuid.New(),
		Email:    email,
		FullName: "Usuario " + email,
		Role:     role,
		IsActive: true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func TestRepositoryFindByEmailIsCaseInsensitive(t *testing.T) {
	t.Parallel()

	db := setupUsersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	seeded := seedUser(t, db, "cliente@example.com", enums.MemberRoleClient)

	found, err := repo.FindByEmail(ctx, "CLIENTE@Example.COM")
	require.NoError(t, err)
	assert.Equal(t, seeded.ID, found.ID)

	_, err = repo.FindByEmail(ctx, "nadie@example.com")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositorySetActive(t *testing.T) {
	t.Parallel()

	db := setupUsersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	user := seedUser(t, db, "empleado@example.com", enums.MemberRoleEmployee)

	changed, err := repo.SetActive(ctx, user.ID, false)
	require.NoError(t, err)
	assert.Equal(t, int64(1), changed)

	reloaded, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.False(t, reloaded.IsActive)

	changed, err = repo.SetActive(ctx, uuid.New(), false)
	require.NoError(t, err)
	assert.Zero(t, changed)
}

func TestRepositoryUpdateLastLogin(t *testing.T) {
	t.Parallel()

	db := setupUsersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	user := seedUser(t, db, "cliente@example.com", enums.MemberRoleClient)
	at := time.Date(2026, time.March, 10, 8, 0, 0, 0, time.UTC)

	require.NoError(t, repo.UpdateLastLogin(ctx, user.ID, at))

	reloaded, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, reloaded.LastLoginAt)
	assert.True(t, reloaded.LastLoginAt.Equal(at))
}

func TestRepositoryListFiltersByRole(t *testing.T) {
	t.Parallel()

	db := setupUsersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	seedUser(t, db, "a@example.com", enums.MemberRoleClient)
	seedUser(t, db, "b@example.com", enums.MemberRoleEmployee)
	seedUser(t, db, "c@example.com", enums.MemberRoleEmployee)

	role := enums.MemberRoleEmployee
	rows, next, err := repo.List(ctx, listUsersParams{Role: &role})
	require.NoError(t, err)
	assert.Nil(t, next)
	require.Len(t, rows, 2)
	for _, row := range rows {
		assert.Equal(t, enums.MemberRoleEmployee, row.Role)
	}
}
