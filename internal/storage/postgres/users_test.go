package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/pribylovaa/go-movie-catalog/internal/models"
	"github.com/pribylovaa/go-movie-catalog/internal/storage"
)

// TestIntegration_SaveUser_And_UserByLogin_OK — happy-path:
// сохранение пользователя и поиск по username и email (регистронезависимо).
func TestIntegration_SaveUser_And_UserByLogin_OK(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()

	u := seedUser(t, st, "gopher", "gopher@example.com")

	byUsername, err := st.UserByLogin(context.Background(), "GOPHER")
	require.NoError(t, err)
	require.Equal(t, u.ID, byUsername.ID)
	require.Equal(t, models.RoleUser, byUsername.Role)
	require.WithinDuration(t, u.CreatedAt, byUsername.CreatedAt, time.Second)

	byEmail, err := st.UserByLogin(context.Background(), "Gopher@Example.Com")
	require.NoError(t, err)
	require.Equal(t, u.ID, byEmail.ID)

	byID, err := st.UserByID(context.Background(), u.ID)
	require.NoError(t, err)
	require.Equal(t, "gopher", byID.Username)
}

// TestIntegration_SaveUser_UniqueViolations — уникальность email и username
// регистронезависима (индексы по lower()), ожидаем storage.ErrAlreadyExists.
func TestIntegration_SaveUser_UniqueViolations(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()

	seedUser(t, st, "gopher", "gopher@example.com")

	now := time.Now().UTC()
	sameEmail := &models.User{
		ID: uuid.New(), Username: "other", Email: "GOPHER@EXAMPLE.COM",
		Role: models.RoleUser, PasswordHash: "h", CreatedAt: now, UpdatedAt: now,
	}
	err := st.SaveUser(context.Background(), sameEmail)
	require.ErrorIs(t, err, storage.ErrAlreadyExists)

	sameUsername := &models.User{
		ID: uuid.New(), Username: "Gopher", Email: "other@example.com",
		Role: models.RoleUser, PasswordHash: "h", CreatedAt: now, UpdatedAt: now,
	}
	err = st.SaveUser(context.Background(), sameUsername)
	require.ErrorIs(t, err, storage.ErrAlreadyExists)
}

// TestIntegration_ExistsChecks — EmailExists/UsernameExists регистронезависимы.
func TestIntegration_ExistsChecks(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()

	seedUser(t, st, "gopher", "gopher@example.com")

	ok, err := st.EmailExists(context.Background(), "GOPHER@example.com")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = st.EmailExists(context.Background(), "absent@example.com")
	require.NoError(t, err)
	require.False(t, ok)

	ok, err = st.UsernameExists(context.Background(), "GoPhEr")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = st.UsernameExists(context.Background(), "absent")
	require.NoError(t, err)
	require.False(t, ok)
}

// TestIntegration_UpdateUser_Partial — обновляются только переданные поля,
// updated_at двигается вперёд.
func TestIntegration_UpdateUser_Partial(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()

	u := seedUser(t, st, "gopher", "gopher@example.com")

	newEmail := "new@example.com"
	got, err := st.UpdateUser(context.Background(), u.ID, storage.UserUpdate{Email: &newEmail})
	require.NoError(t, err)

	require.Equal(t, "new@example.com", got.Email)
	require.Equal(t, "gopher", got.Username)
	require.Equal(t, "hash", got.PasswordHash)
	require.False(t, got.UpdatedAt.Before(u.UpdatedAt))
}

// TestIntegration_UpdateUser_Conflict — апдейт на занятый email другим
// пользователем — storage.ErrAlreadyExists.
func TestIntegration_UpdateUser_Conflict(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()

	seedUser(t, st, "first", "first@example.com")
	second := seedUser(t, st, "second", "second@example.com")

	taken := "FIRST@example.com"
	_, err := st.UpdateUser(context.Background(), second.ID, storage.UserUpdate{Email: &taken})
	require.ErrorIs(t, err, storage.ErrAlreadyExists)
}

// TestIntegration_Users_NotFound — отсутствующие записи.
func TestIntegration_Users_NotFound(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()

	_, err := st.UserByLogin(context.Background(), "absent")
	require.ErrorIs(t, err, storage.ErrNotFound)

	_, err = st.UserByID(context.Background(), uuid.New())
	require.ErrorIs(t, err, storage.ErrNotFound)

	name := "whoever"
	_, err = st.UpdateUser(context.Background(), uuid.New(), storage.UserUpdate{Username: &name})
	require.ErrorIs(t, err, storage.ErrNotFound)
}

// TestIntegration_Users_ContextErrors — отмена и дедлайн контекста
// «просачиваются» в ошибки запросов.
func TestIntegration_Users_ContextErrors(t *testing.T) {
	st, cleanup := startPostgres(t)
	defer cleanup()

	canceled, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := st.UserByLogin(canceled, "gopher")
	require.ErrorIs(t, err, context.Canceled)

	deadline, cancel2 := context.WithTimeout(context.Background(), 0)
	defer cancel2()

	now := time.Now().UTC()
	err = st.SaveUser(deadline, &models.User{
		ID: uuid.New(), Username: "late", Email: "late@example.com",
		Role: models.RoleUser, PasswordHash: "h", CreatedAt: now, UpdatedAt: now,
	})
	require.ErrorIs(t, err, context.DeadlineExceeded)
}
