package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/pribylovaa/go-movie-catalog/internal/models"
	"github.com/pribylovaa/go-movie-catalog/internal/storage"
)

func mustHashPW(t *testing.T, pw string) string {
	t.Helper()
	h, err := hashPassword(pw)
	require.NoError(t, err)
	return h
}

func TestRegister_OK(t *testing.T) {
	t.Parallel()

	svc, st, ctrl := newSvc(t)
	defer ctrl.Finish()

	ctx := context.Background()
	pw := "Abcdef1!"

	gomock.InOrder(
		st.EXPECT().EmailExists(gomock.Any(), "user@example.com").Return(false, nil),
		st.EXPECT().UsernameExists(gomock.Any(), "gopher").Return(false, nil),
		st.EXPECT().SaveUser(gomock.Any(), gomock.Any()).Return(nil),
	)

	user, err := svc.Register(ctx, RegisterInput{
		Username: "gopher",
		Email:    "User@Example.com",
		Password: pw,
	})
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, user.ID)
	require.Equal(t, "user@example.com", user.Email)
	require.Equal(t, models.RoleUser, user.Role)
	require.NotEqual(t, pw, user.PasswordHash)
	require.True(t, checkPassword(user.PasswordHash, pw))
}

func TestRegister_Validation(t *testing.T) {
	t.Parallel()

	svc, _, ctrl := newSvc(t)
	defer ctrl.Finish()

	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Username: "gopher", Email: "not-an-email", Password: "Abcdef1!"})
	require.ErrorIs(t, err, ErrInvalidEmail)

	_, err = svc.Register(ctx, RegisterInput{Username: "ab", Email: "u@e.com", Password: "Abcdef1!"})
	require.ErrorIs(t, err, ErrInvalidUsername)

	// '@' в username ломает поиск по username-или-email.
	_, err = svc.Register(ctx, RegisterInput{Username: "go@pher", Email: "u@e.com", Password: "Abcdef1!"})
	require.ErrorIs(t, err, ErrInvalidUsername)

	_, err = svc.Register(ctx, RegisterInput{Username: "gopher", Email: "u@e.com", Password: ""})
	require.ErrorIs(t, err, ErrEmptyPassword)

	_, err = svc.Register(ctx, RegisterInput{Username: "gopher", Email: "u@e.com", Password: "abcdefgh"})
	require.ErrorIs(t, err, ErrWeakPassword)
}

func TestRegister_EmailConflictBeforeUsername(t *testing.T) {
	t.Parallel()

	svc, st, ctrl := newSvc(t)
	defer ctrl.Finish()

	// Оба поля заняты; ошибка должна быть про email — UsernameExists не зовётся.
	st.EXPECT().EmailExists(gomock.Any(), "taken@example.com").Return(true, nil)

	_, err := svc.Register(context.Background(), RegisterInput{
		Username: "taken_name",
		Email:    "taken@example.com",
		Password: "Abcdef1!",
	})
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestRegister_UsernameConflict(t *testing.T) {
	t.Parallel()

	svc, st, ctrl := newSvc(t)
	defer ctrl.Finish()

	gomock.InOrder(
		st.EXPECT().EmailExists(gomock.Any(), "free@example.com").Return(false, nil),
		st.EXPECT().UsernameExists(gomock.Any(), "taken_name").Return(true, nil),
	)

	_, err := svc.Register(context.Background(), RegisterInput{
		Username: "taken_name",
		Email:    "free@example.com",
		Password: "Abcdef1!",
	})
	require.ErrorIs(t, err, ErrUsernameTaken)
}

func TestRegister_InsertRaceKeepsEmailOrdering(t *testing.T) {
	t.Parallel()

	svc, st, ctrl := newSvc(t)
	defer ctrl.Finish()

	// Предварительные проверки прошли, но между ними и INSERT кто-то занял email:
	// уникальный индекс даёт ErrAlreadyExists, повторная проверка уточняет поле.
	gomock.InOrder(
		st.EXPECT().EmailExists(gomock.Any(), "race@example.com").Return(false, nil),
		st.EXPECT().UsernameExists(gomock.Any(), "racer").Return(false, nil),
		st.EXPECT().SaveUser(gomock.Any(), gomock.Any()).Return(storage.ErrAlreadyExists),
		st.EXPECT().EmailExists(gomock.Any(), "race@example.com").Return(true, nil),
	)

	_, err := svc.Register(context.Background(), RegisterInput{
		Username: "racer",
		Email:    "race@example.com",
		Password: "Abcdef1!",
	})
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestLogin_OKByUsernameOrEmail(t *testing.T) {
	t.Parallel()

	svc, st, ctrl := newSvc(t)
	defer ctrl.Finish()

	pw := "Abcdef1!"
	user := testUser(t)
	user.PasswordHash = mustHashPW(t, pw)

	// Логин принимает и username, и email — сторадж сам решает, чем это было.
	st.EXPECT().UserByLogin(gomock.Any(), "gopher").Return(user, nil)

	pair, got, err := svc.Login(context.Background(), "  gopher  ", pw)
	require.NoError(t, err)
	require.Equal(t, user.ID, got.ID)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)

	claims, err := svc.Authenticate(context.Background(), pair.AccessToken)
	require.NoError(t, err)
	require.Equal(t, user.ID, claims.UserID)
}

func TestLogin_GenericFailure(t *testing.T) {
	t.Parallel()

	svc, st, ctrl := newSvc(t)
	defer ctrl.Finish()

	ctx := context.Background()

	// Неизвестный логин и неверный пароль неразличимы для клиента.
	st.EXPECT().UserByLogin(gomock.Any(), "ghost").Return(nil, storage.ErrNotFound)
	_, _, err := svc.Login(ctx, "ghost", "Abcdef1!")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	user := testUser(t)
	user.PasswordHash = mustHashPW(t, "Correct1!")
	st.EXPECT().UserByLogin(gomock.Any(), "gopher").Return(user, nil)
	_, _, err = svc.Login(ctx, "gopher", "Wrong1!aa")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.Login(ctx, "", "")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRefresh_FullRotation(t *testing.T) {
	t.Parallel()

	svc, st, ctrl := newSvc(t)
	defer ctrl.Finish()

	ctx := context.Background()
	user := testUser(t)

	pair, err := svc.issueTokenPair(ctx, user)
	require.NoError(t, err)

	st.EXPECT().UserByID(gomock.Any(), user.ID).Return(user, nil)

	rotated, got, err := svc.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
	require.Equal(t, user.ID, got.ID)

	// Полная ротация: обе строки новые и обе независимо валидны.
	require.NotEqual(t, pair.AccessToken, rotated.AccessToken)
	require.NotEqual(t, pair.RefreshToken, rotated.RefreshToken)

	_, err = svc.Authenticate(ctx, rotated.AccessToken)
	require.NoError(t, err)
	_, err = svc.validateRefreshToken(rotated.RefreshToken)
	require.NoError(t, err)
}

func TestRefresh_UserGone(t *testing.T) {
	t.Parallel()

	svc, st, ctrl := newSvc(t)
	defer ctrl.Finish()

	ctx := context.Background()
	user := testUser(t)

	pair, err := svc.issueTokenPair(ctx, user)
	require.NoError(t, err)

	st.EXPECT().UserByID(gomock.Any(), user.ID).Return(nil, storage.ErrNotFound)

	_, _, err = svc.Refresh(ctx, pair.RefreshToken)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestRefresh_RejectsExpiredAndMalformedAlike(t *testing.T) {
	t.Parallel()

	svc, _, ctrl := newSvc(t)
	defer ctrl.Finish()

	ctx := context.Background()

	// Для refresh различие expired/malformed наружу не выносится.
	expCfg := testCfg()
	expCfg.RefreshTokenTTL = -time.Minute
	expired := New(nil, expCfg)

	pair, err := expired.issueTokenPair(ctx, testUser(t))
	require.NoError(t, err)

	_, _, err = svc.Refresh(ctx, pair.RefreshToken)
	require.ErrorIs(t, err, ErrInvalidToken)

	_, _, err = svc.Refresh(ctx, "garbage")
	require.ErrorIs(t, err, ErrInvalidToken)

	// Access-токен в роли refresh — тоже ErrInvalidToken.
	valid, err := svc.issueTokenPair(ctx, testUser(t))
	require.NoError(t, err)
	_, _, err = svc.Refresh(ctx, valid.AccessToken)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthenticate_PreservesExpiredDistinction(t *testing.T) {
	t.Parallel()

	svc, _, ctrl := newSvc(t)
	defer ctrl.Finish()

	ctx := context.Background()

	pair, err := expiredSvc().issueTokenPair(ctx, testUser(t))
	require.NoError(t, err)

	_, err = svc.Authenticate(ctx, pair.AccessToken)
	require.ErrorIs(t, err, ErrTokenExpired)

	_, err = svc.Authenticate(ctx, "garbage")
	require.ErrorIs(t, err, ErrInvalidToken)
}
