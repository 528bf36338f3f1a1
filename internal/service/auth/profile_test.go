package auth

import (
	"context"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/pribylovaa/go-movie-catalog/internal/models"
	"github.com/pribylovaa/go-movie-catalog/internal/storage"
)

func strPtr(s string) *string { return &s }

func TestProfileByID(t *testing.T) {
	t.Parallel()

	svc, st, ctrl := newSvc(t)
	defer ctrl.Finish()

	ctx := context.Background()
	user := testUser(t)

	st.EXPECT().UserByID(gomock.Any(), user.ID).Return(user, nil)
	got, err := svc.ProfileByID(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, user.ID, got.ID)

	missing := uuid.New()
	st.EXPECT().UserByID(gomock.Any(), missing).Return(nil, storage.ErrNotFound)
	_, err = svc.ProfileByID(ctx, missing)
	require.ErrorIs(t, err, ErrNotFound)

	_, err = svc.ProfileByID(ctx, uuid.Nil)
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestUpdateProfile_ChangeEmail(t *testing.T) {
	t.Parallel()

	svc, st, ctrl := newSvc(t)
	defer ctrl.Finish()

	user := testUser(t)
	updated := *user
	updated.Email = "new@example.com"

	gomock.InOrder(
		st.EXPECT().UserByID(gomock.Any(), user.ID).Return(user, nil),
		st.EXPECT().EmailExists(gomock.Any(), "new@example.com").Return(false, nil),
		st.EXPECT().UpdateUser(gomock.Any(), user.ID, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ uuid.UUID, upd storage.UserUpdate) (*models.User, error) {
				require.NotNil(t, upd.Email)
				require.Equal(t, "new@example.com", *upd.Email)
				require.Nil(t, upd.Username)
				require.Nil(t, upd.PasswordHash)
				return &updated, nil
			}),
	)

	got, err := svc.UpdateProfile(context.Background(), user.ID, UpdateProfileInput{
		Email: strPtr("New@Example.com"),
	})
	require.NoError(t, err)
	require.Equal(t, "new@example.com", got.Email)
}

func TestUpdateProfile_SameEmailSkipsUniquenessCheck(t *testing.T) {
	t.Parallel()

	svc, st, ctrl := newSvc(t)
	defer ctrl.Finish()

	user := testUser(t)

	// EmailExists не зовётся: значение не меняется, конфликт с самим собой невозможен.
	gomock.InOrder(
		st.EXPECT().UserByID(gomock.Any(), user.ID).Return(user, nil),
		st.EXPECT().UpdateUser(gomock.Any(), user.ID, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ uuid.UUID, upd storage.UserUpdate) (*models.User, error) {
				require.Nil(t, upd.Email)
				return user, nil
			}),
	)

	_, err := svc.UpdateProfile(context.Background(), user.ID, UpdateProfileInput{
		Email: strPtr(user.Email),
	})
	require.NoError(t, err)
}

func TestUpdateProfile_EmailTaken(t *testing.T) {
	t.Parallel()

	svc, st, ctrl := newSvc(t)
	defer ctrl.Finish()

	user := testUser(t)

	gomock.InOrder(
		st.EXPECT().UserByID(gomock.Any(), user.ID).Return(user, nil),
		st.EXPECT().EmailExists(gomock.Any(), "taken@example.com").Return(true, nil),
	)

	_, err := svc.UpdateProfile(context.Background(), user.ID, UpdateProfileInput{
		Email: strPtr("taken@example.com"),
	})
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestUpdateProfile_PasswordFlow(t *testing.T) {
	t.Parallel()

	svc, st, ctrl := newSvc(t)
	defer ctrl.Finish()

	ctx := context.Background()
	oldPW := "OldPass1!"
	user := testUser(t)
	user.PasswordHash = mustHashPW(t, oldPW)

	// new_password без old_password — ошибка аргумента.
	st.EXPECT().UserByID(gomock.Any(), user.ID).Return(user, nil)
	_, err := svc.UpdateProfile(ctx, user.ID, UpdateProfileInput{
		NewPassword: strPtr("NewPass1!"),
	})
	require.ErrorIs(t, err, ErrInvalidArgument)

	// Неверный old_password — отказ как при логине.
	st.EXPECT().UserByID(gomock.Any(), user.ID).Return(user, nil)
	_, err = svc.UpdateProfile(ctx, user.ID, UpdateProfileInput{
		NewPassword: strPtr("NewPass1!"),
		OldPassword: strPtr("wrong"),
	})
	require.ErrorIs(t, err, ErrInvalidCredentials)

	// Новый пароль проходит ту же политику сложности, что и при регистрации.
	st.EXPECT().UserByID(gomock.Any(), user.ID).Return(user, nil)
	_, err = svc.UpdateProfile(ctx, user.ID, UpdateProfileInput{
		NewPassword: strPtr("weak"),
		OldPassword: strPtr(oldPW),
	})
	require.ErrorIs(t, err, ErrWeakPassword)

	// Успех: в сторадж уходит новый хэш, а не пароль.
	gomock.InOrder(
		st.EXPECT().UserByID(gomock.Any(), user.ID).Return(user, nil),
		st.EXPECT().UpdateUser(gomock.Any(), user.ID, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ uuid.UUID, upd storage.UserUpdate) (*models.User, error) {
				require.NotNil(t, upd.PasswordHash)
				require.True(t, checkPassword(*upd.PasswordHash, "NewPass1!"))
				return user, nil
			}),
	)
	_, err = svc.UpdateProfile(ctx, user.ID, UpdateProfileInput{
		NewPassword: strPtr("NewPass1!"),
		OldPassword: strPtr(oldPW),
	})
	require.NoError(t, err)
}

func TestUpdateProfile_UpdateRaceConflict(t *testing.T) {
	t.Parallel()

	svc, st, ctrl := newSvc(t)
	defer ctrl.Finish()

	user := testUser(t)

	gomock.InOrder(
		st.EXPECT().UserByID(gomock.Any(), user.ID).Return(user, nil),
		st.EXPECT().EmailExists(gomock.Any(), "new@example.com").Return(false, nil),
		st.EXPECT().UpdateUser(gomock.Any(), user.ID, gomock.Any()).Return(nil, storage.ErrAlreadyExists),
		st.EXPECT().EmailExists(gomock.Any(), "new@example.com").Return(true, nil),
	)

	_, err := svc.UpdateProfile(context.Background(), user.ID, UpdateProfileInput{
		Email: strPtr("new@example.com"),
	})
	require.ErrorIs(t, err, ErrEmailTaken)
}
