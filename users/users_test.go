package users_test

import (
	"testing"

	apperrors "github.com/jrsteele09/clinic-gateway/internal/errors"
	"github.com/jrsteele09/clinic-gateway/token/jwt"
	"github.com/jrsteele09/clinic-gateway/users"
	fakeuserrepo "github.com/jrsteele09/clinic-gateway/users/repofake"
	"github.com/stretchr/testify/require"
)

func TestPasswordHashing(t *testing.T) {
	hash, err := users.HashPassword("secret123")
	require.NoError(t, err)
	require.True(t, users.CheckPasswordHash("secret123", hash))
	require.False(t, users.CheckPasswordHash("secret124", hash))
}

func TestValidatePassword(t *testing.T) {
	require.NoError(t, users.ValidatePassword("abcdefg1"))
	require.ErrorContains(t, users.ValidatePassword("a1"), "at least 8")
	require.ErrorContains(t, users.ValidatePassword("abcdefgh"), "letter and a digit")
	require.ErrorContains(t, users.ValidatePassword("12345678"), "letter and a digit")
}

func TestUser_Validate(t *testing.T) {
	valid := users.User{Name: "Ada", Email: "ada@clinic.test", Role: jwt.RoleDoctor}
	require.NoError(t, valid.Validate())

	noName := valid
	noName.Name = " "
	require.Error(t, noName.Validate())

	badEmail := valid
	badEmail.Email = "ada"
	require.Error(t, badEmail.Validate())

	badRole := valid
	badRole.Role = "janitor"
	require.ErrorContains(t, badRole.Validate(), "unknown role")
}

func TestFakeUserRepo(t *testing.T) {
	repo := fakeuserrepo.NewFakeUserRepo()

	ada := &users.User{InstitutionID: 1, Name: "Ada", Email: "ada@clinic.test", Role: jwt.RoleDoctor}
	require.NoError(t, repo.Create(ada))
	require.Equal(t, int64(1), ada.ID)

	nurse := &users.User{InstitutionID: 1, Name: "Flo", Email: "flo@clinic.test", Role: jwt.RoleNurse}
	require.NoError(t, repo.Create(nurse))
	other := &users.User{InstitutionID: 2, Name: "Bob", Email: "bob@clinic.test", Role: jwt.RoleDoctor}
	require.NoError(t, repo.Create(other))

	t.Run("duplicate email", func(t *testing.T) {
		err := repo.Create(&users.User{InstitutionID: 2, Name: "Ada2", Email: "ADA@clinic.test", Role: jwt.RoleLab})
		require.ErrorIs(t, err, apperrors.ErrConflict)
	})

	t.Run("scoped to institution", func(t *testing.T) {
		_, err := repo.GetByID(2, ada.ID)
		require.ErrorIs(t, err, apperrors.ErrNotFound)

		got, err := repo.GetByID(1, ada.ID)
		require.NoError(t, err)
		require.Equal(t, "Ada", got.Name)
	})

	t.Run("list by role", func(t *testing.T) {
		all, err := repo.List(1, "")
		require.NoError(t, err)
		require.Len(t, all, 2)
		require.Equal(t, ada.ID, all[0].ID)

		nurses, err := repo.List(1, jwt.RoleNurse)
		require.NoError(t, err)
		require.Len(t, nurses, 1)
		require.Equal(t, "Flo", nurses[0].Name)
	})

	t.Run("update and email index", func(t *testing.T) {
		got, err := repo.GetByID(1, nurse.ID)
		require.NoError(t, err)
		got.Email = "florence@clinic.test"
		require.NoError(t, repo.Update(got))

		_, err = repo.GetByEmail("flo@clinic.test")
		require.ErrorIs(t, err, apperrors.ErrNotFound)
		found, err := repo.GetByEmail("florence@clinic.test")
		require.NoError(t, err)
		require.Equal(t, nurse.ID, found.ID)

		got.Email = "bob@clinic.test"
		require.ErrorIs(t, repo.Update(got), apperrors.ErrConflict)
	})

	t.Run("returned users are copies", func(t *testing.T) {
		got, err := repo.GetByID(1, ada.ID)
		require.NoError(t, err)
		got.Name = "changed"

		again, err := repo.GetByID(1, ada.ID)
		require.NoError(t, err)
		require.Equal(t, "Ada", again.Name)
	})

	t.Run("delete", func(t *testing.T) {
		require.ErrorIs(t, repo.Delete(2, ada.ID), apperrors.ErrNotFound)
		require.NoError(t, repo.Delete(1, ada.ID))
		_, err := repo.GetByEmail("ada@clinic.test")
		require.ErrorIs(t, err, apperrors.ErrNotFound)
	})
}
