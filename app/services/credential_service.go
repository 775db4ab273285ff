package services

import (
	"context"

	"github.com/Rakhulsr/catalog-api/app/helpers"
	"github.com/Rakhulsr/catalog-api/app/models"
	"github.com/Rakhulsr/catalog-api/app/repositories"
	"golang.org/x/crypto/bcrypt"
)

const (
	PasswordHashCost = 12

	MsgInvalidCredentials = "Invalid username or password"
)

// dummyHash is compared against when the username is unknown so both paths cost one bcrypt run.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("catalog-api-placeholder"), PasswordHashCost)

type CredentialVerifier struct {
	users repositories.AdminUserRepositoryImpl
}

func NewCredentialVerifier(users repositories.AdminUserRepositoryImpl) *CredentialVerifier {
	return &CredentialVerifier{users: users}
}

// Verify never says which of username or password was wrong.
func (v *CredentialVerifier) Verify(ctx context.Context, username, password string) (*models.AdminUser, error) {
	user, err := v.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	hash := dummyHash
	if user != nil {
		hash = []byte(user.PasswordHash)
	}
	if err := bcrypt.CompareHashAndPassword(hash, []byte(password)); err != nil || user == nil {
		return nil, helpers.NewUnauthorized(MsgInvalidCredentials)
	}
	return user, nil
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), PasswordHashCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}
