package usecases

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/webautomy/relay/internal/repository"
)

type AuthUsecase struct {
	userRepo  *repository.UserRepository
	orgRepo   *repository.OrgRepository
	jwtSecret []byte
}

func NewAuthUsecase(userRepo *repository.UserRepository, orgRepo *repository.OrgRepository, secret string) *AuthUsecase {
	return &AuthUsecase{
		userRepo:  userRepo,
		orgRepo:   orgRepo,
		jwtSecret: []byte(secret),
	}
}

// Register provisions a new tenant: org, owner user and empty wallet.
func (uc *AuthUsecase) Register(ctx context.Context, orgName, username, password string) error {
	existing, err := uc.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return err
	}
	if existing != nil {
		return errors.New("username already exists")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	_, err = uc.orgRepo.CreateWithOwner(ctx, orgName, username, string(hashed))
	return err
}

func (uc *AuthUsecase) Login(ctx context.Context, username, password string) (string, error) {
	user, err := uc.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", errors.New("invalid credentials")
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password))
	if err != nil {
		return "", errors.New("invalid credentials")
	}

	// Generate JWT carrying the org context every tenant-scoped route needs
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID,
		"org_id":  user.OrgID,
		"role":    user.Role,
		"exp":     time.Now().Add(time.Hour * 24).Unix(),
	})

	tokenString, err := token.SignedString(uc.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %v", err)
	}

	return tokenString, nil
}
