package authController

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"rentdesk/internal/controllers"
	"rentdesk/internal/database"
	"rentdesk/internal/logger"
	. "rentdesk/internal/models"
	"rentdesk/internal/repositories"
	"rentdesk/internal/services"

	"gorm.io/gorm"
)

// AuthController handles registration and password login
type AuthController struct {
	userRepo    repositories.UserRepository
	credentials *services.CredentialService
	tokens      *services.TokenService
	transaction *services.TransactionService
	db          database.DB
	log         logger.Logger
}

type AuthControllerInterface interface {
	Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error)
	Login(ctx context.Context, req LoginRequest) (*AuthResponse, error)
}

type RegisterRequest struct {
	Name     string  `json:"name"`
	Phone    string  `json:"phone"`
	Email    *string `json:"email,omitempty"`
	Password string  `json:"password"`
	Role     string  `json:"role"`
}

// LoginRequest accepts either identifier. When both are present the
// phone wins.
type LoginRequest struct {
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	Token string      `json:"token"`
	User  UserProfile `json:"user"`
}

func New(
	repos repositories.Repository,
	services services.Service,
	db database.DB,
) AuthControllerInterface {
	return &AuthController{
		userRepo:    repos.User,
		credentials: services.Credential,
		tokens:      services.Token,
		transaction: services.Transaction,
		db:          db,
		log:         logger.New("authController"),
	}
}

func (ac *AuthController) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	log := ac.log.Function("Register")

	req.Name = strings.TrimSpace(req.Name)
	req.Phone = strings.TrimSpace(req.Phone)

	if req.Name == "" {
		return nil, log.ErrorWithType(controllers.ErrValidation, "name is required")
	}
	if req.Phone == "" {
		return nil, log.ErrorWithType(controllers.ErrValidation, "phone is required")
	}
	if len(req.Password) < 8 {
		return nil, log.ErrorWithType(controllers.ErrValidation, "password must be at least 8 characters")
	}

	role := UserRole(req.Role)
	if !role.Valid() {
		return nil, log.ErrorWithType(controllers.ErrValidation, "role must be tenant or landlord")
	}

	if _, err := ac.userRepo.GetByPhone(ctx, req.Phone); err == nil {
		return nil, log.ErrorWithType(controllers.ErrConflict, "phone number is already registered")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, log.Err("failed to check for existing user", err)
	}

	hash, err := ac.credentials.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("%w: password could not be hashed", controllers.ErrValidation)
	}

	user := &User{
		Name:         req.Name,
		Phone:        req.Phone,
		Email:        req.Email,
		Role:         role,
		PasswordHash: hash,
	}

	err = ac.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		return ac.userRepo.Create(ctx, tx, user)
	})
	if err != nil {
		return nil, log.Err("failed to create user", err, "phone", req.Phone)
	}

	token, err := ac.tokens.Issue(user.ID, user.Role)
	if err != nil {
		return nil, log.Err("failed to issue token for new user", err, "userID", user.ID)
	}

	log.Info("User registered", "userID", user.ID, "role", user.Role)

	return &AuthResponse{Token: token, User: user.ToProfile()}, nil
}

func (ac *AuthController) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	log := ac.log.Function("Login")

	phone := strings.TrimSpace(req.Phone)
	email := strings.TrimSpace(req.Email)

	if (phone == "" && email == "") || req.Password == "" {
		return nil, log.ErrorWithType(controllers.ErrValidation, "phone or email and password are required")
	}

	var user *User
	var err error
	if phone != "" {
		user, err = ac.userRepo.GetByPhone(ctx, phone)
	} else {
		user, err = ac.userRepo.GetByEmail(ctx, email)
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Same answer as a bad password so callers cannot probe
			// which identifiers exist.
			return nil, log.ErrorWithType(controllers.ErrUnauthenticated, "invalid credentials")
		}
		return nil, log.Err("failed to look up user", err)
	}

	if !ac.credentials.VerifyPassword(user.PasswordHash, req.Password) {
		return nil, log.ErrorWithType(controllers.ErrUnauthenticated, "invalid credentials")
	}

	token, err := ac.tokens.Issue(user.ID, user.Role)
	if err != nil {
		return nil, log.Err("failed to issue token", err, "userID", user.ID)
	}

	log.Info("User logged in", "userID", user.ID)

	return &AuthResponse{Token: token, User: user.ToProfile()}, nil
}
