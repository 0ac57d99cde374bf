package userController

import (
	"context"
	"errors"
	"strings"

	"rentdesk/internal/controllers"
	"rentdesk/internal/database"
	"rentdesk/internal/logger"
	. "rentdesk/internal/models"
	"rentdesk/internal/repositories"
	"rentdesk/internal/services"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserController struct {
	userRepo    repositories.UserRepository
	credentials *services.CredentialService
	transaction *services.TransactionService
	db          database.DB
	log         logger.Logger
}

type UserControllerInterface interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*UserProfile, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, req UpdateProfileRequest) (*UserProfile, error)
}

// UpdateProfileRequest carries the editable profile fields. Role is
// deliberately absent: it is fixed at registration.
type UpdateProfileRequest struct {
	Name           *string `json:"name,omitempty"`
	Phone          *string `json:"phone,omitempty"`
	Email          *string `json:"email,omitempty"`
	ProfilePicture *string `json:"profilePicture,omitempty"`
	Password       *string `json:"password,omitempty"`
}

func New(
	repos repositories.Repository,
	services services.Service,
	db database.DB,
) UserControllerInterface {
	return &UserController{
		userRepo:    repos.User,
		credentials: services.Credential,
		transaction: services.Transaction,
		db:          db,
		log:         logger.New("userController"),
	}
}

func (uc *UserController) GetProfile(ctx context.Context, userID uuid.UUID) (*UserProfile, error) {
	log := uc.log.Function("GetProfile")

	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, log.ErrorWithType(controllers.ErrNotFound, "user not found")
		}
		return nil, log.Err("failed to get user", err, "userID", userID)
	}

	profile := user.ToProfile()
	return &profile, nil
}

func (uc *UserController) UpdateProfile(
	ctx context.Context,
	userID uuid.UUID,
	req UpdateProfileRequest,
) (*UserProfile, error) {
	log := uc.log.Function("UpdateProfile")

	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, log.ErrorWithType(controllers.ErrNotFound, "user not found")
		}
		return nil, log.Err("failed to get user", err, "userID", userID)
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, log.ErrorWithType(controllers.ErrValidation, "name cannot be empty")
		}
		user.Name = name
	}
	if req.Phone != nil {
		phone := strings.TrimSpace(*req.Phone)
		if phone == "" {
			return nil, log.ErrorWithType(controllers.ErrValidation, "phone cannot be empty")
		}
		if existing, err := uc.userRepo.GetByPhone(ctx, phone); err == nil && existing.ID != user.ID {
			return nil, log.ErrorWithType(controllers.ErrConflict, "phone number already in use")
		}
		user.Phone = phone
	}
	if req.Email != nil {
		user.Email = req.Email
	}
	if req.ProfilePicture != nil {
		user.ProfilePicture = *req.ProfilePicture
	}
	if req.Password != nil {
		if len(*req.Password) < 8 {
			return nil, log.ErrorWithType(controllers.ErrValidation, "password must be at least 8 characters")
		}
		hash, err := uc.credentials.HashPassword(*req.Password)
		if err != nil {
			return nil, log.Err("failed to hash password", err)
		}
		user.PasswordHash = hash
	}

	err = uc.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		return uc.userRepo.Update(ctx, tx, user)
	})
	if err != nil {
		return nil, log.Err("failed to update user", err, "userID", userID)
	}

	log.Info("Profile updated", "userID", userID)

	profile := user.ToProfile()
	return &profile, nil
}
