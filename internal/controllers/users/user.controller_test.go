package userController

import (
	"context"
	"testing"

	"rentdesk/internal/controllers"
	"rentdesk/internal/database"
	"rentdesk/internal/logger"
	. "rentdesk/internal/models"
	"rentdesk/internal/services"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type fakeUserRepo struct {
	byID map[uuid.UUID]*User
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	user, ok := f.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *user
	return &copied, nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*User, error) {
	for _, user := range f.byID {
		if user.Email != nil && *user.Email == email {
			return user, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) GetByPhone(ctx context.Context, phone string) (*User, error) {
	for _, user := range f.byID {
		if user.Phone == phone {
			return user, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) Create(ctx context.Context, tx *gorm.DB, user *User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	stored := *user
	f.byID[user.ID] = &stored
	return nil
}

func (f *fakeUserRepo) Update(ctx context.Context, tx *gorm.DB, user *User) error {
	stored := *user
	f.byID[user.ID] = &stored
	return nil
}

func newController(t *testing.T, users ...*User) (*UserController, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{})
	require.NoError(t, err)

	db := database.DB{SQL: gormDB}

	repo := &fakeUserRepo{byID: make(map[uuid.UUID]*User)}
	for _, user := range users {
		repo.byID[user.ID] = user
	}

	controller := &UserController{
		userRepo:    repo,
		credentials: services.NewCredentialService(),
		transaction: services.NewTransactionService(db),
		db:          db,
		log:         logger.New("userControllerTest"),
	}

	return controller, mock
}

func testUser() *User {
	user := &User{
		Name:  "Terry Tenant",
		Phone: "555-0199",
		Role:  RoleTenant,
	}
	user.ID = uuid.New()
	return user
}

func TestUserController_GetProfile(t *testing.T) {
	user := testUser()
	controller, _ := newController(t, user)

	profile, err := controller.GetProfile(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Terry Tenant", profile.Name)

	_, err = controller.GetProfile(context.Background(), uuid.New())
	assert.ErrorIs(t, err, controllers.ErrNotFound)
}

func TestUserController_UpdateProfile(t *testing.T) {
	user := testUser()
	controller, mock := newController(t, user)
	mock.ExpectBegin()
	mock.ExpectCommit()

	name := "Terrence Tenant"
	email := "terrence@example.com"

	profile, err := controller.UpdateProfile(context.Background(), user.ID, UpdateProfileRequest{
		Name:  &name,
		Email: &email,
	})
	require.NoError(t, err)
	assert.Equal(t, "Terrence Tenant", profile.Name)
	require.NotNil(t, profile.Email)
	assert.Equal(t, email, *profile.Email)
	// Role never changes through profile updates.
	assert.Equal(t, string(RoleTenant), profile.Role)
}

func TestUserController_UpdateProfile_Validation(t *testing.T) {
	user := testUser()
	controller, _ := newController(t, user)

	empty := " "
	_, err := controller.UpdateProfile(context.Background(), user.ID, UpdateProfileRequest{
		Name: &empty,
	})
	assert.ErrorIs(t, err, controllers.ErrValidation)

	short := "short"
	_, err = controller.UpdateProfile(context.Background(), user.ID, UpdateProfileRequest{
		Password: &short,
	})
	assert.ErrorIs(t, err, controllers.ErrValidation)
}

func TestUserController_UpdateProfile_PhoneConflict(t *testing.T) {
	user := testUser()
	other := testUser()
	other.Phone = "555-0200"
	controller, _ := newController(t, user, other)

	taken := other.Phone
	_, err := controller.UpdateProfile(context.Background(), user.ID, UpdateProfileRequest{
		Phone: &taken,
	})
	assert.ErrorIs(t, err, controllers.ErrConflict)
}

func TestUserController_UpdateProfile_PasswordRehashed(t *testing.T) {
	user := testUser()
	controller, mock := newController(t, user)
	mock.ExpectBegin()
	mock.ExpectCommit()

	password := "a whole new passphrase"
	_, err := controller.UpdateProfile(context.Background(), user.ID, UpdateProfileRequest{
		Password: &password,
	})
	require.NoError(t, err)

	stored, err := controller.userRepo.GetByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.True(t, controller.credentials.VerifyPassword(stored.PasswordHash, password))
}
