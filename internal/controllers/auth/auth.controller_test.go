package authController

import (
	"context"
	"testing"

	"rentdesk/config"
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
	byPhone map[string]*User
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	for _, user := range f.byPhone {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*User, error) {
	for _, user := range f.byPhone {
		if user.Email != nil && *user.Email == email {
			return user, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) GetByPhone(ctx context.Context, phone string) (*User, error) {
	user, ok := f.byPhone[phone]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (f *fakeUserRepo) Create(ctx context.Context, tx *gorm.DB, user *User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	f.byPhone[user.Phone] = user
	return nil
}

func (f *fakeUserRepo) Update(ctx context.Context, tx *gorm.DB, user *User) error {
	f.byPhone[user.Phone] = user
	return nil
}

func newController(t *testing.T) (*AuthController, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{})
	require.NoError(t, err)

	db := database.DB{SQL: gormDB}

	controller := &AuthController{
		userRepo:    &fakeUserRepo{byPhone: make(map[string]*User)},
		credentials: services.NewCredentialService(),
		tokens: services.NewTokenService(config.Config{
			AuthTokenSecret:      "test-secret",
			AuthTokenExpiryHours: 1,
		}),
		transaction: services.NewTransactionService(db),
		db:          db,
		log:         logger.New("authControllerTest"),
	}

	return controller, mock
}

func validRegistration() RegisterRequest {
	return RegisterRequest{
		Name:     "Terry Tenant",
		Phone:    "555-0199",
		Password: "correct horse battery",
		Role:     "tenant",
	}
}

func TestAuthController_Register(t *testing.T) {
	controller, mock := newController(t)
	mock.ExpectBegin()
	mock.ExpectCommit()

	resp, err := controller.Register(context.Background(), validRegistration())
	require.NoError(t, err)

	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "Terry Tenant", resp.User.Name)
	assert.Equal(t, string(RoleTenant), resp.User.Role)

	claims, err := controller.tokens.Verify(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.UserID.String())
}

func TestAuthController_Register_Validation(t *testing.T) {
	controller, _ := newController(t)

	cases := []struct {
		name   string
		mutate func(*RegisterRequest)
	}{
		{"missing name", func(r *RegisterRequest) { r.Name = " " }},
		{"missing phone", func(r *RegisterRequest) { r.Phone = "" }},
		{"short password", func(r *RegisterRequest) { r.Password = "short" }},
		{"bad role", func(r *RegisterRequest) { r.Role = "admin" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validRegistration()
			tc.mutate(&req)

			_, err := controller.Register(context.Background(), req)
			assert.ErrorIs(t, err, controllers.ErrValidation)
		})
	}
}

func TestAuthController_Register_DuplicatePhoneConflicts(t *testing.T) {
	controller, mock := newController(t)
	mock.ExpectBegin()
	mock.ExpectCommit()

	_, err := controller.Register(context.Background(), validRegistration())
	require.NoError(t, err)

	_, err = controller.Register(context.Background(), validRegistration())
	assert.ErrorIs(t, err, controllers.ErrConflict)
}

func TestAuthController_Login(t *testing.T) {
	controller, mock := newController(t)
	mock.ExpectBegin()
	mock.ExpectCommit()

	_, err := controller.Register(context.Background(), validRegistration())
	require.NoError(t, err)

	resp, err := controller.Login(context.Background(), LoginRequest{
		Phone:    "555-0199",
		Password: "correct horse battery",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)

	_, err = controller.Login(context.Background(), LoginRequest{
		Phone:    "555-0199",
		Password: "wrong",
	})
	assert.ErrorIs(t, err, controllers.ErrUnauthenticated)

	// Unknown phone gets the same error as a bad password.
	_, err = controller.Login(context.Background(), LoginRequest{
		Phone:    "555-0000",
		Password: "correct horse battery",
	})
	assert.ErrorIs(t, err, controllers.ErrUnauthenticated)
}

func TestAuthController_Login_ByEmail(t *testing.T) {
	controller, mock := newController(t)
	mock.ExpectBegin()
	mock.ExpectCommit()

	registration := validRegistration()
	email := "terry@example.com"
	registration.Email = &email

	_, err := controller.Register(context.Background(), registration)
	require.NoError(t, err)

	resp, err := controller.Login(context.Background(), LoginRequest{
		Email:    email,
		Password: "correct horse battery",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)

	_, err = controller.Login(context.Background(), LoginRequest{
		Email:    "nobody@example.com",
		Password: "correct horse battery",
	})
	assert.ErrorIs(t, err, controllers.ErrUnauthenticated)
}
