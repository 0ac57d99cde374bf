package favoriteController

import (
	"context"
	"testing"

	"rentdesk/internal/controllers"
	"rentdesk/internal/database"
	"rentdesk/internal/logger"
	. "rentdesk/internal/models"
	"rentdesk/internal/repositories"
	"rentdesk/internal/services"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type fakeFavoriteRepo struct {
	bySeeker map[uuid.UUID]*Favorite
}

func (f *fakeFavoriteRepo) GetBySeeker(ctx context.Context, seekerID uuid.UUID) (*Favorite, error) {
	favorite, ok := f.bySeeker[seekerID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *favorite
	return &copied, nil
}

func (f *fakeFavoriteRepo) Create(ctx context.Context, tx *gorm.DB, favorite *Favorite) error {
	stored := *favorite
	f.bySeeker[favorite.Seeker] = &stored
	return nil
}

func (f *fakeFavoriteRepo) Update(ctx context.Context, tx *gorm.DB, favorite *Favorite) error {
	stored := *favorite
	f.bySeeker[favorite.Seeker] = &stored
	return nil
}

type fakePropertyRepo struct {
	byID map[uuid.UUID]*Property
}

func (f *fakePropertyRepo) GetByID(ctx context.Context, id uuid.UUID) (*Property, error) {
	property, ok := f.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return property, nil
}

func (f *fakePropertyRepo) List(
	ctx context.Context,
	filter repositories.PropertyFilter,
) ([]*Property, error) {
	return nil, nil
}

func (f *fakePropertyRepo) ListByLandlord(
	ctx context.Context,
	landlordID uuid.UUID,
) ([]*Property, error) {
	return nil, nil
}

func (f *fakePropertyRepo) Create(ctx context.Context, tx *gorm.DB, property *Property) error {
	return nil
}

func (f *fakePropertyRepo) Update(ctx context.Context, tx *gorm.DB, property *Property) error {
	return nil
}

func (f *fakePropertyRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	return nil
}

type harness struct {
	controller *FavoriteController
	mock       sqlmock.Sqlmock
	seekerID   uuid.UUID
	propertyID uuid.UUID
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{})
	require.NoError(t, err)

	db := database.DB{SQL: gormDB}

	property := &Property{Title: "Sunny Loft", PostedBy: uuid.New()}
	property.ID = uuid.New()

	controller := &FavoriteController{
		favoriteRepo: &fakeFavoriteRepo{bySeeker: make(map[uuid.UUID]*Favorite)},
		propertyRepo: &fakePropertyRepo{byID: map[uuid.UUID]*Property{property.ID: property}},
		transaction:  services.NewTransactionService(db),
		db:           db,
		log:          logger.New("favoriteControllerTest"),
	}

	return &harness{
		controller: controller,
		mock:       mock,
		seekerID:   uuid.New(),
		propertyID: property.ID,
	}
}

func (h *harness) expectTx(n int) {
	for range n {
		h.mock.ExpectBegin()
		h.mock.ExpectCommit()
	}
}

func TestFavoriteController_AddAndList(t *testing.T) {
	h := newHarness(t)
	h.expectTx(1)

	set, err := h.controller.Add(context.Background(), h.seekerID, h.propertyID)
	require.NoError(t, err)
	require.Len(t, set, 1)

	properties, err := h.controller.List(context.Background(), h.seekerID)
	require.NoError(t, err)
	require.Len(t, properties, 1)
	assert.Equal(t, "Sunny Loft", properties[0].Title)
}

func TestFavoriteController_Add_DuplicateConflicts(t *testing.T) {
	h := newHarness(t)
	h.expectTx(1)

	_, err := h.controller.Add(context.Background(), h.seekerID, h.propertyID)
	require.NoError(t, err)

	_, err = h.controller.Add(context.Background(), h.seekerID, h.propertyID)
	assert.ErrorIs(t, err, controllers.ErrConflict)
}

func TestFavoriteController_Add_UnknownProperty(t *testing.T) {
	h := newHarness(t)

	_, err := h.controller.Add(context.Background(), h.seekerID, uuid.New())
	assert.ErrorIs(t, err, controllers.ErrNotFound)
}

func TestFavoriteController_Remove(t *testing.T) {
	h := newHarness(t)
	h.expectTx(2)

	_, err := h.controller.Add(context.Background(), h.seekerID, h.propertyID)
	require.NoError(t, err)

	set, err := h.controller.Remove(context.Background(), h.seekerID, h.propertyID)
	require.NoError(t, err)
	assert.Empty(t, set)

	favorited, err := h.controller.Check(context.Background(), h.seekerID, h.propertyID)
	require.NoError(t, err)
	assert.False(t, favorited)
}

func TestFavoriteController_Remove_NonMemberIsNoop(t *testing.T) {
	h := newHarness(t)
	h.expectTx(1)

	_, err := h.controller.Add(context.Background(), h.seekerID, h.propertyID)
	require.NoError(t, err)

	// Removing a property that is not in the set succeeds silently.
	set, err := h.controller.Remove(context.Background(), h.seekerID, uuid.New())
	assert.NoError(t, err)
	assert.Len(t, set, 1)

	favorited, err := h.controller.Check(context.Background(), h.seekerID, h.propertyID)
	require.NoError(t, err)
	assert.True(t, favorited)
}

func TestFavoriteController_Remove_NoRecordIsNotFound(t *testing.T) {
	h := newHarness(t)

	_, err := h.controller.Remove(context.Background(), h.seekerID, h.propertyID)
	assert.ErrorIs(t, err, controllers.ErrNotFound)
}

func TestFavoriteController_ListAndCheck_EmptyWithoutRecord(t *testing.T) {
	h := newHarness(t)

	properties, err := h.controller.List(context.Background(), h.seekerID)
	require.NoError(t, err)
	assert.Empty(t, properties)

	favorited, err := h.controller.Check(context.Background(), h.seekerID, h.propertyID)
	require.NoError(t, err)
	assert.False(t, favorited)
}

func TestFavoriteController_List_SkipsDeletedProperties(t *testing.T) {
	h := newHarness(t)
	h.expectTx(1)

	_, err := h.controller.Add(context.Background(), h.seekerID, h.propertyID)
	require.NoError(t, err)

	// Simulate the property disappearing after it was favorited.
	repo := h.controller.propertyRepo.(*fakePropertyRepo)
	delete(repo.byID, h.propertyID)

	properties, err := h.controller.List(context.Background(), h.seekerID)
	require.NoError(t, err)
	assert.Empty(t, properties)
}
