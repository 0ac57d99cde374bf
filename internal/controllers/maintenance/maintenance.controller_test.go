package maintenanceController

import (
	"context"
	"testing"
	"time"

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

type fakeMaintenanceRepo struct {
	byID map[uuid.UUID]*MaintenanceRequest
}

func newFakeMaintenanceRepo() *fakeMaintenanceRepo {
	return &fakeMaintenanceRepo{byID: make(map[uuid.UUID]*MaintenanceRequest)}
}

func (f *fakeMaintenanceRepo) GetByID(
	ctx context.Context,
	tx *gorm.DB,
	id uuid.UUID,
) (*MaintenanceRequest, error) {
	request, ok := f.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *request
	return &copied, nil
}

func (f *fakeMaintenanceRepo) Create(
	ctx context.Context,
	tx *gorm.DB,
	request *MaintenanceRequest,
) error {
	if request.ID == uuid.Nil {
		request.ID = uuid.New()
	}
	stored := *request
	f.byID[request.ID] = &stored
	return nil
}

func (f *fakeMaintenanceRepo) Update(
	ctx context.Context,
	tx *gorm.DB,
	request *MaintenanceRequest,
) error {
	stored := *request
	f.byID[request.ID] = &stored
	return nil
}

func (f *fakeMaintenanceRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	if _, ok := f.byID[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeMaintenanceRepo) ListByLandlord(
	ctx context.Context,
	landlordID uuid.UUID,
	filters repositories.MaintenanceFilters,
	sort repositories.MaintenanceSort,
) ([]*MaintenanceRequest, error) {
	var requests []*MaintenanceRequest
	for _, r := range f.byID {
		if r.LandlordID == landlordID {
			requests = append(requests, r)
		}
	}
	return requests, nil
}

func (f *fakeMaintenanceRepo) ListByTenant(
	ctx context.Context,
	tenantID uuid.UUID,
	filters repositories.MaintenanceFilters,
	sort repositories.MaintenanceSort,
) ([]*MaintenanceRequest, error) {
	var requests []*MaintenanceRequest
	for _, r := range f.byID {
		if r.TenantID == tenantID {
			requests = append(requests, r)
		}
	}
	return requests, nil
}

func (f *fakeMaintenanceRepo) ListByProperty(
	ctx context.Context,
	propertyID uuid.UUID,
) ([]*MaintenanceRequest, error) {
	var requests []*MaintenanceRequest
	for _, r := range f.byID {
		if r.PropertyID == propertyID {
			requests = append(requests, r)
		}
	}
	return requests, nil
}

func (f *fakeMaintenanceRepo) ListStaleEmergencies(
	ctx context.Context,
	tx *gorm.DB,
	olderThan time.Time,
) ([]*MaintenanceRequest, error) {
	return nil, nil
}

func (f *fakeMaintenanceRepo) Stats(
	ctx context.Context,
	landlordID uuid.UUID,
) (*repositories.MaintenanceStats, error) {
	stats := &repositories.MaintenanceStats{}
	for _, r := range f.byID {
		if r.LandlordID != landlordID {
			continue
		}
		stats.Total++
		switch r.Status {
		case StatusPending:
			stats.Pending++
		case StatusCompleted:
			stats.Completed++
		}
	}
	return stats, nil
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

type fakeUserRepo struct {
	byID map[uuid.UUID]*User
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	user, ok := f.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*User, error) {
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) GetByPhone(ctx context.Context, phone string) (*User, error) {
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) Create(ctx context.Context, tx *gorm.DB, user *User) error { return nil }

func (f *fakeUserRepo) Update(ctx context.Context, tx *gorm.DB, user *User) error { return nil }

type testHarness struct {
	controller *MaintenanceController
	repo       *fakeMaintenanceRepo
	mock       sqlmock.Sqlmock
	landlordID uuid.UUID
	tenantID   uuid.UUID
	propertyID uuid.UUID
	now        time.Time
}

func newHarness(t *testing.T) *testHarness {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{})
	require.NoError(t, err)

	db := database.DB{SQL: gormDB}

	landlordID := uuid.New()
	tenantID := uuid.New()

	property := &Property{Title: "Elm Street Duplex", PostedBy: landlordID}
	property.ID = uuid.New()

	landlord := &User{Name: "Lana Landlord", Role: RoleLandlord}
	landlord.ID = landlordID
	tenant := &User{Name: "Terry Tenant", Role: RoleTenant}
	tenant.ID = tenantID

	repo := newFakeMaintenanceRepo()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	controller := &MaintenanceController{
		maintenanceRepo: repo,
		propertyRepo:    &fakePropertyRepo{byID: map[uuid.UUID]*Property{property.ID: property}},
		userRepo: &fakeUserRepo{byID: map[uuid.UUID]*User{
			landlordID: landlord,
			tenantID:   tenant,
		}},
		transaction: services.NewTransactionService(db),
		db:          db,
		now:         func() time.Time { return now },
		log:         logger.New("maintenanceControllerTest"),
	}

	return &testHarness{
		controller: controller,
		repo:       repo,
		mock:       mock,
		landlordID: landlordID,
		tenantID:   tenantID,
		propertyID: property.ID,
		now:        now,
	}
}

// expectTx queues n begin/commit pairs on the mocked connection.
func (h *testHarness) expectTx(n int) {
	for range n {
		h.mock.ExpectBegin()
		h.mock.ExpectCommit()
	}
}

func TestMaintenanceController_Create(t *testing.T) {
	h := newHarness(t)
	h.expectTx(1)

	request, err := h.controller.Create(context.Background(), h.tenantID, CreateRequest{
		PropertyID:  h.propertyID,
		Title:       "Leaking faucet",
		Description: "Kitchen faucet drips constantly",
	})
	require.NoError(t, err)

	assert.Equal(t, StatusPending, request.Status)
	assert.Equal(t, 0, request.Progress)
	assert.Equal(t, PriorityMedium, request.Priority)
	assert.Equal(t, CategoryGeneral, request.Category)
	assert.Equal(t, h.landlordID, request.LandlordID)
	assert.Equal(t, "Elm Street Duplex", request.PropertyName)
	assert.Equal(t, "Terry Tenant", request.TenantName)

	require.Len(t, request.History, 1)
	assert.Equal(t, HistoryCreated, request.History[0].Type)
}

func TestMaintenanceController_Create_EmergencyDefaultsHighPriority(t *testing.T) {
	h := newHarness(t)
	h.expectTx(1)

	request, err := h.controller.Create(context.Background(), h.tenantID, CreateRequest{
		PropertyID:  h.propertyID,
		Title:       "Burst pipe",
		Description: "Water everywhere",
		IsEmergency: true,
	})
	require.NoError(t, err)

	assert.Equal(t, PriorityHigh, request.Priority)
	assert.True(t, request.IsEmergency)
}

func TestMaintenanceController_Create_ValidationAndNotFound(t *testing.T) {
	h := newHarness(t)

	_, err := h.controller.Create(context.Background(), h.tenantID, CreateRequest{
		PropertyID: h.propertyID,
	})
	assert.ErrorIs(t, err, controllers.ErrValidation)

	_, err = h.controller.Create(context.Background(), h.tenantID, CreateRequest{
		PropertyID:  uuid.New(),
		Title:       "Broken window",
		Description: "Back bedroom",
	})
	assert.ErrorIs(t, err, controllers.ErrNotFound)
}

func TestMaintenanceController_SetStatus_DerivesProgress(t *testing.T) {
	h := newHarness(t)
	h.expectTx(4)

	request, err := h.controller.Create(context.Background(), h.tenantID, CreateRequest{
		PropertyID:  h.propertyID,
		Title:       "No heat",
		Description: "Furnace will not start",
	})
	require.NoError(t, err)

	updated, err := h.controller.SetStatus(
		context.Background(), h.landlordID, request.ID, "In Progress")
	require.NoError(t, err)
	assert.Equal(t, 25, updated.Progress)

	updated, err = h.controller.SetStatus(
		context.Background(), h.landlordID, request.ID, "Completed")
	require.NoError(t, err)
	assert.Equal(t, 100, updated.Progress)
	require.NotNil(t, updated.CompletedDate)
	assert.Equal(t, h.now, *updated.CompletedDate)

	// Reopening a completed request zeroes progress again.
	updated, err = h.controller.SetStatus(
		context.Background(), h.landlordID, request.ID, "Pending")
	require.NoError(t, err)
	assert.Equal(t, 0, updated.Progress)
}

func TestMaintenanceController_SetStatus_SameStatusStillRecordsHistory(t *testing.T) {
	h := newHarness(t)
	h.expectTx(2)

	request, err := h.controller.Create(context.Background(), h.tenantID, CreateRequest{
		PropertyID:  h.propertyID,
		Title:       "Squeaky door",
		Description: "Front door hinge",
	})
	require.NoError(t, err)

	updated, err := h.controller.SetStatus(
		context.Background(), h.landlordID, request.ID, "Pending")
	require.NoError(t, err)

	require.Len(t, updated.History, 2)
	assert.Equal(t, HistoryStatus, updated.History[1].Type)
}

func TestMaintenanceController_SetStatus_Authorization(t *testing.T) {
	h := newHarness(t)
	h.expectTx(1)

	request, err := h.controller.Create(context.Background(), h.tenantID, CreateRequest{
		PropertyID:  h.propertyID,
		Title:       "Mold in bathroom",
		Description: "Ceiling corner",
	})
	require.NoError(t, err)

	_, err = h.controller.SetStatus(context.Background(), uuid.New(), request.ID, "Completed")
	assert.ErrorIs(t, err, controllers.ErrForbidden)

	_, err = h.controller.SetStatus(context.Background(), h.landlordID, request.ID, "Done")
	assert.ErrorIs(t, err, controllers.ErrValidation)

	_, err = h.controller.SetStatus(context.Background(), h.landlordID, uuid.New(), "Completed")
	assert.ErrorIs(t, err, controllers.ErrNotFound)
}

func TestMaintenanceController_Assign(t *testing.T) {
	h := newHarness(t)
	h.expectTx(2)

	request, err := h.controller.Create(context.Background(), h.tenantID, CreateRequest{
		PropertyID:  h.propertyID,
		Title:       "Broken dishwasher",
		Description: "Does not drain",
	})
	require.NoError(t, err)

	updated, err := h.controller.Assign(context.Background(), h.landlordID, request.ID, AssignRequest{
		AssignedTo: "Apex Plumbing",
		Contact:    ProviderContact{Phone: "555-0100"},
	})
	require.NoError(t, err)

	require.NotNil(t, updated.AssignedTo)
	assert.Equal(t, "Apex Plumbing", *updated.AssignedTo)
	require.Len(t, updated.History, 2)
	assert.Equal(t, HistoryAssignment, updated.History[1].Type)

	// Tenants cannot assign providers.
	_, err = h.controller.Assign(context.Background(), h.tenantID, request.ID, AssignRequest{
		AssignedTo: "Apex Plumbing",
	})
	assert.ErrorIs(t, err, controllers.ErrForbidden)
}

func TestMaintenanceController_UpdateFields_StatusRunsStateMachine(t *testing.T) {
	h := newHarness(t)
	h.expectTx(2)

	request, err := h.controller.Create(context.Background(), h.tenantID, CreateRequest{
		PropertyID:  h.propertyID,
		Title:       "Flickering lights",
		Description: "Hallway fixture",
	})
	require.NoError(t, err)

	status := "In Progress"
	title := "Flickering hallway lights"
	updated, err := h.controller.UpdateFields(
		context.Background(), h.landlordID, request.ID, UpdateRequest{
			Title:  &title,
			Status: &status,
		})
	require.NoError(t, err)

	assert.Equal(t, "Flickering hallway lights", updated.Title)
	assert.Equal(t, StatusInProgress, updated.Status)
	assert.Equal(t, 25, updated.Progress)
	require.Len(t, updated.History, 2)
	assert.Equal(t, HistoryStatus, updated.History[1].Type)
}

func TestMaintenanceController_UpdateFields_OnlyChangesRecordHistory(t *testing.T) {
	h := newHarness(t)
	h.expectTx(3)

	request, err := h.controller.Create(context.Background(), h.tenantID, CreateRequest{
		PropertyID:  h.propertyID,
		Title:       "Garbage disposal jammed",
		Description: "Makes a grinding noise then stops",
	})
	require.NoError(t, err)

	// Re-submitting the current status through a bulk update is a no-op
	// for the audit trail.
	status := string(StatusPending)
	updated, err := h.controller.UpdateFields(
		context.Background(), h.landlordID, request.ID, UpdateRequest{Status: &status})
	require.NoError(t, err)
	require.Len(t, updated.History, 1)

	assignee := "FixIt Plumbing"
	updated, err = h.controller.UpdateFields(
		context.Background(), h.landlordID, request.ID, UpdateRequest{AssignedTo: &assignee})
	require.NoError(t, err)
	require.Len(t, updated.History, 2)
	assert.Equal(t, HistoryAssignment, updated.History[1].Type)
	require.NotNil(t, updated.AssignedTo)
	assert.Equal(t, "FixIt Plumbing", *updated.AssignedTo)
}

func TestMaintenanceController_Lifecycle(t *testing.T) {
	h := newHarness(t)
	h.expectTx(4)

	request, err := h.controller.Create(context.Background(), h.tenantID, CreateRequest{
		PropertyID:  h.propertyID,
		Title:       "Water heater failure",
		Description: "No hot water since Monday",
		IsUrgent:    true,
	})
	require.NoError(t, err)

	_, err = h.controller.SetStatus(
		context.Background(), h.landlordID, request.ID, "In Progress")
	require.NoError(t, err)

	_, err = h.controller.AddComment(context.Background(), h.tenantID, request.ID, CommentRequest{
		Text: "Technician scheduled for Thursday",
	})
	require.NoError(t, err)

	final, err := h.controller.SetStatus(
		context.Background(), h.landlordID, request.ID, "Completed")
	require.NoError(t, err)

	assert.Equal(t, StatusCompleted, final.Status)
	assert.Equal(t, 100, final.Progress)
	require.NotNil(t, final.CompletedDate)

	require.Len(t, final.Comments, 1)
	assert.Equal(t, "Terry Tenant", final.Comments[0].Author)

	require.Len(t, final.History, 4)
	assert.Equal(t, HistoryCreated, final.History[0].Type)
	assert.Equal(t, HistoryStatus, final.History[1].Type)
	assert.Equal(t, HistoryComment, final.History[2].Type)
	assert.Equal(t, HistoryStatus, final.History[3].Type)
}

func TestMaintenanceController_AddAttachments(t *testing.T) {
	h := newHarness(t)
	h.expectTx(2)

	request, err := h.controller.Create(context.Background(), h.tenantID, CreateRequest{
		PropertyID:  h.propertyID,
		Title:       "Cracked window",
		Description: "Bedroom window cracked after the storm",
	})
	require.NoError(t, err)

	updated, err := h.controller.AddAttachments(
		context.Background(), h.tenantID, request.ID, AttachmentRequest{
			Attachments: []Attachment{
				{ID: "att-1", Name: "crack.jpg", Type: AttachmentImage, Size: 2048, URL: "https://cdn.example.com/crack.jpg"},
			},
		})
	require.NoError(t, err)

	require.Len(t, updated.Attachments, 1)
	assert.Equal(t, "crack.jpg", updated.Attachments[0].Name)

	require.Len(t, updated.History, 2)
	assert.Equal(t, HistoryUpdate, updated.History[1].Type)

	_, err = h.controller.AddAttachments(
		context.Background(), h.tenantID, request.ID, AttachmentRequest{})
	assert.ErrorIs(t, err, controllers.ErrValidation)

	_, err = h.controller.AddAttachments(
		context.Background(), h.tenantID, request.ID, AttachmentRequest{
			Attachments: []Attachment{{ID: "att-2"}},
		})
	assert.ErrorIs(t, err, controllers.ErrValidation)
}

func TestMaintenanceController_Delete(t *testing.T) {
	h := newHarness(t)
	h.expectTx(2)

	request, err := h.controller.Create(context.Background(), h.tenantID, CreateRequest{
		PropertyID:  h.propertyID,
		Title:       "Wrong request",
		Description: "Filed against the wrong unit",
	})
	require.NoError(t, err)

	_, err = h.controller.Get(context.Background(), h.tenantID, request.ID)
	require.NoError(t, err)

	err = h.controller.Delete(context.Background(), h.tenantID, request.ID)
	require.NoError(t, err)

	_, err = h.controller.Get(context.Background(), h.tenantID, request.ID)
	assert.ErrorIs(t, err, controllers.ErrNotFound)
}

func TestMaintenanceController_Stats(t *testing.T) {
	h := newHarness(t)
	h.expectTx(3)

	first, err := h.controller.Create(context.Background(), h.tenantID, CreateRequest{
		PropertyID:  h.propertyID,
		Title:       "Broken dishwasher",
		Description: "Does not drain",
	})
	require.NoError(t, err)

	_, err = h.controller.Create(context.Background(), h.tenantID, CreateRequest{
		PropertyID:  h.propertyID,
		Title:       "Squeaky door",
		Description: "Hallway door hinge",
	})
	require.NoError(t, err)

	_, err = h.controller.SetStatus(context.Background(), h.landlordID, first.ID, "Completed")
	require.NoError(t, err)

	stats, err := h.controller.Stats(context.Background(), h.landlordID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.Total)
	assert.Equal(t, int64(1), stats.Completed)
	assert.Equal(t, 50, stats.CompletionRate)

	// A landlord with no requests gets zeros, not an error.
	empty, err := h.controller.Stats(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Equal(t, int64(0), empty.Total)
	assert.Equal(t, 0, empty.CompletionRate)
}

func TestValidateFilters(t *testing.T) {
	assert.NoError(t, validateFilters(repositories.MaintenanceFilters{}))
	assert.NoError(t, validateFilters(repositories.MaintenanceFilters{
		Status:   repositories.FilterAll,
		Priority: repositories.FilterAll,
		Property: repositories.FilterAll,
	}))
	assert.NoError(t, validateFilters(repositories.MaintenanceFilters{
		Status:   "Pending",
		Priority: "High",
		Property: uuid.New().String(),
	}))

	assert.Error(t, validateFilters(repositories.MaintenanceFilters{Status: "Open"}))
	assert.Error(t, validateFilters(repositories.MaintenanceFilters{Priority: "Critical"}))
	assert.Error(t, validateFilters(repositories.MaintenanceFilters{Property: "not-a-uuid"}))
}

func TestCompletionRate(t *testing.T) {
	assert.Equal(t, 0, completionRate(0, 0))
	assert.Equal(t, 50, completionRate(1, 2))
	assert.Equal(t, 33, completionRate(1, 3))
	assert.Equal(t, 67, completionRate(2, 3))
	assert.Equal(t, 100, completionRate(5, 5))
}
