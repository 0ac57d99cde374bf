// Package seed loads a small set of development data: two landlords,
// two tenants, a handful of properties, and maintenance requests in
// various lifecycle states. Intended for local development only.
package seed

import (
	"time"

	"rentdesk/config"
	"rentdesk/internal/logger"
	. "rentdesk/internal/models"
	"rentdesk/internal/services"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const seedPassword = "password123"

func Seed(db *gorm.DB, config config.Config, log logger.Logger) error {
	log = log.Function("Seed")

	credentials := services.NewCredentialService()
	hash, err := credentials.HashPassword(seedPassword)
	if err != nil {
		return log.Err("failed to hash seed password", err)
	}

	landlord := User{
		Name:         "Grace Okafor",
		Phone:        "+15550100001",
		Email:        ptr("grace@example.com"),
		Role:         RoleLandlord,
		PasswordHash: hash,
	}
	landlord2 := User{
		Name:         "Miguel Santos",
		Phone:        "+15550100002",
		Role:         RoleLandlord,
		PasswordHash: hash,
	}
	tenant := User{
		Name:         "Priya Raman",
		Phone:        "+15550100003",
		Email:        ptr("priya@example.com"),
		Role:         RoleTenant,
		PasswordHash: hash,
	}
	tenant2 := User{
		Name:         "Dana Whitfield",
		Phone:        "+15550100004",
		Role:         RoleTenant,
		PasswordHash: hash,
	}

	users := []*User{&landlord, &landlord2, &tenant, &tenant2}
	for _, user := range users {
		if err := db.Create(user).Error; err != nil {
			return log.Err("failed to create seed user", err, "phone", user.Phone)
		}
	}
	log.Info("Seeded users", "count", len(users))

	maple := Property{
		Title:        "Maple Street Duplex",
		Description:  "Two bedroom duplex near downtown with covered parking.",
		Address:      datatypes.NewJSONType(Address{Street: "412 Maple St", City: "Austin", State: "TX", Zip: "78701"}),
		Location:     datatypes.NewJSONType(GeoPoint{Lat: 30.2672, Lng: -97.7431}),
		Price:        decimal.NewFromInt(1850),
		PropertyType: "duplex",
		Bedrooms:     2,
		Bathrooms:    1,
		Area:         950,
		Amenities:    datatypes.NewJSONSlice([]string{"parking", "washer", "dryer"}),
		PostedBy:     landlord.ID,
		Status:       PropertyOccupied,
		Contact:      datatypes.NewJSONType(PropertyContact{Name: landlord.Name, Phone: landlord.Phone}),
		Policies:     datatypes.NewJSONType(PropertyPolicies{PetsAllowed: true, LeaseTerm: "12 months"}),
	}
	cedar := Property{
		Title:        "Cedar Park Apartment 4B",
		Description:  "Bright one bedroom on the fourth floor, recently renovated.",
		Address:      datatypes.NewJSONType(Address{Street: "88 Cedar Park Ave", City: "Austin", State: "TX", Zip: "78745"}),
		Location:     datatypes.NewJSONType(GeoPoint{Lat: 30.2241, Lng: -97.7697}),
		Price:        decimal.NewFromInt(1325),
		PropertyType: "apartment",
		Bedrooms:     1,
		Bathrooms:    1,
		Area:         640,
		Amenities:    datatypes.NewJSONSlice([]string{"elevator", "gym"}),
		PostedBy:     landlord.ID,
		Status:       PropertyAvailable,
		Policies:     datatypes.NewJSONType(PropertyPolicies{LeaseTerm: "6 months"}),
	}
	willow := Property{
		Title:        "Willow Bend House",
		Description:  "Three bedroom single family home with a fenced yard.",
		Address:      datatypes.NewJSONType(Address{Street: "7 Willow Bend", City: "Round Rock", State: "TX", Zip: "78664"}),
		Price:        decimal.NewFromInt(2400),
		PropertyType: "house",
		Bedrooms:     3,
		Bathrooms:    2,
		Area:         1600,
		PostedBy:     landlord2.ID,
		Status:       PropertyOccupied,
	}

	properties := []*Property{&maple, &cedar, &willow}
	for _, property := range properties {
		if err := db.Create(property).Error; err != nil {
			return log.Err("failed to create seed property", err, "title", property.Title)
		}
	}
	log.Info("Seeded properties", "count", len(properties))

	now := time.Now().UTC()

	pendingLeak := maintenanceRequest(maple, tenant, now.Add(-36*time.Hour))
	pendingLeak.Title = "Kitchen sink leaking"
	pendingLeak.Description = "Steady drip under the kitchen sink, cabinet floor is soaked."
	pendingLeak.Category = CategoryPlumbing
	pendingLeak.Priority = PriorityHigh
	pendingLeak.IsEmergency = true

	inProgressHVAC := maintenanceRequest(maple, tenant, now.Add(-5*24*time.Hour))
	inProgressHVAC.Title = "AC not cooling"
	inProgressHVAC.Description = "Air conditioner runs constantly but the unit never drops below 80F."
	inProgressHVAC.Category = CategoryHVAC
	inProgressHVAC.AssignedTo = ptr("CoolFlow HVAC Services")
	inProgressHVAC.AssignedToContact = datatypes.NewJSONType(ProviderContact{Phone: "+15550200001"})
	inProgressHVAC.EstimatedCost = decimal.NewFromInt(350)
	inProgressHVAC.ApplyStatus(StatusInProgress, now.Add(-4*24*time.Hour))
	inProgressHVAC.AppendHistory(HistoryAssignment, "Assigned to CoolFlow HVAC Services", nil, now.Add(-4*24*time.Hour))
	inProgressHVAC.AppendHistory(HistoryStatus, "Status changed from Pending to In Progress",
		map[string]any{"from": string(StatusPending), "to": string(StatusInProgress)},
		now.Add(-4*24*time.Hour))

	completedLock := maintenanceRequest(willow, tenant2, now.Add(-14*24*time.Hour))
	completedLock.Title = "Front door lock sticking"
	completedLock.Description = "Deadbolt requires several tries to turn, key sometimes jams."
	completedLock.Category = CategorySecurity
	completedLock.ActualCost = decimal.NewFromInt(120)
	completedLock.ApplyStatus(StatusCompleted, now.Add(-12*24*time.Hour))
	completedLock.AppendHistory(HistoryStatus, "Status changed from Pending to Completed",
		map[string]any{"from": string(StatusPending), "to": string(StatusCompleted)},
		now.Add(-12*24*time.Hour))
	completedLock.AppendComment(Comment{
		Author:    tenant2.Name,
		AuthorID:  &tenant2.ID,
		Text:      "Lock works great now, thanks for the quick turnaround.",
		Timestamp: now.Add(-11 * 24 * time.Hour),
	})

	requests := []*MaintenanceRequest{&pendingLeak, &inProgressHVAC, &completedLock}
	for _, request := range requests {
		if err := db.Create(request).Error; err != nil {
			return log.Err("failed to create seed maintenance request", err, "title", request.Title)
		}
	}
	log.Info("Seeded maintenance requests", "count", len(requests))

	inquiry := Inquiry{
		PropertyID:  cedar.ID,
		SeekerID:    tenant2.ID,
		Message:     "Is the Cedar Park apartment still available for a September move in?",
		ContactTime: "weekday evenings",
	}
	if err := db.Create(&inquiry).Error; err != nil {
		return log.Err("failed to create seed inquiry", err)
	}

	favorite := Favorite{Seeker: tenant2.ID}
	favorite.Add(cedar.ID)
	if err := db.Create(&favorite).Error; err != nil {
		return log.Err("failed to create seed favorite", err)
	}

	log.Info("Seed complete")
	return nil
}

func maintenanceRequest(property Property, tenant User, createdAt time.Time) MaintenanceRequest {
	request := MaintenanceRequest{
		PropertyID:   property.ID,
		PropertyName: property.Title,
		TenantID:     tenant.ID,
		TenantName:   tenant.Name,
		LandlordID:   property.PostedBy,
		Status:       StatusPending,
		Priority:     PriorityMedium,
		Category:     CategoryGeneral,
	}
	request.AppendHistory(HistoryCreated, "Request created", nil, createdAt)
	return request
}

func ptr[T any](v T) *T {
	return &v
}
