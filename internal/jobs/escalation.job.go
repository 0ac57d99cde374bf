package jobs

import (
	"context"
	"fmt"
	"time"

	"rentdesk/internal/database"
	"rentdesk/internal/events"
	. "rentdesk/internal/models"
	"rentdesk/internal/repositories"
	"rentdesk/internal/services"

	logger "github.com/Bparsons0904/goLogger"
	"gorm.io/gorm"
)

// emergencyStaleAfter is how long an emergency request may sit in
// Pending before its priority is forced to High.
const emergencyStaleAfter = 24 * time.Hour

// EmergencyEscalationJob promotes emergency maintenance requests that
// nobody picked up. Each promotion writes an update entry to the
// request's history and announces it on the event bus.
type EmergencyEscalationJob struct {
	maintenanceRepo repositories.MaintenanceRepository
	transaction     *services.TransactionService
	eventBus        *events.EventBus
	db              database.DB
	log             logger.Logger
	schedule        services.Schedule
}

func NewEmergencyEscalationJob(
	maintenanceRepo repositories.MaintenanceRepository,
	transaction *services.TransactionService,
	eventBus *events.EventBus,
	db database.DB,
	schedule services.Schedule,
) *EmergencyEscalationJob {
	log := logger.New("emergencyEscalationJob")
	log.Info("Creating new emergency escalation job", "schedule", schedule)

	return &EmergencyEscalationJob{
		maintenanceRepo: maintenanceRepo,
		transaction:     transaction,
		eventBus:        eventBus,
		db:              db,
		log:             log,
		schedule:        schedule,
	}
}

func (j *EmergencyEscalationJob) Name() string {
	return "EmergencyEscalation"
}

func (j *EmergencyEscalationJob) Schedule() services.Schedule {
	return j.schedule
}

func (j *EmergencyEscalationJob) Execute(ctx context.Context) error {
	log := j.log.Function("Execute")

	log.Info("Starting emergency escalation sweep")

	cutoff := time.Now().Add(-emergencyStaleAfter)
	escalated := 0

	err := j.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		stale, err := j.maintenanceRepo.ListStaleEmergencies(ctx, tx, cutoff)
		if err != nil {
			return err
		}

		for _, request := range stale {
			previous := request.Priority
			request.Priority = PriorityHigh
			request.AppendHistory(
				HistoryUpdate,
				fmt.Sprintf("Priority escalated from %s to %s after %s unattended",
					previous, PriorityHigh, emergencyStaleAfter),
				map[string]any{"from": previous, "to": PriorityHigh},
				time.Now(),
			)

			if err := j.maintenanceRepo.Update(ctx, tx, request); err != nil {
				return err
			}
			escalated++
		}

		return nil
	})
	if err != nil {
		return log.Err("emergency escalation sweep failed", err)
	}

	if escalated > 0 && j.eventBus != nil {
		if err := j.eventBus.Publish(events.MAINTENANCE_CHANNEL, events.Event{
			Type: events.MAINTENANCE_ESCALATED,
			Data: map[string]any{"escalated": escalated},
		}); err != nil {
			log.Er("failed to publish escalation event", err)
		}
	}

	log.Info("Emergency escalation sweep completed", "escalated", escalated)
	return nil
}
