package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/fieldserve/backend/internal/domain/registry"
	"github.com/fieldserve/backend/internal/domain/shared"
	"github.com/fieldserve/backend/internal/domain/ticketing"
	"github.com/fieldserve/backend/internal/infrastructure/persistence/models"
)

func setupWorkLogTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&models.WorkLogModel{})
	require.NoError(t, err)

	return db
}

func newTestWorkLog(t *testing.T, ticketID, machineID uuid.UUID) *ticketing.WorkLog {
	snapshot := ticketing.TicketMachine{
		MachineID:    machineID,
		MachineType:  registry.MachineTypeGrinder,
		SerialNumber: "SN-2000",
		CustomerID:   uuid.New(),
		CustomerName: "Bean There Coffee",
		Priority:     ticketing.PriorityMedium,
	}
	log, err := ticketing.NewWorkLog(ticketID, snapshot, uuid.New(), time.Now().Add(-2*time.Hour))
	require.NoError(t, err)
	return log
}

func TestGormWorkLogRepository_SaveAndFindByID(t *testing.T) {
	db := setupWorkLogTestDB(t)
	repo := NewGormWorkLogRepository(db)
	ctx := context.Background()

	log := newTestWorkLog(t, uuid.New(), uuid.New())
	log.RecordWork("Cleaned burrs and recalibrated", "Resolved", "Replaced burr set")
	require.NoError(t, log.SetPartsUsed([]ticketing.PartUsage{
		{PartID: uuid.New(), PartName: "Burr set", Quantity: 1},
	}))

	require.NoError(t, repo.Save(ctx, log))

	found, err := repo.FindByID(ctx, log.ID)
	require.NoError(t, err)
	assert.Equal(t, log.TicketID, found.TicketID)
	assert.Equal(t, log.MachineID, found.MachineID)
	assert.Equal(t, "Cleaned burrs and recalibrated", found.WorkPerformed)
	assert.Equal(t, "Resolved", found.Outcome)
	require.Len(t, found.PartsUsed, 1)
	assert.Equal(t, "Burr set", found.PartsUsed[0].PartName)
}

func TestGormWorkLogRepository_FindByTicketAndMachine(t *testing.T) {
	db := setupWorkLogTestDB(t)
	repo := NewGormWorkLogRepository(db)
	ctx := context.Background()

	ticketID := uuid.New()
	machineID := uuid.New()

	log := newTestWorkLog(t, ticketID, machineID)
	require.NoError(t, repo.Save(ctx, log))

	found, err := repo.FindByTicketAndMachine(ctx, ticketID, machineID)
	require.NoError(t, err)
	assert.Equal(t, log.ID, found.ID)

	// Absent pair reports not found so callers can create
	_, err = repo.FindByTicketAndMachine(ctx, ticketID, uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormWorkLogRepository_UpdateInPlace(t *testing.T) {
	db := setupWorkLogTestDB(t)
	repo := NewGormWorkLogRepository(db)
	ctx := context.Background()

	ticketID := uuid.New()
	machineID := uuid.New()

	log := newTestWorkLog(t, ticketID, machineID)
	require.NoError(t, repo.Save(ctx, log))

	// A later submission for the same pair updates the same record
	departure := time.Now()
	require.NoError(t, log.RecordVisit(log.ArrivalTime, &departure, 2.5))
	log.RecordWork("Descaled boiler", "Resolved", "")
	require.NoError(t, repo.Save(ctx, log))

	found, err := repo.FindByTicketAndMachine(ctx, ticketID, machineID)
	require.NoError(t, err)
	assert.Equal(t, log.ID, found.ID)
	assert.Equal(t, 2.5, found.HoursWorked)
	assert.NotNil(t, found.DepartureTime)

	logs, err := repo.FindByTicket(ctx, ticketID)
	require.NoError(t, err)
	assert.Len(t, logs, 1)
}

func TestGormWorkLogRepository_SaveBatch(t *testing.T) {
	db := setupWorkLogTestDB(t)
	repo := NewGormWorkLogRepository(db)
	ctx := context.Background()

	ticketID := uuid.New()
	logs := []*ticketing.WorkLog{
		newTestWorkLog(t, ticketID, uuid.New()),
		newTestWorkLog(t, ticketID, uuid.New()),
		newTestWorkLog(t, ticketID, uuid.New()),
	}

	require.NoError(t, repo.SaveBatch(ctx, logs))

	found, err := repo.FindByTicket(ctx, ticketID)
	require.NoError(t, err)
	assert.Len(t, found, 3)
}

func TestGormWorkLogRepository_SaveBatch_Empty(t *testing.T) {
	db := setupWorkLogTestDB(t)
	repo := NewGormWorkLogRepository(db)

	require.NoError(t, repo.SaveBatch(context.Background(), nil))
}

func TestGormWorkLogRepository_FindByMachine(t *testing.T) {
	db := setupWorkLogTestDB(t)
	repo := NewGormWorkLogRepository(db)
	ctx := context.Background()

	machineID := uuid.New()
	require.NoError(t, repo.Save(ctx, newTestWorkLog(t, uuid.New(), machineID)))
	require.NoError(t, repo.Save(ctx, newTestWorkLog(t, uuid.New(), machineID)))
	require.NoError(t, repo.Save(ctx, newTestWorkLog(t, uuid.New(), uuid.New())))

	history, err := repo.FindByMachine(ctx, machineID)
	require.NoError(t, err)
	assert.Len(t, history, 2)
}
