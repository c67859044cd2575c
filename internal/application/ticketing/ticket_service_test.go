package ticketing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/fieldserve/backend/internal/domain/identity"
	"github.com/fieldserve/backend/internal/domain/registry"
	"github.com/fieldserve/backend/internal/domain/shared"
	"github.com/fieldserve/backend/internal/domain/ticketing"
	"github.com/fieldserve/backend/internal/infrastructure/cache"
)

type ticketServiceMocks struct {
	ticketRepo   *MockTicketRepository
	workLogRepo  *MockWorkLogRepository
	machineRepo  *MockMachineRepository
	customerRepo *MockCustomerRepository
	userRepo     *MockUserRepository
	stats        *MockStatsNotifier
	cache        *cache.InMemoryTagCache
}

func newTicketService(t *testing.T) (*TicketService, *ticketServiceMocks) {
	t.Helper()
	m := &ticketServiceMocks{
		ticketRepo:   new(MockTicketRepository),
		workLogRepo:  new(MockWorkLogRepository),
		machineRepo:  new(MockMachineRepository),
		customerRepo: new(MockCustomerRepository),
		userRepo:     new(MockUserRepository),
		stats:        new(MockStatsNotifier),
		cache:        cache.NewInMemoryTagCache(),
	}
	svc := NewTicketService(m.ticketRepo, m.workLogRepo, m.machineRepo, m.customerRepo, m.userRepo, m.stats, m.cache, nil)
	return svc, m
}

func newActor(t *testing.T, role identity.Role) *identity.User {
	t.Helper()
	user, err := identity.NewUser("Rita Vos", string(role)+"@fieldserve.test", "s3cret-pass", role)
	require.NoError(t, err)
	return user
}

func newRegistryFixture(t *testing.T) (*registry.Customer, *registry.Machine) {
	t.Helper()
	customer, err := registry.NewCustomer("Bean There Coffee", "Joe Barista", "+31 20 555 0100", "Roastery Lane 7")
	require.NoError(t, err)
	machine, err := registry.NewMachine(customer.ID, registry.MachineTypeEspresso, "SN-4411")
	require.NoError(t, err)
	return customer, machine
}

func newAssignedTicket(t *testing.T, technician *identity.User) *ticketing.Ticket {
	t.Helper()
	customer, machine := newRegistryFixture(t)
	snapshot, err := ticketing.NewTicketMachine(machine, customer, ticketing.PriorityHigh)
	require.NoError(t, err)
	ticket, err := ticketing.NewTicket("TKT-20260830-001", uuid.New(), []ticketing.TicketMachine{snapshot}, "Grinder jams on startup", "Joe Barista")
	require.NoError(t, err)
	require.NoError(t, ticket.Assign(technician.ID, technician.Name))
	return ticket
}

func completeWorkLog(t *testing.T, ticket *ticketing.Ticket, recordedBy uuid.UUID) *ticketing.WorkLog {
	t.Helper()
	log, err := ticketing.NewWorkLog(ticket.ID, ticket.Machines[0], recordedBy, time.Now().Add(-2*time.Hour))
	require.NoError(t, err)
	log.RecordWork("Replaced burr set", "Fixed", "")
	return log
}

func TestTicketService_Create(t *testing.T) {
	svc, m := newTicketService(t)
	actor := newActor(t, identity.RoleCallAdmin)
	customer, machine := newRegistryFixture(t)

	m.machineRepo.On("FindByIDs", mock.Anything, []uuid.UUID{machine.ID}).Return([]registry.Machine{*machine}, nil)
	m.customerRepo.On("FindByIDs", mock.Anything, []uuid.UUID{customer.ID}).Return([]registry.Customer{*customer}, nil)
	m.ticketRepo.On("CountCreatedBetween", mock.Anything, mock.Anything, mock.Anything).Return(int64(4), nil)
	m.ticketRepo.On("Save", mock.Anything, mock.AnythingOfType("*ticketing.Ticket")).Return(nil)
	m.stats.On("OnTicketCreated", mock.Anything, mock.AnythingOfType("*ticketing.Ticket")).Return(nil)

	result, err := svc.Create(context.Background(), actor, CreateTicketRequest{
		Machines:         []TicketMachineInput{{MachineID: machine.ID, Priority: "Urgent"}},
		IssueDescription: "Machine leaks water under the group head",
		ContactPerson:    "Joe Barista",
	})

	require.NoError(t, err)
	assert.Equal(t, ticketing.FormatTicketNumber(time.Now(), 5), result.TicketNumber)
	assert.Equal(t, "Open", result.Status)
	require.Len(t, result.Machines, 1)
	assert.Equal(t, "Bean There Coffee", result.Machines[0].CustomerName)
	assert.Equal(t, "SN-4411", result.Machines[0].SerialNumber)
	assert.Equal(t, "Urgent", result.Machines[0].Priority)
	m.stats.AssertExpectations(t)
}

func TestTicketService_Create_PreAssigned(t *testing.T) {
	svc, m := newTicketService(t)
	actor := newActor(t, identity.RoleAdmin)
	technician := newActor(t, identity.RoleTechnician)
	customer, machine := newRegistryFixture(t)

	m.machineRepo.On("FindByIDs", mock.Anything, mock.Anything).Return([]registry.Machine{*machine}, nil)
	m.customerRepo.On("FindByIDs", mock.Anything, mock.Anything).Return([]registry.Customer{*customer}, nil)
	m.ticketRepo.On("CountCreatedBetween", mock.Anything, mock.Anything, mock.Anything).Return(int64(0), nil)
	m.userRepo.On("FindByID", mock.Anything, technician.ID).Return(technician, nil)
	m.ticketRepo.On("Save", mock.Anything, mock.Anything).Return(nil)
	m.stats.On("OnTicketCreated", mock.Anything, mock.Anything).Return(nil)

	result, err := svc.Create(context.Background(), actor, CreateTicketRequest{
		Machines:         []TicketMachineInput{{MachineID: machine.ID, Priority: "High"}},
		IssueDescription: "Steam wand pressure dropping intermittently",
		AssignedTo:       &technician.ID,
	})

	require.NoError(t, err)
	assert.Equal(t, "Assigned", result.Status)
	assert.Equal(t, technician.Name, result.AssignedToName)
}

func TestTicketService_Create_TechnicianForbidden(t *testing.T) {
	svc, _ := newTicketService(t)
	actor := newActor(t, identity.RoleTechnician)

	_, err := svc.Create(context.Background(), actor, CreateTicketRequest{
		Machines:         []TicketMachineInput{{MachineID: uuid.New(), Priority: "Low"}},
		IssueDescription: "Should never get this far today",
	})

	assert.ErrorIs(t, err, shared.ErrUnauthorized)
}

func TestTicketService_Create_StatsFailureDoesNotFailCreate(t *testing.T) {
	svc, m := newTicketService(t)
	actor := newActor(t, identity.RoleCallAdmin)
	customer, machine := newRegistryFixture(t)

	m.machineRepo.On("FindByIDs", mock.Anything, mock.Anything).Return([]registry.Machine{*machine}, nil)
	m.customerRepo.On("FindByIDs", mock.Anything, mock.Anything).Return([]registry.Customer{*customer}, nil)
	m.ticketRepo.On("CountCreatedBetween", mock.Anything, mock.Anything, mock.Anything).Return(int64(0), nil)
	m.ticketRepo.On("Save", mock.Anything, mock.Anything).Return(nil)
	m.stats.On("OnTicketCreated", mock.Anything, mock.Anything).Return(errors.New("stats store down"))

	_, err := svc.Create(context.Background(), actor, CreateTicketRequest{
		Machines:         []TicketMachineInput{{MachineID: machine.ID, Priority: "Medium"}},
		IssueDescription: "Display flickers during brew cycle",
	})

	require.NoError(t, err)
}

func TestTicketService_Create_DuplicateMachine(t *testing.T) {
	svc, _ := newTicketService(t)
	actor := newActor(t, identity.RoleCallAdmin)
	machineID := uuid.New()

	_, err := svc.Create(context.Background(), actor, CreateTicketRequest{
		Machines: []TicketMachineInput{
			{MachineID: machineID, Priority: "Low"},
			{MachineID: machineID, Priority: "High"},
		},
		IssueDescription: "Same machine listed twice somehow",
	})

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "DUPLICATE_MACHINE", domainErr.Code)
}

func TestTicketService_Create_MachineNotFound(t *testing.T) {
	svc, m := newTicketService(t)
	actor := newActor(t, identity.RoleCallAdmin)

	m.machineRepo.On("FindByIDs", mock.Anything, mock.Anything).Return([]registry.Machine{}, nil)
	m.customerRepo.On("FindByIDs", mock.Anything, mock.Anything).Return([]registry.Customer{}, nil)

	_, err := svc.Create(context.Background(), actor, CreateTicketRequest{
		Machines:         []TicketMachineInput{{MachineID: uuid.New(), Priority: "Low"}},
		IssueDescription: "Machine vanished from the registry",
	})

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "MACHINE_NOT_FOUND", domainErr.Code)
}

func TestTicketService_Update_AssignForcesAssignedStatus(t *testing.T) {
	svc, m := newTicketService(t)
	actor := newActor(t, identity.RoleCallAdmin)
	technician := newActor(t, identity.RoleTechnician)
	customer, machine := newRegistryFixture(t)
	snapshot, err := ticketing.NewTicketMachine(machine, customer, ticketing.PriorityMedium)
	require.NoError(t, err)
	creator := uuid.New()
	ticket, err := ticketing.NewTicket("TKT-20260830-002", creator, []ticketing.TicketMachine{snapshot}, "Boiler takes too long to heat", "")
	require.NoError(t, err)

	m.ticketRepo.On("FindByID", mock.Anything, ticket.ID).Return(ticket, nil)
	m.userRepo.On("FindByID", mock.Anything, technician.ID).Return(technician, nil)
	m.ticketRepo.On("Save", mock.Anything, ticket).Return(nil)
	m.stats.On("OnStatusChanged", mock.Anything, creator, ticketing.TicketStatusOpen, ticketing.TicketStatusAssigned).Return(nil)

	result, err := svc.Update(context.Background(), actor, ticket.ID, UpdateTicketRequest{
		AssignedTo: &technician.ID,
	})

	require.NoError(t, err)
	assert.Equal(t, "Assigned", result.Status)
	assert.Equal(t, technician.Name, result.AssignedToName)
	m.stats.AssertExpectations(t)
}

func TestTicketService_Update_UnassignReturnsToOpen(t *testing.T) {
	svc, m := newTicketService(t)
	actor := newActor(t, identity.RoleAdmin)
	technician := newActor(t, identity.RoleTechnician)
	ticket := newAssignedTicket(t, technician)
	creator := *ticket.GetCreatedBy()

	m.ticketRepo.On("FindByID", mock.Anything, ticket.ID).Return(ticket, nil)
	m.ticketRepo.On("Save", mock.Anything, ticket).Return(nil)
	m.stats.On("OnStatusChanged", mock.Anything, creator, ticketing.TicketStatusAssigned, ticketing.TicketStatusOpen).Return(nil)

	status := "Open"
	result, err := svc.Update(context.Background(), actor, ticket.ID, UpdateTicketRequest{Status: &status})

	require.NoError(t, err)
	assert.Equal(t, "Open", result.Status)
	assert.Nil(t, result.AssignedTo)
	assert.Empty(t, result.AssignedToName)
}

func TestTicketService_Update_InvalidatesTechnicianAndCreatorCaches(t *testing.T) {
	svc, m := newTicketService(t)
	actor := newActor(t, identity.RoleAdmin)
	technician := newActor(t, identity.RoleTechnician)
	ticket := newAssignedTicket(t, technician)
	creator := *ticket.GetCreatedBy()

	require.NoError(t, m.cache.SetJSON(context.Background(), "technicians:list", []string{technician.Name}, cache.TagTechnicians))
	require.NoError(t, m.cache.SetJSON(context.Background(), "call_admins:stats:"+creator.String(), map[string]int{"open": 1}, cache.CallAdminTag(creator.String())))
	require.Equal(t, 2, m.cache.Len())

	m.ticketRepo.On("FindByID", mock.Anything, ticket.ID).Return(ticket, nil)
	m.ticketRepo.On("Save", mock.Anything, ticket).Return(nil)
	m.stats.On("OnStatusChanged", mock.Anything, creator, ticketing.TicketStatusAssigned, ticketing.TicketStatusOpen).Return(nil)

	status := "Open"
	_, err := svc.Update(context.Background(), actor, ticket.ID, UpdateTicketRequest{Status: &status})

	require.NoError(t, err)
	assert.Equal(t, 0, m.cache.Len())
}

func TestTicketService_Update_CloseRequiresWorkLogs(t *testing.T) {
	svc, m := newTicketService(t)
	actor := newActor(t, identity.RoleAdmin)
	technician := newActor(t, identity.RoleTechnician)
	ticket := newAssignedTicket(t, technician)

	m.ticketRepo.On("FindByID", mock.Anything, ticket.ID).Return(ticket, nil)
	m.workLogRepo.On("FindByTicketAndMachine", mock.Anything, ticket.ID, ticket.Machines[0].MachineID).Return(nil, shared.ErrNotFound)

	status := "Closed"
	_, err := svc.Update(context.Background(), actor, ticket.ID, UpdateTicketRequest{Status: &status})

	require.Error(t, err)
	assert.EqualError(t, err, "All machines must have work details logged before closing")
	m.ticketRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestTicketService_Update_NotFound(t *testing.T) {
	svc, m := newTicketService(t)
	actor := newActor(t, identity.RoleAdmin)
	id := uuid.New()

	m.ticketRepo.On("FindByID", mock.Anything, id).Return(nil, shared.ErrNotFound)

	_, err := svc.Update(context.Background(), actor, id, UpdateTicketRequest{})

	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestTicketService_Close(t *testing.T) {
	svc, m := newTicketService(t)
	technician := newActor(t, identity.RoleTechnician)
	ticket := newAssignedTicket(t, technician)
	creator := *ticket.GetCreatedBy()
	log := completeWorkLog(t, ticket, technician.ID)

	m.ticketRepo.On("FindByID", mock.Anything, ticket.ID).Return(ticket, nil)
	m.workLogRepo.On("FindByTicketAndMachine", mock.Anything, ticket.ID, ticket.Machines[0].MachineID).Return(log, nil)
	m.ticketRepo.On("Save", mock.Anything, ticket).Return(nil)
	m.stats.On("OnStatusChanged", mock.Anything, creator, ticketing.TicketStatusAssigned, ticketing.TicketStatusClosed).Return(nil)

	result, err := svc.Close(context.Background(), technician, ticket.ID)

	require.NoError(t, err)
	assert.Equal(t, "Closed", result.Status)
	require.NotNil(t, result.ClosedAt)
	m.stats.AssertExpectations(t)
}

func TestTicketService_Close_NotAssignedTechnician(t *testing.T) {
	svc, m := newTicketService(t)
	technician := newActor(t, identity.RoleTechnician)
	other := newActor(t, identity.RoleTechnician)
	ticket := newAssignedTicket(t, technician)

	m.ticketRepo.On("FindByID", mock.Anything, ticket.ID).Return(ticket, nil)

	_, err := svc.Close(context.Background(), other, ticket.ID)

	require.Error(t, err)
	assert.EqualError(t, err, "ticket is not assigned to you")
}

func TestTicketService_Close_IncompleteWorkLog(t *testing.T) {
	svc, m := newTicketService(t)
	technician := newActor(t, identity.RoleTechnician)
	ticket := newAssignedTicket(t, technician)

	// Log exists but work performed / outcome were never filled in.
	log, err := ticketing.NewWorkLog(ticket.ID, ticket.Machines[0], technician.ID, time.Now())
	require.NoError(t, err)

	m.ticketRepo.On("FindByID", mock.Anything, ticket.ID).Return(ticket, nil)
	m.workLogRepo.On("FindByTicketAndMachine", mock.Anything, ticket.ID, ticket.Machines[0].MachineID).Return(log, nil)

	_, err = svc.Close(context.Background(), technician, ticket.ID)

	require.Error(t, err)
	assert.EqualError(t, err, "All machines must have work details logged before closing")
}

func TestTicketService_TechnicianUpdate_DepartureClosesTicket(t *testing.T) {
	svc, m := newTicketService(t)
	technician := newActor(t, identity.RoleTechnician)
	ticket := newAssignedTicket(t, technician)
	creator := *ticket.GetCreatedBy()
	log := completeWorkLog(t, ticket, technician.ID)
	departure := time.Now()

	m.ticketRepo.On("FindByID", mock.Anything, ticket.ID).Return(ticket, nil)
	m.workLogRepo.On("FindByTicket", mock.Anything, ticket.ID).Return([]ticketing.WorkLog{*log}, nil)
	m.workLogRepo.On("SaveBatch", mock.Anything, mock.AnythingOfType("[]*ticketing.WorkLog")).Return(nil)
	m.workLogRepo.On("FindByTicketAndMachine", mock.Anything, ticket.ID, ticket.Machines[0].MachineID).Return(log, nil)
	m.ticketRepo.On("Save", mock.Anything, ticket).Return(nil)
	m.stats.On("OnStatusChanged", mock.Anything, creator, ticketing.TicketStatusAssigned, ticketing.TicketStatusClosed).Return(nil)

	result, err := svc.TechnicianUpdate(context.Background(), technician, ticket.ID, TechnicianUpdateRequest{
		DepartureTime: &departure,
	})

	require.NoError(t, err)
	assert.Equal(t, "Closed", result.Status)
	m.workLogRepo.AssertCalled(t, "SaveBatch", mock.Anything, mock.AnythingOfType("[]*ticketing.WorkLog"))
}

func TestTicketService_TechnicianUpdate_NotesOnlyKeepsStatus(t *testing.T) {
	svc, m := newTicketService(t)
	technician := newActor(t, identity.RoleTechnician)
	ticket := newAssignedTicket(t, technician)

	m.ticketRepo.On("FindByID", mock.Anything, ticket.ID).Return(ticket, nil)
	m.ticketRepo.On("Save", mock.Anything, ticket).Return(nil)

	notes := "Customer asked for a descale quote"
	result, err := svc.TechnicianUpdate(context.Background(), technician, ticket.ID, TechnicianUpdateRequest{
		AdditionalNotes: &notes,
	})

	require.NoError(t, err)
	assert.Equal(t, "Assigned", result.Status)
	assert.Equal(t, notes, result.AdditionalNotes)
	m.stats.AssertNotCalled(t, "OnStatusChanged", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestTicketService_List_TechnicianScopedToOwnTickets(t *testing.T) {
	svc, m := newTicketService(t)
	technician := newActor(t, identity.RoleTechnician)

	m.ticketRepo.On("FindAll", mock.Anything, mock.MatchedBy(func(f shared.Filter) bool {
		return f.Filters["assigned_to"] == technician.ID
	})).Return([]ticketing.Ticket{}, nil)
	m.ticketRepo.On("Count", mock.Anything, mock.Anything).Return(int64(0), nil)

	other := uuid.New()
	_, err := svc.List(context.Background(), technician, TicketListFilter{AssignedTo: &other})

	require.NoError(t, err)
	m.ticketRepo.AssertExpectations(t)
}

func TestTicketService_GetByID_CachesResult(t *testing.T) {
	svc, m := newTicketService(t)
	technician := newActor(t, identity.RoleTechnician)
	ticket := newAssignedTicket(t, technician)

	m.ticketRepo.On("FindByID", mock.Anything, ticket.ID).Return(ticket, nil).Once()

	first, err := svc.GetByID(context.Background(), ticket.ID)
	require.NoError(t, err)

	// Second call is served from cache; the repo expectation is Once.
	second, err := svc.GetByID(context.Background(), ticket.ID)
	require.NoError(t, err)

	assert.Equal(t, first.TicketNumber, second.TicketNumber)
	m.ticketRepo.AssertExpectations(t)
}
