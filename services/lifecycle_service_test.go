package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/steelcraft/steelcraft-erp-api/models"
)

func setupLifecycleTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.Branch{},
		&models.Employee{},
		&models.Order{},
		&models.OrderItem{},
		&models.ProductionLog{},
	); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return db
}

func seedBranch(t *testing.T, db *gorm.DB) models.Branch {
	branch := models.Branch{Name: "Main Works", Address: "1 Foundry Road"}
	if err := db.Create(&branch).Error; err != nil {
		t.Fatalf("Failed to seed branch: %v", err)
	}
	return branch
}

func seedEmployee(t *testing.T, db *gorm.DB, branchID uint, stages ...models.ProductionStage) models.Employee {
	if len(stages) == 0 {
		stages = models.StageSequence[1:] // everything except the intake placeholder
	}
	employee := models.Employee{
		Name:           "Test Operator",
		BranchID:       branchID,
		AssignedStages: stages,
	}
	if err := db.Create(&employee).Error; err != nil {
		t.Fatalf("Failed to seed employee: %v", err)
	}
	return employee
}

func seedOrder(t *testing.T, db *gorm.DB, branchID uint, status models.OrderStatus, stage models.ProductionStage) models.Order {
	order := models.Order{
		OrderNumber:  "ORD-" + string(status) + "-" + string(stage),
		CustomerName: "Acme Fabrication",
		Status:       status,
		CurrentStage: stage,
		BranchID:     branchID,
	}
	if err := db.Create(&order).Error; err != nil {
		t.Fatalf("Failed to seed order: %v", err)
	}
	return order
}

func assertServiceError(t *testing.T, err error, code string) {
	t.Helper()
	assert.Error(t, err)
	svcErr, ok := err.(*ServiceError)
	if !ok {
		t.Fatalf("expected *ServiceError, got %T: %v", err, err)
	}
	assert.Equal(t, code, svcErr.Code)
}

func TestDecideOrder_Approve(t *testing.T) {
	db := setupLifecycleTestDB(t)
	branch := seedBranch(t, db)
	order := seedOrder(t, db, branch.ID, models.OrderStatusPending, models.StagePending)

	audit := NewMockAuditPublisher()
	svc := NewLifecycleService(db, audit)

	decided, err := svc.DecideOrder(order.ID, DecisionApprove, models.RoleMarketingHead)
	assert.NoError(t, err)
	assert.Equal(t, models.OrderStatusApproved, decided.Status)
	// The approval gate never touches the stage axis
	assert.Equal(t, models.StagePending, decided.CurrentStage)

	events := audit.EventsOfType(EventOrderApproved)
	assert.Len(t, events, 1)
	assert.Equal(t, order.ID, events[0].OrderID)
	assert.Equal(t, string(models.OrderStatusApproved), events[0].NewValue)
}

func TestDecideOrder_Reject(t *testing.T) {
	db := setupLifecycleTestDB(t)
	branch := seedBranch(t, db)
	order := seedOrder(t, db, branch.ID, models.OrderStatusPending, models.StagePending)

	audit := NewMockAuditPublisher()
	svc := NewLifecycleService(db, audit)

	decided, err := svc.DecideOrder(order.ID, DecisionReject, models.RoleMarketingHead)
	assert.NoError(t, err)
	assert.Equal(t, models.OrderStatusCancelled, decided.Status)

	assert.Len(t, audit.EventsOfType(EventOrderRejected), 1)
}

func TestDecideOrder_AdminMayDecide(t *testing.T) {
	db := setupLifecycleTestDB(t)
	branch := seedBranch(t, db)
	order := seedOrder(t, db, branch.ID, models.OrderStatusPending, models.StagePending)

	svc := NewLifecycleService(db, NewMockAuditPublisher())

	_, err := svc.DecideOrder(order.ID, DecisionApprove, models.RoleAdmin)
	assert.NoError(t, err)
}

func TestDecideOrder_UnauthorizedRole(t *testing.T) {
	db := setupLifecycleTestDB(t)
	branch := seedBranch(t, db)
	order := seedOrder(t, db, branch.ID, models.OrderStatusPending, models.StagePending)

	svc := NewLifecycleService(db, NewMockAuditPublisher())

	for _, role := range []string{models.RoleOperator, models.RoleStoreManager, "INTERN", ""} {
		_, err := svc.DecideOrder(order.ID, DecisionApprove, role)
		assertServiceError(t, err, CodeForbidden)
	}

	// Order state unchanged after the rejected attempts
	var reloaded models.Order
	db.First(&reloaded, order.ID)
	assert.Equal(t, models.OrderStatusPending, reloaded.Status)
}

func TestDecideOrder_NotFound(t *testing.T) {
	db := setupLifecycleTestDB(t)
	svc := NewLifecycleService(db, NewMockAuditPublisher())

	_, err := svc.DecideOrder(9999, DecisionApprove, models.RoleMarketingHead)
	assertServiceError(t, err, CodeNotFound)
}

func TestDecideOrder_InvalidDecision(t *testing.T) {
	db := setupLifecycleTestDB(t)
	branch := seedBranch(t, db)
	order := seedOrder(t, db, branch.ID, models.OrderStatusPending, models.StagePending)

	svc := NewLifecycleService(db, NewMockAuditPublisher())

	_, err := svc.DecideOrder(order.ID, Decision("MAYBE"), models.RoleMarketingHead)
	assertServiceError(t, err, CodeValidation)
}

func TestDecideOrder_AlreadyDecided(t *testing.T) {
	db := setupLifecycleTestDB(t)
	branch := seedBranch(t, db)

	for _, status := range []models.OrderStatus{
		models.OrderStatusApproved,
		models.OrderStatusCancelled,
		models.OrderStatusCompleted,
	} {
		order := seedOrder(t, db, branch.ID, status, models.StagePending)
		svc := NewLifecycleService(db, NewMockAuditPublisher())

		_, err := svc.DecideOrder(order.ID, DecisionApprove, models.RoleMarketingHead)
		assertServiceError(t, err, CodeStateConflict)
	}
}

func TestRecordStage_AdvancesOrderAndAppendsLog(t *testing.T) {
	db := setupLifecycleTestDB(t)
	branch := seedBranch(t, db)
	employee := seedEmployee(t, db, branch.ID)
	order := seedOrder(t, db, branch.ID, models.OrderStatusApproved, models.StagePending)

	audit := NewMockAuditPublisher()
	svc := NewLifecycleService(db, audit)

	logEntry, err := svc.RecordStage(order.ID, employee.ID, models.StageCutting, models.LogStatusCompleted, "first cut done")
	assert.NoError(t, err)
	assert.Equal(t, models.StageCutting, logEntry.Stage)
	assert.Equal(t, models.LogStatusCompleted, logEntry.Status)
	assert.Equal(t, "first cut done", logEntry.Notes)
	assert.Equal(t, employee.ID, logEntry.EmployeeID)

	// Exactly one log row was appended
	var count int64
	db.Model(&models.ProductionLog{}).Where("order_id = ?", order.ID).Count(&count)
	assert.Equal(t, int64(1), count)

	var reloaded models.Order
	db.First(&reloaded, order.ID)
	assert.Equal(t, models.StageCutting, reloaded.CurrentStage)
	// Status axis is untouched before the final stage
	assert.Equal(t, models.OrderStatusApproved, reloaded.Status)

	assert.Len(t, audit.EventsOfType(EventStageRecorded), 1)
	assert.Empty(t, audit.EventsOfType(EventOrderCompleted))
}

func TestRecordStage_RejectsNonApprovedOrder(t *testing.T) {
	db := setupLifecycleTestDB(t)
	branch := seedBranch(t, db)
	employee := seedEmployee(t, db, branch.ID)

	for _, status := range []models.OrderStatus{
		models.OrderStatusPending,
		models.OrderStatusCancelled,
		models.OrderStatusCompleted,
	} {
		order := seedOrder(t, db, branch.ID, status, models.StagePending)
		svc := NewLifecycleService(db, NewMockAuditPublisher())

		_, err := svc.RecordStage(order.ID, employee.ID, models.StageCutting, models.LogStatusCompleted, "")
		assertServiceError(t, err, CodeStateConflict)

		// No log row was appended
		var count int64
		db.Model(&models.ProductionLog{}).Where("order_id = ?", order.ID).Count(&count)
		assert.Equal(t, int64(0), count)
	}
}

func TestRecordStage_RejectsUnassignedEmployee(t *testing.T) {
	db := setupLifecycleTestDB(t)
	branch := seedBranch(t, db)
	welder := seedEmployee(t, db, branch.ID, models.StageWeldingInner, models.StageWeldingOuter)
	order := seedOrder(t, db, branch.ID, models.OrderStatusApproved, models.StagePending)

	svc := NewLifecycleService(db, NewMockAuditPublisher())

	_, err := svc.RecordStage(order.ID, welder.ID, models.StageCutting, models.LogStatusCompleted, "")
	assertServiceError(t, err, CodeForbidden)
}

func TestRecordStage_RejectsStageJump(t *testing.T) {
	db := setupLifecycleTestDB(t)
	branch := seedBranch(t, db)
	employee := seedEmployee(t, db, branch.ID)
	order := seedOrder(t, db, branch.ID, models.OrderStatusApproved, models.StagePending)

	svc := NewLifecycleService(db, NewMockAuditPublisher())

	// CUTTING is next; jumping straight to GRINDING must fail
	_, err := svc.RecordStage(order.ID, employee.ID, models.StageGrinding, models.LogStatusCompleted, "")
	assertServiceError(t, err, CodeStateConflict)

	var reloaded models.Order
	db.First(&reloaded, order.ID)
	assert.Equal(t, models.StagePending, reloaded.CurrentStage)
}

func TestRecordStage_RejectsDuplicateStage(t *testing.T) {
	db := setupLifecycleTestDB(t)
	branch := seedBranch(t, db)
	employee := seedEmployee(t, db, branch.ID)
	order := seedOrder(t, db, branch.ID, models.OrderStatusApproved, models.StagePending)

	svc := NewLifecycleService(db, NewMockAuditPublisher())

	_, err := svc.RecordStage(order.ID, employee.ID, models.StageCutting, models.LogStatusCompleted, "")
	assert.NoError(t, err)

	// Submitting the same stage again must not duplicate state
	_, err = svc.RecordStage(order.ID, employee.ID, models.StageCutting, models.LogStatusCompleted, "")
	assertServiceError(t, err, CodeStateConflict)

	var count int64
	db.Model(&models.ProductionLog{}).Where("order_id = ?", order.ID).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestRecordStage_ValidationErrors(t *testing.T) {
	db := setupLifecycleTestDB(t)
	branch := seedBranch(t, db)
	employee := seedEmployee(t, db, branch.ID)
	order := seedOrder(t, db, branch.ID, models.OrderStatusApproved, models.StagePending)

	svc := NewLifecycleService(db, NewMockAuditPublisher())

	_, err := svc.RecordStage(order.ID, employee.ID, "POLISHING", models.LogStatusCompleted, "")
	assertServiceError(t, err, CodeValidation)

	_, err = svc.RecordStage(order.ID, employee.ID, models.StagePending, models.LogStatusCompleted, "")
	assertServiceError(t, err, CodeValidation)

	_, err = svc.RecordStage(order.ID, employee.ID, models.StageCutting, "done", "")
	assertServiceError(t, err, CodeValidation)
}

func TestRecordStage_NotFoundErrors(t *testing.T) {
	db := setupLifecycleTestDB(t)
	branch := seedBranch(t, db)
	employee := seedEmployee(t, db, branch.ID)
	order := seedOrder(t, db, branch.ID, models.OrderStatusApproved, models.StagePending)

	svc := NewLifecycleService(db, NewMockAuditPublisher())

	_, err := svc.RecordStage(9999, employee.ID, models.StageCutting, models.LogStatusCompleted, "")
	assertServiceError(t, err, CodeNotFound)

	_, err = svc.RecordStage(order.ID, 9999, models.StageCutting, models.LogStatusCompleted, "")
	assertServiceError(t, err, CodeNotFound)
}

func TestRecordStage_FinalStageCompletesOrder(t *testing.T) {
	db := setupLifecycleTestDB(t)
	branch := seedBranch(t, db)
	employee := seedEmployee(t, db, branch.ID)
	order := seedOrder(t, db, branch.ID, models.OrderStatusApproved, models.StageFinishing)

	audit := NewMockAuditPublisher()
	svc := NewLifecycleService(db, audit)

	logEntry, err := svc.RecordStage(order.ID, employee.ID, models.StagePainting, models.LogStatusCompleted, "")
	assert.NoError(t, err)
	assert.Equal(t, models.StagePainting, logEntry.Stage)

	var reloaded models.Order
	db.First(&reloaded, order.ID)
	assert.Equal(t, models.StagePainting, reloaded.CurrentStage)
	assert.Equal(t, models.OrderStatusCompleted, reloaded.Status)
	assert.True(t, reloaded.IsComplete())

	assert.Len(t, audit.EventsOfType(EventStageRecorded), 1)
	assert.Len(t, audit.EventsOfType(EventOrderCompleted), 1)
}

func TestRecordStage_FinalStageStartedDoesNotComplete(t *testing.T) {
	db := setupLifecycleTestDB(t)
	branch := seedBranch(t, db)
	employee := seedEmployee(t, db, branch.ID)
	order := seedOrder(t, db, branch.ID, models.OrderStatusApproved, models.StageFinishing)

	svc := NewLifecycleService(db, NewMockAuditPublisher())

	// Starting the final stage advances the pointer but leaves the order open
	_, err := svc.RecordStage(order.ID, employee.ID, models.StagePainting, models.LogStatusStarted, "")
	assert.NoError(t, err)

	var reloaded models.Order
	db.First(&reloaded, order.ID)
	assert.Equal(t, models.StagePainting, reloaded.CurrentStage)
	assert.Equal(t, models.OrderStatusApproved, reloaded.Status)
}

func TestRecordStage_StartedThenCompletedFinalStage(t *testing.T) {
	db := setupLifecycleTestDB(t)
	branch := seedBranch(t, db)
	employee := seedEmployee(t, db, branch.ID)
	order := seedOrder(t, db, branch.ID, models.OrderStatusApproved, models.StageFinishing)

	svc := NewLifecycleService(db, NewMockAuditPublisher())

	_, err := svc.RecordStage(order.ID, employee.ID, models.StagePainting, models.LogStatusStarted, "")
	assert.NoError(t, err)

	// The follow-up completion on the same stage must close the order
	logEntry, err := svc.RecordStage(order.ID, employee.ID, models.StagePainting, models.LogStatusCompleted, "final coat dry")
	assert.NoError(t, err)
	assert.Equal(t, models.LogStatusCompleted, logEntry.Status)

	var reloaded models.Order
	db.First(&reloaded, order.ID)
	assert.Equal(t, models.OrderStatusCompleted, reloaded.Status)
	assert.Equal(t, models.StagePainting, reloaded.CurrentStage)

	var count int64
	db.Model(&models.ProductionLog{}).Where("order_id = ?", order.ID).Count(&count)
	assert.Equal(t, int64(2), count)
}

func TestRecordStage_StartedThenCompletedMidStage(t *testing.T) {
	db := setupLifecycleTestDB(t)
	branch := seedBranch(t, db)
	employee := seedEmployee(t, db, branch.ID)
	order := seedOrder(t, db, branch.ID, models.OrderStatusApproved, models.StagePending)

	svc := NewLifecycleService(db, NewMockAuditPublisher())

	_, err := svc.RecordStage(order.ID, employee.ID, models.StageCutting, models.LogStatusStarted, "")
	assert.NoError(t, err)

	_, err = svc.RecordStage(order.ID, employee.ID, models.StageCutting, models.LogStatusCompleted, "")
	assert.NoError(t, err)

	// A second "started" on the current stage stays rejected
	_, err = svc.RecordStage(order.ID, employee.ID, models.StageCutting, models.LogStatusStarted, "")
	assertServiceError(t, err, CodeStateConflict)

	// Completing an already completed stage stays rejected
	_, err = svc.RecordStage(order.ID, employee.ID, models.StageCutting, models.LogStatusCompleted, "")
	assertServiceError(t, err, CodeStateConflict)

	var reloaded models.Order
	db.First(&reloaded, order.ID)
	assert.Equal(t, models.StageCutting, reloaded.CurrentStage)
	assert.Equal(t, models.OrderStatusApproved, reloaded.Status)

	// The sequence continues normally from the completed stage
	_, err = svc.RecordStage(order.ID, employee.ID, models.StageShaping, models.LogStatusStarted, "")
	assert.NoError(t, err)
}

func TestRecordStage_FullSequence(t *testing.T) {
	db := setupLifecycleTestDB(t)
	branch := seedBranch(t, db)
	employee := seedEmployee(t, db, branch.ID)
	order := seedOrder(t, db, branch.ID, models.OrderStatusApproved, models.StagePending)

	audit := NewMockAuditPublisher()
	svc := NewLifecycleService(db, audit)

	for _, stage := range models.StageSequence[1:] {
		_, err := svc.RecordStage(order.ID, employee.ID, stage, models.LogStatusCompleted, "")
		assert.NoError(t, err, "stage %s", stage)
	}

	var reloaded models.Order
	db.First(&reloaded, order.ID)
	assert.Equal(t, models.OrderStatusCompleted, reloaded.Status)
	assert.Equal(t, models.StagePainting, reloaded.CurrentStage)

	var count int64
	db.Model(&models.ProductionLog{}).Where("order_id = ?", order.ID).Count(&count)
	assert.Equal(t, int64(len(models.StageSequence)-1), count)
}

func TestRecordStage_AuditFailureDoesNotFailRequest(t *testing.T) {
	db := setupLifecycleTestDB(t)
	branch := seedBranch(t, db)
	employee := seedEmployee(t, db, branch.ID)
	order := seedOrder(t, db, branch.ID, models.OrderStatusApproved, models.StagePending)

	audit := NewMockAuditPublisher()
	audit.PublishError = assert.AnError
	svc := NewLifecycleService(db, audit)

	_, err := svc.RecordStage(order.ID, employee.ID, models.StageCutting, models.LogStatusCompleted, "")
	assert.NoError(t, err)

	var reloaded models.Order
	db.First(&reloaded, order.ID)
	assert.Equal(t, models.StageCutting, reloaded.CurrentStage)
}
