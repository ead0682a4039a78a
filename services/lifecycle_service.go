package services

import (
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/steelcraft/steelcraft-erp-api/models"
)

// Decision is the approval gate verdict on a pending order.
type Decision string

const (
	DecisionApprove Decision = "APPROVE"
	DecisionReject  Decision = "REJECT"
)

// LifecycleService owns order state: the approval gate and the production
// stage progression tracker. All transitions are conditional updates keyed
// on the expected current state, so concurrent submissions cannot both win —
// the loser gets a STATE_CONFLICT instead of silently clobbering the order.
type LifecycleService struct {
	db    *gorm.DB
	audit AuditPublisher
}

// NewLifecycleService creates a lifecycle service backed by the given
// database and audit publisher.
func NewLifecycleService(db *gorm.DB, audit AuditPublisher) *LifecycleService {
	return &LifecycleService{db: db, audit: audit}
}

// DecideOrder transitions a PENDING order to APPROVED or CANCELLED. Only the
// approver roles may decide, and an order can be decided exactly once.
func (s *LifecycleService) DecideOrder(orderID uint, decision Decision, actingRole string) (*models.Order, error) {
	if !RoleCan(actingRole, OpDecideOrder) {
		return nil, NewForbiddenError("Role " + actingRole + " is not allowed to decide orders")
	}

	var target models.OrderStatus
	switch decision {
	case DecisionApprove:
		target = models.OrderStatusApproved
	case DecisionReject:
		target = models.OrderStatusCancelled
	default:
		return nil, NewValidationError(fmt.Sprintf("Unknown decision %q, expected APPROVE or REJECT", decision))
	}

	var order models.Order
	if err := s.db.First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError(fmt.Sprintf("Order %d not found", orderID))
		}
		return nil, NewDatabaseError("Failed to load order")
	}

	if !order.Status.CanTransitionTo(target) {
		return nil, NewStateConflictError(fmt.Sprintf("Order %s is %s and cannot be decided", order.OrderNumber, order.Status))
	}

	// Conditional update: only a still-PENDING row is decided. A concurrent
	// decision that committed first leaves zero rows affected here.
	res := s.db.Model(&models.Order{}).
		Where("id = ? AND status = ?", orderID, models.OrderStatusPending).
		Update("status", target)
	if res.Error != nil {
		return nil, NewDatabaseError("Failed to update order status")
	}
	if res.RowsAffected == 0 {
		return nil, NewStateConflictError(fmt.Sprintf("Order %s was decided concurrently", order.OrderNumber))
	}

	if err := s.db.Preload("Branch").Preload("Items").First(&order, orderID).Error; err != nil {
		return nil, NewDatabaseError("Failed to reload order")
	}

	eventType := EventOrderApproved
	if target == models.OrderStatusCancelled {
		eventType = EventOrderRejected
	}
	s.publish(AuditEvent{
		Type:        eventType,
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		OldValue:    string(models.OrderStatusPending),
		NewValue:    string(target),
		Actor:       actingRole,
		Timestamp:   time.Now().UTC(),
	})

	return &order, nil
}

// RecordStage appends a production log row and advances the order's current
// stage, in one transaction. Preconditions: the order is APPROVED, the
// employee is assigned to the stage, and the stage is either the immediate
// successor of the order's current stage or the current stage itself when
// completing a previously started one. Recording the final stage as
// completed also marks the order COMPLETED.
func (s *LifecycleService) RecordStage(orderID, employeeID uint, stage models.ProductionStage, status, notes string) (*models.ProductionLog, error) {
	if !models.IsValidStage(stage) || stage == models.StagePending {
		return nil, NewValidationError(fmt.Sprintf("Unknown production stage %q", stage))
	}
	if status != models.LogStatusStarted && status != models.LogStatusCompleted {
		return nil, NewValidationError(fmt.Sprintf("Unknown log status %q, expected started or completed", status))
	}

	var order models.Order
	if err := s.db.First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError(fmt.Sprintf("Order %d not found", orderID))
		}
		return nil, NewDatabaseError("Failed to load order")
	}

	var employee models.Employee
	if err := s.db.First(&employee, employeeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError(fmt.Sprintf("Employee %d not found", employeeID))
		}
		return nil, NewDatabaseError("Failed to load employee")
	}

	if order.Status != models.OrderStatusApproved {
		return nil, NewStateConflictError(fmt.Sprintf("Order %s is %s; stage actions require an APPROVED order", order.OrderNumber, order.Status))
	}

	if !employee.IsAssignedTo(stage) {
		return nil, NewForbiddenError(fmt.Sprintf("Employee %s is not assigned to stage %s", employee.Name, stage))
	}

	// Two records are valid per stage: one advancing to it ("started" or
	// "completed"), and a follow-up "completed" on the current stage after a
	// "started". Anything else is out of order.
	if next, ok := models.NextStage(order.CurrentStage); !ok || next != stage {
		if stage != order.CurrentStage {
			if !ok {
				return nil, NewStateConflictError(fmt.Sprintf("Order %s is already at the final stage", order.OrderNumber))
			}
			return nil, NewStateConflictError(fmt.Sprintf("Order %s is at stage %s; next stage must be %s, not %s", order.OrderNumber, order.CurrentStage, next, stage))
		}
		if status != models.LogStatusCompleted {
			return nil, NewStateConflictError(fmt.Sprintf("Order %s has already started stage %s", order.OrderNumber, stage))
		}
		var last models.ProductionLog
		if err := s.db.Where("order_id = ? AND stage = ?", orderID, stage).Order("id DESC").First(&last).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, NewStateConflictError(fmt.Sprintf("Order %s is at stage %s with no log to complete", order.OrderNumber, stage))
			}
			return nil, NewDatabaseError("Failed to load production log")
		}
		if last.Status != models.LogStatusStarted {
			return nil, NewStateConflictError(fmt.Sprintf("Order %s has already completed stage %s", order.OrderNumber, stage))
		}
	}

	completed := stage == models.FinalStage() && status == models.LogStatusCompleted

	logEntry := models.ProductionLog{
		OrderID:    orderID,
		EmployeeID: employeeID,
		Stage:      stage,
		Status:     status,
		Notes:      notes,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&logEntry).Error; err != nil {
			return NewDatabaseError("Failed to append production log")
		}

		updates := map[string]interface{}{"current_stage": stage}
		if completed {
			updates["status"] = models.OrderStatusCompleted
		}

		// Conditional on the stage read above. A concurrent submission
		// that advanced the order first makes this match zero rows, which
		// rolls back the log append.
		res := tx.Model(&models.Order{}).
			Where("id = ? AND current_stage = ? AND status = ?", orderID, order.CurrentStage, models.OrderStatusApproved).
			Updates(updates)
		if res.Error != nil {
			return NewDatabaseError("Failed to advance order stage")
		}
		if res.RowsAffected == 0 {
			return NewStateConflictError(fmt.Sprintf("Order %s changed concurrently, stage not recorded", order.OrderNumber))
		}
		return nil
	})
	if err != nil {
		var svcErr *ServiceError
		if errors.As(err, &svcErr) {
			return nil, svcErr
		}
		return nil, NewDatabaseError("Stage transition failed")
	}

	if err := s.db.Preload("Employee").First(&logEntry, logEntry.ID).Error; err != nil {
		return nil, NewDatabaseError("Failed to reload production log")
	}

	s.publish(AuditEvent{
		Type:        EventStageRecorded,
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		OldValue:    string(order.CurrentStage),
		NewValue:    string(stage),
		Actor:       employee.Name,
		Timestamp:   time.Now().UTC(),
	})
	if completed {
		s.publish(AuditEvent{
			Type:        EventOrderCompleted,
			OrderID:     order.ID,
			OrderNumber: order.OrderNumber,
			OldValue:    string(models.OrderStatusApproved),
			NewValue:    string(models.OrderStatusCompleted),
			Actor:       employee.Name,
			Timestamp:   time.Now().UTC(),
		})
	}

	return &logEntry, nil
}

// publish sends an audit event, logging and swallowing failures. Audit is
// best-effort and never fails the originating request.
func (s *LifecycleService) publish(event AuditEvent) {
	if s.audit == nil {
		return
	}
	if err := s.audit.Publish(event); err != nil {
		log.WithError(err).WithField("type", event.Type).Warn("Failed to publish audit event")
	}
}
