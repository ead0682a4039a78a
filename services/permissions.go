package services

import "github.com/steelcraft/steelcraft-erp-api/models"

// Operations gated by role. Each API action maps to exactly one operation
// and the permission table below is consulted centrally before dispatch.
const (
	OpCreateOrder        = "order:create"
	OpViewOrders         = "order:view"
	OpDecideOrder        = "order:decide"
	OpRecordStage        = "production:record"
	OpViewProduction     = "production:view"
	OpManageBranches     = "branch:manage"
	OpManageEmployees    = "employee:manage"
	OpCreateTransaction  = "billing:create"
	OpViewTransactions   = "billing:view"
	OpManageAttachments  = "attachment:manage"
)

// rolePermissions maps each role to the operations it may perform.
// ADMIN holds every operation; MARKETING_HEAD owns intake and the approval
// gate; STORE_MANAGER owns billing and may record production; OPERATOR only
// records and views production.
var rolePermissions = map[string][]string{
	models.RoleAdmin: {
		OpCreateOrder, OpViewOrders, OpDecideOrder,
		OpRecordStage, OpViewProduction,
		OpManageBranches, OpManageEmployees,
		OpCreateTransaction, OpViewTransactions,
		OpManageAttachments,
	},
	models.RoleMarketingHead: {
		OpCreateOrder, OpViewOrders, OpDecideOrder,
		OpViewProduction, OpManageAttachments,
	},
	models.RoleStoreManager: {
		OpViewOrders, OpRecordStage, OpViewProduction,
		OpCreateTransaction, OpViewTransactions,
	},
	models.RoleOperator: {
		OpViewOrders, OpRecordStage, OpViewProduction,
	},
}

// RoleCan reports whether role is permitted to perform op.
func RoleCan(role, op string) bool {
	for _, allowed := range rolePermissions[role] {
		if allowed == op {
			return true
		}
	}
	return false
}
