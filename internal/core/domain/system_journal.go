package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// SystemJournalKind names a template for an auto-posted entry.
type SystemJournalKind string

const (
	KindCashSale          SystemJournalKind = "cash_sale"
	KindCreditSale        SystemJournalKind = "credit_sale"
	KindExpense           SystemJournalKind = "expense"
	KindPayroll           SystemJournalKind = "payroll"
	KindAdvanceGiven      SystemJournalKind = "advance_given"
	KindAdvanceRepaid     SystemJournalKind = "advance_repaid"
	KindReceivablePayment SystemJournalKind = "receivable_payment"
	KindPayablePayment    SystemJournalKind = "payable_payment"
	KindMaterialPurchase  SystemJournalKind = "material_purchase"
	KindTransfer          SystemJournalKind = "transfer"
	KindCashIn            SystemJournalKind = "cash_in"
	KindCashOut           SystemJournalKind = "cash_out"
	KindAssetPurchase     SystemJournalKind = "asset_purchase"
	KindDepreciation      SystemJournalKind = "depreciation"
	KindProductionCOGS    SystemJournalKind = "production_cogs"
)

// AccountRole names the slot an account fills in a template.
type AccountRole string

const (
	RoleCash                    AccountRole = "cash"
	RoleRevenue                 AccountRole = "revenue"
	RoleReceivable              AccountRole = "receivable"
	RolePayable                 AccountRole = "payable"
	RoleInventory               AccountRole = "inventory"
	RoleCOGS                    AccountRole = "cogs"
	RoleExpense                 AccountRole = "expense"
	RoleSalaryExpense           AccountRole = "salary_expense"
	RoleEmployeeAdvance         AccountRole = "employee_advance"
	RoleFromAccount             AccountRole = "from_account"
	RoleToAccount               AccountRole = "to_account"
	RoleCounterAccount          AccountRole = "counter_account"
	RoleFixedAsset              AccountRole = "fixed_asset"
	RoleDepreciationExpense     AccountRole = "depreciation_expense"
	RoleAccumulatedDepreciation AccountRole = "accumulated_depreciation"
)

// SystemJournalRequest describes a business event to be journaled. Accounts maps each role the
// template needs to a resolved account id. CostAmount is only used by sale templates.
type SystemJournalRequest struct {
	Kind        SystemJournalKind
	ReferenceID string
	Date        time.Time
	Amount      decimal.Decimal
	CostAmount  decimal.Decimal
	Memo        string
	Accounts    map[AccountRole]string
}
