package domain

// Branch partitions all ledger data and entry numbering.
type Branch struct {
	BranchID string `json:"branchID"`
	Code     string `json:"code"`
	Name     string `json:"name"`
	IsActive bool   `json:"isActive"`
	AuditFields
}
