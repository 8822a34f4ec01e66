package domain

// SystemSettings are the global administrator-controlled switches. Locked
// suspends allocation for non-administrators; AllowContribution gates
// non-admin pool ingestion; Maintenance is informational only.
type SystemSettings struct {
	Locked            bool
	AllowContribution bool
	Maintenance       bool
}
