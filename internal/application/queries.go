package application

import "github.com/nexustools/datameq-cli/internal/domain"

type PoolStatus struct {
	Data1Lines int
	Data2Lines int
}

// StatusReport is the read model behind `dmq pool status` and the status
// renderer: a point-in-time snapshot of the whole store.
type StatusReport struct {
	Pools    PoolStatus
	Settings domain.SystemSettings
	Users    []domain.User
	Activity []domain.ActivityEntry
}
