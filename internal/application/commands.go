package application

import "github.com/nexustools/datameq-cli/internal/domain"

type AllocateCommand struct {
	ActorID domain.UserID
	Count1  int
	Count2  int
	Inserts []domain.InsertSpec
}

type IngestCommand struct {
	ActorID domain.UserID
	Pool    domain.PoolName
	Text    string
}

type SetQuotaCommand struct {
	ActorID       domain.UserID
	UserID        domain.UserID
	DailyLimit    int
	MaxPerRequest int
}

type AddUserCommand struct {
	ActorID domain.UserID
	Name    string
	Email   string
	Role    domain.Role
}
