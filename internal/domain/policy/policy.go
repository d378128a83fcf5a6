package policy

import (
	"github.com/google/uuid"
	"github.com/ignatzorin/freelance-marketplace/internal/domain/entity"
	"github.com/ignatzorin/freelance-marketplace/internal/domain/valueobject"
	"github.com/ignatzorin/freelance-marketplace/internal/pkg/apperror"
)

// Actor - аутентифицированный пользователь, выполняющий операцию.
type Actor struct {
	ID   uuid.UUID
	Role valueobject.Role
}

func (a Actor) IsAdmin() bool {
	return a.Role == valueobject.RoleAdmin
}

type Action string

const (
	ActionJobCreate       Action = "job.create"
	ActionJobUpdate       Action = "job.update"
	ActionJobDelete       Action = "job.delete"
	ActionProposalList    Action = "proposal.list"
	ActionProposalCreate  Action = "proposal.create"
	ActionProposalDecide  Action = "proposal.decide"
	ActionProjectComplete Action = "project.complete"
	ActionProjectPay      Action = "project.pay"
)

var allowedRoles = map[Action][]valueobject.Role{
	ActionJobCreate:       {valueobject.RoleClient, valueobject.RoleAdmin},
	ActionJobUpdate:       {valueobject.RoleClient, valueobject.RoleAdmin},
	ActionJobDelete:       {valueobject.RoleClient, valueobject.RoleAdmin},
	ActionProposalList:    {valueobject.RoleClient, valueobject.RoleAdmin},
	ActionProposalCreate:  {valueobject.RoleFreelancer, valueobject.RoleAdmin},
	ActionProposalDecide:  {valueobject.RoleClient, valueobject.RoleAdmin},
	ActionProjectComplete: {valueobject.RoleFreelancer, valueobject.RoleAdmin},
	ActionProjectPay:      {valueobject.RoleFreelancer, valueobject.RoleAdmin},
}

// CanPerform проверяет ролевой доступ. Неизвестные роли и действия запрещены.
func CanPerform(actor Actor, action Action) error {
	for _, role := range allowedRoles[action] {
		if actor.Role == role {
			return nil
		}
	}
	return apperror.ErrForbidden
}

// CanManageJob: изменять и удалять заказ может только его владелец.
func CanManageJob(actor Actor, job *entity.Job) error {
	if actor.IsAdmin() || job.IsOwnedBy(actor.ID) {
		return nil
	}
	return apperror.ErrForbidden
}

// CanViewProposals: клиент видит предложения только по своим заказам.
func CanViewProposals(actor Actor, job *entity.Job) error {
	return CanManageJob(actor, job)
}

// CanDecideProposal: решение по предложению принимает владелец заказа.
func CanDecideProposal(actor Actor, job *entity.Job) error {
	return CanManageJob(actor, job)
}

// CanProgressProject: менять статусы проекта может только назначенный фрилансер.
func CanProgressProject(actor Actor, project *entity.Project) error {
	if actor.IsAdmin() || project.HasFreelancer(actor.ID) {
		return nil
	}
	return apperror.ErrForbidden
}
