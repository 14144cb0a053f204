package service

import (
	"context"

	"github.com/lcolonia21/BizGuide-Final-System/internal/domain"
	"github.com/lcolonia21/BizGuide-Final-System/internal/observability"
)

type Decision int

const (
	DecisionForbidden Decision = iota
	DecisionAllowed
)

func (d Decision) String() string {
	if d == DecisionAllowed {
		return "allowed"
	}
	return "forbidden"
}

// OwnershipGuard decides whether an identity may mutate a resource. The
// rule is strict equality of the identity id with the resource's owner or
// author id. Existence of the resource is checked by the caller first.
type OwnershipGuard struct{}

func NewOwnershipGuard() *OwnershipGuard { return &OwnershipGuard{} }

func (OwnershipGuard) AuthorizeMutation(identity *domain.User, ownerID uint) Decision {
	if identity != nil && identity.ID == ownerID {
		return DecisionAllowed
	}
	return DecisionForbidden
}

// Require maps DecisionForbidden to ErrForbidden and records the decision
// under resource.
func (g OwnershipGuard) Require(ctx context.Context, resource string, identity *domain.User, ownerID uint) error {
	decision := g.AuthorizeMutation(identity, ownerID)
	observability.RecordOwnershipDecision(ctx, resource, decision.String())
	if decision != DecisionAllowed {
		return ErrForbidden
	}
	return nil
}
