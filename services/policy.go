package services

import (
	"net/http"

	"github.com/BuildForSDGCohort2/Team-096-backend/models"
)

// Action is a resource action subject to permission checks.
type Action string

// Actions evaluated by the policy.
const (
	ActionCreate   Action = "create"
	ActionList     Action = "list"
	ActionRetrieve Action = "retrieve"
	ActionUpdate   Action = "update"
	ActionDestroy  Action = "destroy"
)

// ResourceKind identifies which permission row applies.
type ResourceKind string

// Resource kinds known to the policy.
const (
	ResourceUser     ResourceKind = "user"
	ResourceProduce  ResourceKind = "produce"
	ResourceCategory ResourceKind = "category"
	ResourceOrder    ResourceKind = "order"
)

// Decision is the outcome of a permission check. When the action is denied,
// Status and Code describe the HTTP response to return.
type Decision struct {
	Allowed bool
	Status  int
	Code    string
	Message string
}

var allow = Decision{Allowed: true}

func denyUnauthenticated() Decision {
	return Decision{
		Status:  http.StatusUnauthorized,
		Code:    "UNAUTHORIZED",
		Message: "Authentication credentials were not provided or are invalid.",
	}
}

func denyForbidden() Decision {
	return Decision{
		Status:  http.StatusForbidden,
		Code:    "FORBIDDEN",
		Message: "You do not have permission to perform this action.",
	}
}

func denyMethodNotAllowed() Decision {
	return Decision{
		Status:  http.StatusMethodNotAllowed,
		Code:    "METHOD_NOT_ALLOWED",
		Message: "This action is not supported for the resource.",
	}
}

// Authorize evaluates the permission table for an actor acting on a resource.
// ownerID is the id of the user a resource belongs to: the produce owner, the
// order consumer, or the target user itself. It is ignored for actions whose
// rule does not depend on ownership. A nil actor is an anonymous request.
//
// The policy runs before any mutation, so a denial never leaves partial
// side effects behind.
func Authorize(actor *models.User, kind ResourceKind, action Action, ownerID uint) Decision {
	switch kind {
	case ResourceUser:
		return authorizeUser(actor, action, ownerID)
	case ResourceProduce:
		return authorizeProduce(actor, action, ownerID)
	case ResourceCategory:
		return authorizeCategory(actor, action)
	case ResourceOrder:
		return authorizeOrder(actor, action, ownerID)
	}
	return denyForbidden()
}

func authorizeUser(actor *models.User, action Action, targetID uint) Decision {
	switch action {
	case ActionCreate:
		// Registration is open to anonymous callers.
		return allow
	case ActionDestroy:
		// Accounts are never hard-deleted through the API.
		return denyMethodNotAllowed()
	}
	if actor == nil {
		return denyUnauthenticated()
	}
	switch action {
	case ActionList:
		return allow
	case ActionRetrieve, ActionUpdate:
		if actor.ID == targetID || actor.IsAdmin() {
			return allow
		}
		return denyForbidden()
	}
	return denyForbidden()
}

func authorizeProduce(actor *models.User, action Action, ownerID uint) Decision {
	if actor == nil {
		return denyUnauthenticated()
	}
	switch action {
	case ActionCreate, ActionList, ActionRetrieve:
		return allow
	case ActionUpdate:
		if actor.ID == ownerID || actor.IsAdmin() {
			return allow
		}
		return denyForbidden()
	case ActionDestroy:
		if actor.ID == ownerID || actor.IsStaff {
			return allow
		}
		return denyForbidden()
	}
	return denyForbidden()
}

func authorizeCategory(actor *models.User, action Action) Decision {
	if action == ActionUpdate {
		return denyMethodNotAllowed()
	}
	if actor == nil {
		return denyUnauthenticated()
	}
	switch action {
	case ActionCreate, ActionList, ActionRetrieve:
		return allow
	case ActionDestroy:
		if actor.IsSuperuser {
			return allow
		}
		return denyForbidden()
	}
	return denyForbidden()
}

func authorizeOrder(actor *models.User, action Action, consumerID uint) Decision {
	if actor == nil {
		return denyUnauthenticated()
	}
	switch action {
	case ActionCreate, ActionList:
		return allow
	case ActionRetrieve, ActionUpdate, ActionDestroy:
		if actor.ID == consumerID || actor.IsAdmin() {
			return allow
		}
		return denyForbidden()
	}
	return denyForbidden()
}
