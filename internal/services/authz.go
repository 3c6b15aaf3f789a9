package services

import "visit-route-service/internal/domain"

// Authorization predicates for routes. Every predicate checks the
// administrator role first and explicitly; nothing is inherited.

// CanViewRoute reports whether the user may see the route: administrators,
// the creator, and the assignee. Everyone else is denied.
func CanViewRoute(user domain.User, route domain.Route) bool {
	if user.Role == domain.RoleAdmin {
		return true
	}
	return user.ID == route.CreatedByUserID || user.ID == route.AssignedUserID
}

// CanEditRoute reports whether the user may mutate the route's stop list or
// metadata. A confirmed route is frozen for everyone but administrators;
// while draft, the creator and assignee may edit.
func CanEditRoute(user domain.User, route domain.Route) bool {
	if user.Role == domain.RoleAdmin {
		return true
	}
	if route.Status == domain.RouteConfirmed {
		return false
	}
	return user.ID == route.CreatedByUserID || user.ID == route.AssignedUserID
}

// CanCreateRoutes reports whether the user may create routes: administrators
// and the two field representative roles.
func CanCreateRoutes(user domain.User) bool {
	switch user.Role {
	case domain.RoleAdmin, domain.RoleRepresentative, domain.RoleSubRepresentative:
		return true
	default:
		return false
	}
}

// CanAssignRoute reports whether actor may assign a route to assignee.
// Assignees must hold a representative role, and a sub-representative may
// only assign routes to themselves.
func CanAssignRoute(actor domain.User, assignee domain.User) bool {
	if !assignee.Role.IsRepresentative() {
		return false
	}
	if actor.Role == domain.RoleAdmin {
		return true
	}
	if actor.Role == domain.RoleSubRepresentative {
		return actor.ID == assignee.ID
	}
	return actor.Role == domain.RoleRepresentative
}
