package auth

import (
	"github.com/edge-fabric/api-gateway/internal/domain"
	apperrors "github.com/edge-fabric/api-gateway/pkg/util"
)

// Denial reasons surfaced to callers. Each rule yields a distinct message so
// clients can tell a plain role denial from an ownership or escalation denial.
const (
	ReasonAssignAdminRole = "only administrators may assign the admin role"
	ReasonModifyAdmin     = "cannot modify an administrator account"
	ReasonDeleteAdmin     = "cannot delete an administrator account"
	ReasonDeleteOther     = "only administrators may delete other users"
)

// GuardRoleAssignment denies a non-admin caller setting role=admin on a user
// payload. The empty role and the plain user role pass through untouched.
func GuardRoleAssignment(identity domain.Identity, requestedRole string) error {
	if domain.Role(requestedRole) == domain.RoleAdmin && !identity.IsAdmin() {
		return apperrors.NewForbidden(ReasonAssignAdminRole)
	}
	return nil
}

// GuardUpdateTarget applies the admin-target rule for user updates: a
// non-admin may not modify an admin-owned record unless it is their own.
// Admin callers pass unconditionally, including admin-on-admin mutation.
func GuardUpdateTarget(identity domain.Identity, targetID string, targetRole domain.Role) error {
	if identity.IsAdmin() || identity.Owns(targetID) {
		return nil
	}
	if targetRole == domain.RoleAdmin {
		return apperrors.NewForbidden(ReasonModifyAdmin)
	}
	return nil
}

// GuardDeleteSelf enforces that a non-admin may only delete their own record.
func GuardDeleteSelf(identity domain.Identity, targetID string) error {
	if identity.IsAdmin() || identity.Owns(targetID) {
		return nil
	}
	return apperrors.NewForbidden(ReasonDeleteOther)
}

// GuardDeleteTarget applies the admin-target rule for user deletion.
func GuardDeleteTarget(identity domain.Identity, targetID string, targetRole domain.Role) error {
	if identity.IsAdmin() || identity.Owns(targetID) {
		return nil
	}
	if targetRole == domain.RoleAdmin {
		return apperrors.NewForbidden(ReasonDeleteAdmin)
	}
	return nil
}
