package auth

import (
	"context"

	"github.com/google/uuid"
	"github.com/meridian-realty/dashboard-api/internal/domain"
)

// UserContext holds authenticated user information
type UserContext struct {
	UserID      uuid.UUID
	DisplayName string
	Email       string
	Roles       []domain.UserRole
	// AgencyID is the agency the caller belongs to. Admins and API
	// services may have none.
	AgencyID *uuid.UUID
}

type contextKey string

const userContextKey contextKey = "userContext"
const agencyFilterKey contextKey = "agencyFilter"

// WithUserContext adds user context to the context
func WithUserContext(ctx context.Context, user *UserContext) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// FromContext extracts user context from the context
func FromContext(ctx context.Context) (*UserContext, bool) {
	user, ok := ctx.Value(userContextKey).(*UserContext)
	return user, ok
}

// HasRole checks if user has a specific role
func (u *UserContext) HasRole(role domain.UserRole) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// HasAnyRole checks if user has any of the specified roles
func (u *UserContext) HasAnyRole(roles ...domain.UserRole) bool {
	for _, role := range roles {
		if u.HasRole(role) {
			return true
		}
	}
	return false
}

// IsCrossAgency reports whether the user may read and write every agency's records
func (u *UserContext) IsCrossAgency() bool {
	return u.HasAnyRole(domain.RoleAdmin, domain.RoleAPIService)
}

// CanAccessAgency checks if user can access data for a specific agency
func (u *UserContext) CanAccessAgency(agencyID uuid.UUID) bool {
	if u.IsCrossAgency() {
		return true
	}
	return u.AgencyID != nil && *u.AgencyID == agencyID
}

// GetAgencyFilter returns the agency to scope queries to.
// Nil means no scoping. A user without agency or admin rights is scoped to
// uuid.Nil, which matches no records.
func (u *UserContext) GetAgencyFilter() *uuid.UUID {
	if u.IsCrossAgency() {
		return nil
	}
	if u.AgencyID != nil {
		id := *u.AgencyID
		return &id
	}
	none := uuid.Nil
	return &none
}

// RolesAsStrings returns roles as a slice of strings
func (u *UserContext) RolesAsStrings() []string {
	result := make([]string, len(u.Roles))
	for i, role := range u.Roles {
		result[i] = string(role)
	}
	return result
}

// AgencyFilter is the effective agency scope of a request, set by middleware
type AgencyFilter struct {
	// AgencyID is the agency to filter by (nil means every agency)
	AgencyID *uuid.UUID
}

// WithAgencyFilter adds agency filter to the context
func WithAgencyFilter(ctx context.Context, filter *AgencyFilter) context.Context {
	return context.WithValue(ctx, agencyFilterKey, filter)
}

// AgencyFilterFromContext extracts agency filter from the context
func AgencyFilterFromContext(ctx context.Context) (*AgencyFilter, bool) {
	filter, ok := ctx.Value(agencyFilterKey).(*AgencyFilter)
	return filter, ok
}

// GetEffectiveAgencyFilter returns the agency ID repositories must scope to.
// An explicit filter set by middleware wins over the user's default scope.
// Contexts without a user (background jobs) are not scoped.
func GetEffectiveAgencyFilter(ctx context.Context) *uuid.UUID {
	if filter, ok := AgencyFilterFromContext(ctx); ok && filter != nil {
		return filter.AgencyID
	}

	if userCtx, ok := FromContext(ctx); ok {
		return userCtx.GetAgencyFilter()
	}

	return nil
}
