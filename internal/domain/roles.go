package domain

// UserRole is a role carried in an access token
type UserRole string

const (
	// RoleAdmin sees and writes every agency's records
	RoleAdmin UserRole = "admin"
	// RoleAgent works within a single agency
	RoleAgent UserRole = "agent"
	// RoleViewer can read dashboards of a single agency
	RoleViewer UserRole = "viewer"
	// RoleAPIService is assigned to API key callers
	RoleAPIService UserRole = "api_service"
)
