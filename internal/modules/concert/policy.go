package concert

import "concerthall/internal/domain"

// Policy holds the stateless authorization decisions for concerts.
type Policy struct {
	// AdminBypass lets admins mutate, cancel and delete any concert.
	AdminBypass bool
}

func (p Policy) CanCreateConcert(u *domain.User) bool {
	return u != nil && u.Role == domain.RoleOrganization
}

func (p Policy) CanMutateConcert(u *domain.User, c *domain.Concert) bool {
	if u == nil || c == nil {
		return false
	}
	if p.AdminBypass && u.Role == domain.RoleAdmin {
		return true
	}
	return u.Role == domain.RoleOrganization && c.OrganizationID == u.ID
}

// CanCancelConcert only checks ownership; status rules live in the service.
func (p Policy) CanCancelConcert(u *domain.User, c *domain.Concert) bool {
	return p.CanMutateConcert(u, c)
}
