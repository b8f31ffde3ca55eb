package models

// Role is a group membership a user may hold. A user in neither group is a customer.
type Role string

const (
	RoleManager      Role = "Manager"
	RoleDeliveryCrew Role = "Delivery Crew"
)

var groupRoles = map[string]Role{
	"manager":       RoleManager,
	"delivery-crew": RoleDeliveryCrew,
}

// RoleForGroup resolves the group name used in URLs ("manager", "delivery-crew").
func RoleForGroup(group string) (Role, bool) {
	role, ok := groupRoles[group]
	return role, ok
}

type User struct {
	ID       uint       `gorm:"primaryKey" json:"id"`
	Username string     `gorm:"uniqueIndex;not null" json:"username"`
	Email    string     `json:"email"`
	Phone    string     `json:"-"`
	OIDCID   *string    `gorm:"column:oidc_subject;uniqueIndex" json:"-"` // OpenID Connect identifier
	IsAdmin  bool       `gorm:"not null;default:false" json:"-"`
	Roles    []UserRole `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

type UserRole struct {
	UserID uint `gorm:"primaryKey"`
	Role   Role `gorm:"primaryKey;size:32"`
}

func (u *User) HasRole(role Role) bool {
	if u == nil {
		return false
	}
	for _, r := range u.Roles {
		if r.Role == role {
			return true
		}
	}
	return false
}
