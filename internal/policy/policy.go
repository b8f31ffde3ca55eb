// Package policy decides which callers may perform which operations. Every rule
// is a list of acceptable roles; a caller passes when its role set intersects it.
package policy

import (
	"net/http"

	"github.com/kelvinjchung/LittleLemon-api/internal/models"
)

// Pseudo-roles derived from the user record rather than stored as memberships.
const (
	Authenticated models.Role = "Authenticated"
	Customer      models.Role = "Customer"
	Admin         models.Role = "Admin"

	Manager      = models.RoleManager
	DeliveryCrew = models.RoleDeliveryCrew
)

type RoleSet map[models.Role]struct{}

func (s RoleSet) Has(role models.Role) bool {
	_, ok := s[role]
	return ok
}

func (s RoleSet) intersects(required []models.Role) bool {
	for _, r := range required {
		if s.Has(r) {
			return true
		}
	}
	return false
}

// RolesOf returns the effective roles of u. A nil user is anonymous and holds none.
func RolesOf(u *models.User) RoleSet {
	set := RoleSet{}
	if u == nil {
		return set
	}
	set[Authenticated] = struct{}{}
	for _, r := range u.Roles {
		set[r.Role] = struct{}{}
	}
	if !set.Has(Manager) && !set.Has(DeliveryCrew) {
		set[Customer] = struct{}{}
	}
	if u.IsAdmin {
		set[Admin] = struct{}{}
	}
	return set
}

type Resource string

const (
	MenuItems  Resource = "menu-items"
	MenuItem   Resource = "menu-item"
	Categories Resource = "categories"
	GroupUsers Resource = "group-users"
	GroupUser  Resource = "group-user"
	Cart       Resource = "cart"
	Orders     Resource = "orders"
	Order      Resource = "order"
)

type rule struct {
	methods map[string][]models.Role
	other   []models.Role
}

func (r rule) required(method string) []models.Role {
	if roles, ok := r.methods[method]; ok {
		return roles
	}
	return r.other
}

var (
	anyone       = []models.Role{Authenticated}
	menuWriters  = []models.Role{Manager, Admin}
	managersOnly = []models.Role{Manager}
	customerOnly = []models.Role{Customer}
	adminOnly    = []models.Role{Admin}
)

var rules = map[Resource]rule{
	MenuItems:  {methods: map[string][]models.Role{http.MethodGet: anyone}, other: menuWriters},
	MenuItem:   {methods: map[string][]models.Role{http.MethodGet: anyone}, other: menuWriters},
	Categories: {methods: map[string][]models.Role{http.MethodGet: anyone}, other: menuWriters},
	GroupUsers: {other: managersOnly},
	GroupUser:  {other: managersOnly},
	Cart:       {other: customerOnly},
	Orders: {
		methods: map[string][]models.Role{
			http.MethodGet:  anyone,
			http.MethodPost: customerOnly,
		},
		other: adminOnly,
	},
	Order: {
		methods: map[string][]models.Role{
			http.MethodGet:    customerOnly,
			http.MethodPatch:  {Manager, DeliveryCrew},
			http.MethodDelete: managersOnly,
		},
		other: adminOnly,
	},
}

// Allow reports whether roles may use method on resource. Unknown resources are denied.
func Allow(roles RoleSet, resource Resource, method string) bool {
	r, ok := rules[resource]
	if !ok {
		return false
	}
	return roles.intersects(r.required(method))
}
