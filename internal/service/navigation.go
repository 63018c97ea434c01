package service

import (
	domainauth "github.com/vbrevik/plan-targeting-assessment-sub003/internal/domain/auth"
	"github.com/vbrevik/plan-targeting-assessment-sub003/internal/domain/navigation"
)

// NavigationResolver maps a role's permissions to the sidebar tree. It holds no
// mutable state; Resolve is a pure function of its input.
type NavigationResolver struct {
	templates []navigation.Template
}

// NewNavigationResolver uses templates in the given priority order, or the built-in
// templates when none are supplied.
func NewNavigationResolver(templates ...navigation.Template) *NavigationResolver {
	if len(templates) == 0 {
		templates = navigation.DefaultTemplates()
	}
	own := make([]navigation.Template, len(templates))
	for i, t := range templates {
		own[i] = t.Clone()
	}
	return &NavigationResolver{templates: own}
}

// Resolve selects the first template whose marker the role holds and filters it down
// to the items the role may see. An unmatched role yields an empty tree.
func (r *NavigationResolver) Resolve(role navigation.Role) navigation.Tree {
	perms := domainauth.NewPermissionSet(role.Permissions...)
	for _, tmpl := range r.templates {
		// Marker selection is literal: "*" only selects the template marked "*".
		if !perms.Contains(tmpl.Marker) {
			continue
		}
		return filterGroups(tmpl.Groups, perms)
	}
	return navigation.Tree{}
}

// ResolveSession resolves navigation for the session's user; anonymous sessions get none.
func (r *NavigationResolver) ResolveSession(s domainauth.Session) navigation.Tree {
	if !s.IsAuthenticated || s.User == nil {
		return navigation.Tree{}
	}
	return r.Resolve(RoleOf(s.User))
}

// Match returns the name of the template role would select.
func (r *NavigationResolver) Match(role navigation.Role) (string, bool) {
	perms := domainauth.NewPermissionSet(role.Permissions...)
	for _, tmpl := range r.templates {
		if perms.Contains(tmpl.Marker) {
			return tmpl.Name, true
		}
	}
	return "", false
}

// Templates returns copies of the configured templates in priority order.
func (r *NavigationResolver) Templates() []navigation.Template {
	out := make([]navigation.Template, len(r.templates))
	for i, t := range r.templates {
		out[i] = t.Clone()
	}
	return out
}

// RoleOf derives the navigation role from an identity: the first role claim names it,
// and the flattened permission set drives gating.
func RoleOf(id *domainauth.Identity) navigation.Role {
	if id == nil {
		return navigation.Role{}
	}
	role := navigation.Role{Permissions: append([]string(nil), id.Permissions...)}
	if names := id.RoleNames(); len(names) > 0 {
		role.Name = names[0]
	}
	return role
}

func filterGroups(groups []navigation.Group, perms domainauth.PermissionSet) navigation.Tree {
	tree := navigation.Tree{}
	for _, g := range groups {
		var items []navigation.Item
		for _, it := range g.Items {
			if it.Permission != "" && !perms.Has(it.Permission) {
				continue
			}
			items = append(items, it)
		}
		if len(items) == 0 {
			continue
		}
		tree = append(tree, navigation.Group{Title: g.Title, Items: items})
	}
	return tree
}
