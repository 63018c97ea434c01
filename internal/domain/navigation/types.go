// Package navigation declares the sidebar model and the role-category templates it is
// resolved from.
package navigation

import "slices"

// Item is a single navigation entry. An empty Permission means the entry is ungated.
type Item struct {
	Label      string `json:"label"`
	Route      string `json:"route"`
	Icon       Icon   `json:"icon"`
	Permission string `json:"permission,omitempty"`
}

// Group is an ordered run of items under a heading.
type Group struct {
	Title string `json:"title"`
	Items []Item `json:"items"`
}

// Tree is the ordered list of groups the shell renders.
type Tree []Group

// Len returns the total number of items across all groups.
func (t Tree) Len() int {
	n := 0
	for _, g := range t {
		n += len(g.Items)
	}
	return n
}

// Routes returns item routes in render order.
func (t Tree) Routes() []string {
	out := make([]string, 0, t.Len())
	for _, g := range t {
		for _, it := range g.Items {
			out = append(out, it.Route)
		}
	}
	return out
}

// Template is the declared tree for one role category. A role selects the template
// when Marker is one of its permissions.
type Template struct {
	Name   string
	Marker string
	Groups []Group
}

// Clone returns a deep copy of the template.
func (t Template) Clone() Template {
	out := Template{Name: t.Name, Marker: t.Marker, Groups: make([]Group, len(t.Groups))}
	for i, g := range t.Groups {
		out.Groups[i] = Group{Title: g.Title, Items: slices.Clone(g.Items)}
	}
	return out
}

// Role is the input to resolution: a role name and its flattened permissions.
type Role struct {
	Name        string   `json:"name,omitempty"`
	Permissions []string `json:"permissions"`
}
