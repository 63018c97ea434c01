package authapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	jmespath "github.com/jmespath-community/go-jmespath"
	domainauth "github.com/vbrevik/plan-targeting-assessment-sub003/internal/domain/auth"
)

// Default JMESPath expressions for reading identity payloads. Servers either return the
// identity at the top level or wrapped in "user", and either a flat permission list or
// per-role permission lists.
const (
	DefaultIdentityRootExpr        = "user || @"
	DefaultIdentityPermissionsExpr = "permissions || roles[].permissions[]"
)

// messageFields are tried in order; the first non-empty string wins.
var messageFields = []string{"error", "message", "detail"}

// IdentityMapping locates identity fields inside a server payload.
type IdentityMapping struct {
	RootExpr        string
	PermissionsExpr string
}

func (m IdentityMapping) withDefaults() IdentityMapping {
	if strings.TrimSpace(m.RootExpr) == "" {
		m.RootExpr = DefaultIdentityRootExpr
	}
	if strings.TrimSpace(m.PermissionsExpr) == "" {
		m.PermissionsExpr = DefaultIdentityPermissionsExpr
	}
	return m
}

// Validate compiles both expressions.
func (m IdentityMapping) Validate() error {
	m = m.withDefaults()
	if _, err := jmespath.Compile(m.RootExpr); err != nil {
		return fmt.Errorf("identity root expression: %w", err)
	}
	if _, err := jmespath.Compile(m.PermissionsExpr); err != nil {
		return fmt.Errorf("identity permissions expression: %w", err)
	}
	return nil
}

var errNoIdentity = errors.New("payload carries no identity")

// decodeIdentity maps a JSON payload to an Identity without inventing any field.
func (m IdentityMapping) decodeIdentity(body []byte) (*domainauth.Identity, error) {
	doc, err := decodeJSON(body)
	if err != nil {
		return nil, err
	}

	root, err := jmespath.Search(m.RootExpr, doc)
	if err != nil {
		return nil, fmt.Errorf("search identity root: %w", err)
	}
	obj, ok := root.(map[string]any)
	if !ok || len(obj) == 0 {
		return nil, errNoIdentity
	}

	id := &domainauth.Identity{
		ID:       scalarString(obj["id"]),
		Username: scalarString(obj["username"]),
		Email:    scalarString(obj["email"]),
		Roles:    roleClaims(obj["roles"]),
	}
	if id.ID == "" && id.Username == "" {
		return nil, errNoIdentity
	}

	perms, err := jmespath.Search(m.PermissionsExpr, obj)
	if err != nil {
		return nil, fmt.Errorf("search identity permissions: %w", err)
	}
	id.Permissions = uniqueStrings(perms)
	return id, nil
}

func decodeJSON(body []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}
	return doc, nil
}

// roleClaims accepts either ["analyst", ...] or [{"name": "analyst", "permissions": [...]}, ...].
func roleClaims(v any) []domainauth.RoleClaim {
	list, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]domainauth.RoleClaim, 0, len(list))
	for _, raw := range list {
		switch r := raw.(type) {
		case string:
			out = append(out, domainauth.RoleClaim{Name: r})
		case map[string]any:
			out = append(out, domainauth.RoleClaim{
				Name:        scalarString(r["name"]),
				Permissions: uniqueStrings(r["permissions"]),
			})
		}
	}
	return out
}

func scalarString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case json.Number:
		return s.String()
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(s)
	default:
		return ""
	}
}

func uniqueStrings(v any) []string {
	list, ok := v.([]any)
	if !ok {
		return nil
	}
	seen := make(map[string]struct{}, len(list))
	out := make([]string, 0, len(list))
	for _, raw := range list {
		s, ok := raw.(string)
		if !ok || s == "" {
			continue
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

// serverMessage extracts the message a server returned with a non-2xx status.
// JSON objects yield their first string-valued error/message/detail field; other
// bodies are used verbatim.
func serverMessage(body []byte) string {
	text := strings.TrimSpace(string(body))
	if text == "" {
		return ""
	}
	doc, err := decodeJSON(body)
	if err != nil {
		return text
	}
	switch v := doc.(type) {
	case string:
		return v
	case map[string]any:
		for _, key := range messageFields {
			if s, ok := v[key].(string); ok && strings.TrimSpace(s) != "" {
				return s
			}
		}
	}
	return text
}
