package rbac

import (
	"strings"

	"cwsdash/infrastructure/cache"
)

const (
	RoleAdmin          = "admin"
	RoleOperator       = "operator"
	RoleFinance        = "finance"
	RoleSustainability = "sustainability"
)

var AllRoles = []string{RoleAdmin, RoleOperator, RoleFinance, RoleSustainability}

// NormalizeRole lower-cases a backend role; unknown roles map to "" and
// therefore match no route.
func NormalizeRole(role string) string {
	role = strings.ToLower(strings.TrimSpace(role))
	for _, r := range AllRoles {
		if r == role {
			return r
		}
	}
	return ""
}

type Rbac struct {
	cache *cache.RbacRolesCache
}

func New(c *cache.RbacRolesCache) *Rbac {
	return &Rbac{cache: c}
}

func (r *Rbac) Add(role, code, method, path string) {
	if r == nil || r.cache == nil {
		return
	}
	r.cache.Add(role, cache.Resource{
		Role:             role,
		UserResourceCode: code,
		Method:           strings.ToUpper(method),
		Path:             path,
	})
}

// Grant registers the same route for several roles.
func (r *Rbac) Grant(code, method, path string, roles ...string) {
	for _, role := range roles {
		r.Add(role, code, method, path)
	}
}

// Allowed reports whether any of roles may call method on urlPath.
func (r *Rbac) Allowed(roles []string, urlPath, method string) bool {
	if r == nil || r.cache == nil {
		return false
	}
	return ValidateResourceAccess(r.cache.GetRolesAndResources(roles), urlPath, method)
}

// Screens lists the resource codes granted to roles, for navigation.
func (r *Rbac) Screens(roles []string) map[string]int {
	out := make(map[string]int)
	if r == nil || r.cache == nil {
		return out
	}
	for _, res := range r.cache.GetRolesAndResources(roles) {
		out[res.UserResourceCode] = 1
	}
	return out
}

func ValidateResourceAccess(resources []cache.Resource, urlPath, method string) bool {
	method = strings.ToUpper(method)
	for _, res := range resources {
		if res.Method != method {
			continue
		}
		if matchPath(res.Path, urlPath) {
			return true
		}
	}
	return false
}

// matchPath supports "*" for one segment and a trailing "*" for any suffix.
func matchPath(pattern, path string) bool {
	if pattern == path {
		return true
	}
	patternSeg := strings.Split(strings.Trim(pattern, "/"), "/")
	pathSeg := strings.Split(strings.Trim(path, "/"), "/")

	if len(patternSeg) == len(pathSeg) {
		for i := range patternSeg {
			if patternSeg[i] != "*" && patternSeg[i] != pathSeg[i] {
				return false
			}
		}
		return true
	}

	last := len(patternSeg) - 1
	if last >= 0 && patternSeg[last] == "*" && len(pathSeg) > last {
		for i := 0; i < last; i++ {
			if patternSeg[i] != pathSeg[i] {
				return false
			}
		}
		return true
	}
	return false
}
