// Package identity resolves what an account may do. Privileges are computed
// on demand as a pure function of role and per-user overrides, never kept as
// ambient mutable state on a request.
package identity

// Resources and actions the engine authorizes against.
const (
	ResourceRegistration  = "registration"
	ResourcePayment       = "payment"
	ResourceAccommodation = "accommodation"
	ResourceTeam          = "team"
	ResourceContract      = "contract"

	ActionCancel   = "cancel"
	ActionCheckIn  = "check_in"
	ActionConfirm  = "confirm"
	ActionRecord   = "record"
	ActionComplete = "complete"
	ActionProcess  = "process"
	ActionManage   = "manage"

	wildcard = "*"
)

// Override is a per-user grant or revocation layered over the role.
type Override struct {
	Resource string `json:"resource"`
	Action   string `json:"action"`
	Allowed  bool   `json:"allowed"`
}

// PermissionSet maps resource -> action -> allowed.
type PermissionSet map[string]map[string]bool

// Allows reports whether the set grants the action on the resource,
// honoring wildcards on either axis.
func (ps PermissionSet) Allows(resource, action string) bool {
	for _, res := range []string{resource, wildcard} {
		actions, ok := ps[res]
		if !ok {
			continue
		}
		if actions[action] || actions[wildcard] {
			return true
		}
	}
	return false
}

func (ps PermissionSet) grant(resource, action string) {
	if ps[resource] == nil {
		ps[resource] = make(map[string]bool)
	}
	ps[resource][action] = true
}

func (ps PermissionSet) revoke(resource, action string) {
	if actions, ok := ps[resource]; ok {
		delete(actions, action)
	}
}

// rolePrivileges is the baseline grant per role.
var rolePrivileges = map[string]PermissionSet{
	"admin": {
		wildcard: {wildcard: true},
	},
	"organizer": {
		ResourceRegistration:  {ActionCancel: true, ActionCheckIn: true, ActionConfirm: true},
		ResourcePayment:       {ActionRecord: true, ActionComplete: true},
		ResourceAccommodation: {ActionProcess: true},
		ResourceContract:      {ActionManage: true},
	},
	"participant": {},
}

// ResolvePrivileges computes the effective permission set for a role with
// per-user overrides applied on top. The role baseline is copied, never
// mutated, so resolution is safe to call concurrently.
func ResolvePrivileges(role string, overrides []Override) PermissionSet {
	resolved := make(PermissionSet)
	for resource, actions := range rolePrivileges[role] {
		for action, allowed := range actions {
			if allowed {
				resolved.grant(resource, action)
			}
		}
	}

	for _, o := range overrides {
		if o.Allowed {
			resolved.grant(o.Resource, o.Action)
		} else {
			resolved.revoke(o.Resource, o.Action)
		}
	}

	return resolved
}
