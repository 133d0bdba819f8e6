package domain

// Role is the closed set of authorization levels in the staff backend.
// The numeric value doubles as the wire code the backend uses, so keep the
// values stable.
type Role int

const (
	RoleEmployee Role = 1
	RoleLeader   Role = 2
	RoleDirector Role = 3
)

// Weight orders roles for authorization checks; a higher weight means
// broader authorization. Unknown roles weigh as RoleEmployee so a corrupted
// value never grants extra privilege.
func (r Role) Weight() int {
	switch r {
	case RoleEmployee, RoleLeader, RoleDirector:
		return int(r)
	default:
		return int(RoleEmployee)
	}
}

func (r Role) String() string {
	switch r {
	case RoleDirector:
		return "Director"
	case RoleLeader:
		return "Leader"
	default:
		return "Employee"
	}
}

// CanCreate reports whether a user holding the current role may create an
// account with the target role. The rule is a total order on role weight:
// you may create peers and below, never above.
func CanCreate(current, target Role) bool {
	return current.Weight() >= target.Weight()
}

// NormalizeRole is the single conversion point for role values arriving from
// the backend, which sends a string name on some endpoints and a numeric code
// on others. It fails closed: any unrecognized input maps to RoleEmployee and
// ok=false so the caller can log the defaulting.
func NormalizeRole(v any) (role Role, ok bool) {
	switch value := v.(type) {
	case Role:
		return normalizeCode(int(value))
	case int:
		return normalizeCode(value)
	case int64:
		return normalizeCode(int(value))
	case float64:
		// encoding/json decodes untyped numbers as float64.
		if value != float64(int(value)) {
			return RoleEmployee, false
		}
		return normalizeCode(int(value))
	case string:
		switch value {
		case "Director":
			return RoleDirector, true
		case "Leader":
			return RoleLeader, true
		case "Employee":
			return RoleEmployee, true
		default:
			return RoleEmployee, false
		}
	default:
		return RoleEmployee, false
	}
}

func normalizeCode(code int) (Role, bool) {
	switch Role(code) {
	case RoleEmployee, RoleLeader, RoleDirector:
		return Role(code), true
	default:
		return RoleEmployee, false
	}
}
