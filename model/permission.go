package model

import "fmt"

// PermissionActionNames are the action names indexed by their enum value.
var PermissionActionNames = []string{
	"CREATE",
	"DESCRIBE",
	"UPDATE",
	"DELETE",
	"READ_ONLINE",
	"READ_OFFLINE",
	"WRITE_ONLINE",
	"WRITE_OFFLINE",
}

// Permission grants actions on registry object types.
type Permission struct {
	Spec *PermissionSpec `json:"spec,omitempty"`
	Meta *ObjectMeta     `json:"meta,omitempty"`
}

type PermissionSpec struct {
	Name    string            `json:"name"`
	Types   []int             `json:"types,omitempty"`
	Actions []int             `json:"actions,omitempty"`
	Tags    map[string]string `json:"tags,omitempty"`
}

// ActionName returns the name of an action index, or "Unknown (n)".
func ActionName(action int) string {
	if action >= 0 && action < len(PermissionActionNames) {
		return PermissionActionNames[action]
	}
	return fmt.Sprintf("Unknown (%d)", action)
}

// ActionIndex returns the enum value of an action name, or -1.
func ActionIndex(name string) int {
	for i, n := range PermissionActionNames {
		if n == name {
			return i
		}
	}
	return -1
}

// ActionNames resolves all actions of the permission.
func (p *Permission) ActionNames() []string {
	if p == nil || p.Spec == nil {
		return nil
	}
	names := make([]string, 0, len(p.Spec.Actions))
	for _, a := range p.Spec.Actions {
		names = append(names, ActionName(a))
	}
	return names
}
