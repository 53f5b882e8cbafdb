package search

import (
	"strings"

	"github.com/siherrmann/featuregraph/model"
)

// FilterPermissionsByAction keeps the permissions granting action, given by name
// in any case. An empty action keeps every permission, an unknown one keeps none.
func FilterPermissionsByAction(permissions []*model.Permission, action string) []*model.Permission {
	filtered := []*model.Permission{}
	if action == "" {
		for _, p := range permissions {
			if p != nil {
				filtered = append(filtered, p)
			}
		}
		return filtered
	}

	index := model.ActionIndex(strings.ToUpper(action))
	if index < 0 {
		return filtered
	}

	for _, p := range permissions {
		if p == nil || p.Spec == nil {
			continue
		}
		for _, a := range p.Spec.Actions {
			if a == index {
				filtered = append(filtered, p)
				break
			}
		}
	}
	return filtered
}
