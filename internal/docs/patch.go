package docs

import (
	"slices"
	"strings"

	"github.com/Saad-Labelenergie/CRM.2.0-sub000/internal/lib/validate"
)

var immutable = map[string]bool{"id": true, "createdAt": true, "updatedAt": true}

// applyPatch writes patch into fields. Dotted keys create intermediate
// objects as needed.
func applyPatch(fields map[string]any, patch map[string]any) error {
	v := make(validate.Violations)

	for key, value := range patch {
		path := strings.Split(key, ".")
		if immutable[path[0]] {
			v[key] = "immutable"
			continue
		}
		if slices.Contains(path, "") {
			v[key] = "invalid_path"
			continue
		}

		parent := fields
		ok := true
		for _, part := range path[:len(path)-1] {
			next, exists := parent[part]
			if !exists || next == nil {
				child := map[string]any{}
				parent[part] = child
				parent = child
				continue
			}
			child, isMap := next.(map[string]any)
			if !isMap {
				v[key] = "invalid_path"
				ok = false
				break
			}
			parent = child
		}
		if !ok {
			continue
		}

		leaf := path[len(path)-1]
		if value == nil {
			delete(parent, leaf)
			continue
		}
		parent[leaf] = value
	}

	return v.Err()
}
