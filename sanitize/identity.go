package sanitize

import "reflect"

// mapIdentity and sliceIdentity extract a stable pointer-sized identity for
// a map or slice header, used by Sanitize to detect cycles via the DFS-path
// set described in §4.2. Shared (DAG) subtrees reached on separate paths are
// not cycles — only re-entering an ancestor currently on the path is.
func mapIdentity(m map[string]any) uintptr {
	return reflect.ValueOf(m).Pointer()
}

func sliceIdentity(s []any) uintptr {
	if len(s) == 0 {
		// Empty slices carry no meaningful backing-array identity and
		// cannot participate in a cycle (they have no elements to recurse
		// into), so collisions between distinct empty slices are harmless.
		return 0
	}
	return reflect.ValueOf(s).Pointer()
}
