package physics

import "fmt"

// MissingNodeError reports a link endpoint that does not match any
// installed node.
type MissingNodeError struct {
	ID any
}

func (e *MissingNodeError) Error() string {
	return fmt.Sprintf("missing: %v", e.ID)
}

// DuplicateIDError reports two nodes sharing an identifier when strict
// identifier checking is enabled.
type DuplicateIDError struct {
	ID     any
	First  int
	Second int
}

func (e *DuplicateIDError) Error() string {
	return fmt.Sprintf("duplicate node identifier %v at indices %d and %d", e.ID, e.First, e.Second)
}
