package events

import "fmt"

// IdentityError indicates that a record expected to be a valid entity is
// missing one of the minimum identity fields (id, name). Missing optional
// fields never produce this error; they degrade to zero values instead.
type IdentityError struct {
	Entity string
	Field  string
}

func (e IdentityError) Error() string {
	return fmt.Sprintf("%s record missing required field %q", e.Entity, e.Field)
}

func identityCheck(entity string, id int64, name string) error {
	if id == 0 {
		return IdentityError{Entity: entity, Field: "id"}
	}
	if name == "" {
		return IdentityError{Entity: entity, Field: "name"}
	}
	return nil
}
