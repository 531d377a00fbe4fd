package network

import (
	"errors"
	"fmt"
)

// Sentinel errors for network construction and lookup.
var (
	// ErrProgrammerNotFound matches every *ProgrammerNotFoundError.
	ErrProgrammerNotFound = errors.New("programmer not found")

	ErrEmptyNetwork            = errors.New("network has no programmers")
	ErrEmptyName               = errors.New("programmer name is empty")
	ErrDuplicateProgrammer     = errors.New("duplicate programmer")
	ErrEmptySkill              = errors.New("skill name is empty")
	ErrDuplicateSkill          = errors.New("duplicate skill")
	ErrDuplicateRecommendation = errors.New("duplicate recommendation")
	ErrSelfRecommendation      = errors.New("programmer recommends themselves")
	ErrUnknownProgrammer       = errors.New("recommendation references unknown programmer")
)

// ProgrammerNotFoundError reports a query for a name that is not in the network.
type ProgrammerNotFoundError struct {
	Name string
}

func (e *ProgrammerNotFoundError) Error() string {
	return fmt.Sprintf("programmer %s was not found", e.Name)
}

// Is makes errors.Is(err, ErrProgrammerNotFound) succeed.
func (e *ProgrammerNotFoundError) Is(target error) bool {
	return target == ErrProgrammerNotFound
}

// NotFound builds the lookup failure for name.
func NotFound(name string) error {
	return &ProgrammerNotFoundError{Name: name}
}
