package flip

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidParameter is matched by every *ParamError.
	ErrInvalidParameter = errors.New("flip: invalid parameter")

	// ErrAnimationRejected is matched by every *AnimationError.
	ErrAnimationRejected = errors.New("flip: animation rejected")
)

// ParamError reports a spring or configuration parameter that is not
// strictly positive.
type ParamError struct {
	// Name is the parameter name (e.g. "stiffness").
	Name string
	// Value is the rejected value.
	Value float64
}

func (e *ParamError) Error() string {
	return fmt.Sprintf("flip: invalid parameter %s=%g: must be > 0", e.Name, e.Value)
}

// Is makes errors.Is(err, ErrInvalidParameter) succeed.
func (e *ParamError) Is(target error) bool {
	return target == ErrInvalidParameter
}

// AnimationError reports an animation callback that returned an error,
// panicked, or settled with an error. The scheduler treats the animation as
// settled and continues the cycle.
type AnimationError struct {
	// Kind is the animation that failed.
	Kind AnimationKind
	// Key is the item key, boxed.
	Key any
	// Err is the underlying error (nil for panics).
	Err error
	// Recovered is the panic value (nil for regular errors).
	Recovered any
}

func (e *AnimationError) Error() string {
	if e.Recovered != nil {
		return fmt.Sprintf("flip: %s animation for key %v panicked: %v", e.Kind, e.Key, e.Recovered)
	}
	return fmt.Sprintf("flip: %s animation for key %v rejected: %v", e.Kind, e.Key, e.Err)
}

func (e *AnimationError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrAnimationRejected) succeed.
func (e *AnimationError) Is(target error) bool {
	return target == ErrAnimationRejected
}
