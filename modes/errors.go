package modes

import (
	"errors"
	"fmt"
	"strings"

	"github.com/JeanRibes/ohm-surface/control"
)

var (
	ErrDuplicateMode      = errors.New("duplicate mode")
	ErrUnknownMode        = errors.New("unknown mode")
	ErrUnknownComponent   = errors.New("unknown component")
	ErrDuplicateComponent = errors.New("duplicate component")
	ErrUnboundControl     = errors.New("unbound control")
)

// UnboundControlError lists the controls that no enabled layer claims.
type UnboundControlError struct {
	IDs []control.ID
}

func (e *UnboundControlError) Error() string {
	names := make([]string, len(e.IDs))
	for i, id := range e.IDs {
		names[i] = string(id)
	}
	return fmt.Sprintf("%d unbound control(s): %s", len(e.IDs), strings.Join(names, ", "))
}

func (e *UnboundControlError) Is(target error) bool {
	return target == ErrUnboundControl
}
