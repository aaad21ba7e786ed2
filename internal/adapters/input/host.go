package input

import (
	"fmt"

	"github.com/dkeye/ScreenShare/internal/core"
	"github.com/dkeye/ScreenShare/internal/domain"
	"github.com/kbinani/screenshot"
)

// ViewOnly is the input adapter for hosts without an injection backend.
// It still reports display geometry so viewers can scale coordinates.
type ViewOnly struct {
	Display int
}

var _ core.InputAdapter = ViewOnly{}

func (ViewOnly) InjectPointerMove(int, int) error { return domain.ErrInjectionUnavailable }

func (ViewOnly) InjectPointerButton(int, int, bool) error { return domain.ErrInjectionUnavailable }

func (ViewOnly) InjectKey(string, bool) error { return domain.ErrInjectionUnavailable }

func (v ViewOnly) DisplayGeometry() (core.Geometry, error) {
	if v.Display < 0 || v.Display >= screenshot.NumActiveDisplays() {
		return core.Geometry{}, fmt.Errorf("display %d: %w", v.Display, domain.ErrNoSourceAvailable)
	}
	b := screenshot.GetDisplayBounds(v.Display)
	return core.Geometry{Width: b.Dx(), Height: b.Dy(), ScaleFactor: 1}, nil
}
