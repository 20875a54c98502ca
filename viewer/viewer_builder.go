package viewer

import (
	"time"

	"github.com/Carmen-Shannon/oxy-view/navigation"
	"github.com/Carmen-Shannon/oxy-view/viewer/renderer"
)

// ViewerOption is a functional option for configuring a viewerImpl.
// Use the With* functions to create options.
type ViewerOption func(v *viewerImpl)

// WithTitle sets the window title.
//
// Parameters:
//   - title: the window title text
//
// Returns:
//   - ViewerOption: option function to apply
func WithTitle(title string) ViewerOption {
	return func(v *viewerImpl) {
		v.title = title
	}
}

// WithSize sets the initial window dimensions.
//
// Parameters:
//   - width: initial width in pixels
//   - height: initial height in pixels
//
// Returns:
//   - ViewerOption: option function to apply
func WithSize(width, height int) ViewerOption {
	return func(v *viewerImpl) {
		if width > 0 {
			v.width = width
		}
		if height > 0 {
			v.height = height
		}
	}
}

// WithTickRate sets the navigation tick rate in ticks per second.
//
// Parameters:
//   - tps: target ticks per second (defaults to 60 if <= 0)
//
// Returns:
//   - ViewerOption: option function to apply
func WithTickRate(tps float64) ViewerOption {
	return func(v *viewerImpl) {
		if tps <= 0 {
			tps = 60
		}
		v.tickRate = time.Duration(float64(time.Second) / tps)
	}
}

// WithRendererOptions forwards options to the renderer.
//
// Parameters:
//   - options: renderer options to apply at construction
//
// Returns:
//   - ViewerOption: option function to apply
func WithRendererOptions(options ...renderer.RendererOption) ViewerOption {
	return func(v *viewerImpl) {
		v.rendererOptions = append(v.rendererOptions, options...)
	}
}

// WithNavigatorOptions forwards options to the navigator.
//
// Parameters:
//   - options: navigator options to apply at construction
//
// Returns:
//   - ViewerOption: option function to apply
func WithNavigatorOptions(options ...navigation.NavigatorOption) ViewerOption {
	return func(v *viewerImpl) {
		v.navigatorOpts = append(v.navigatorOpts, options...)
	}
}
