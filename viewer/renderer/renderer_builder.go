package renderer

import "github.com/cogentcore/webgpu/wgpu"

// RendererOption is a functional option for configuring a rendererImpl.
// Use the With* functions to create options.
type RendererOption func(r *rendererImpl)

// WithPresentMode sets how frames are delivered to the display.
//
// Parameters:
//   - mode: PresentModeVSync or PresentModeUncapped
//
// Returns:
//   - RendererOption: option function to apply
func WithPresentMode(mode PresentMode) RendererOption {
	return func(r *rendererImpl) {
		switch mode {
		case PresentModeUncapped:
			r.presentMode = wgpu.PresentModeImmediate
		case PresentModeVSync:
			fallthrough
		default:
			r.presentMode = wgpu.PresentModeFifo
		}
	}
}

// WithSampleCount sets the MSAA sample count for the main render pass.
//
// Parameters:
//   - count: MSAAOff or MSAA4x
//
// Returns:
//   - RendererOption: option function to apply
func WithSampleCount(count MSAASampleCount) RendererOption {
	return func(r *rendererImpl) {
		if count >= 1 {
			r.sampleCount = count
		}
	}
}

// WithClearColor sets the render pass clear color.
//
// Parameters:
//   - red, green, blue: color channels in [0, 1]
//
// Returns:
//   - RendererOption: option function to apply
func WithClearColor(red, green, blue float64) RendererOption {
	return func(r *rendererImpl) {
		r.clearColor = wgpu.Color{R: red, G: green, B: blue, A: 1.0}
	}
}

// WithForceFallbackAdapter forces selection of a software fallback adapter.
// Useful on systems without a compatible GPU.
//
// Returns:
//   - RendererOption: option function to apply
func WithForceFallbackAdapter() RendererOption {
	return func(r *rendererImpl) {
		r.forceFallbackAdapter = true
	}
}
