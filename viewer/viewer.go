// Package viewer wires the window, renderer, camera, navigator, and input
// controller into a running mesh viewing session. Navigation ticks and
// rendering run on separate goroutines while the window message loop owns
// the main thread.
package viewer

import (
	"errors"
	"log"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-view/asset"
	"github.com/Carmen-Shannon/oxy-view/camera"
	"github.com/Carmen-Shannon/oxy-view/navigation"
	"github.com/Carmen-Shannon/oxy-view/viewer/input"
	"github.com/Carmen-Shannon/oxy-view/viewer/profiler"
	"github.com/Carmen-Shannon/oxy-view/viewer/renderer"
	"github.com/Carmen-Shannon/oxy-view/viewer/window"
)

// Viewer is an interactive mesh viewing session.
type Viewer interface {
	// Window returns the underlying window.
	//
	// Returns:
	//   - window.Window: the window instance
	Window() window.Window

	// Navigator returns the orbit navigator driving the camera.
	//
	// Returns:
	//   - navigation.Navigator: the navigator instance
	Navigator() navigation.Navigator

	// Camera returns the viewing camera.
	//
	// Returns:
	//   - camera.Camera: the camera instance
	Camera() camera.Camera

	// SetMesh uploads the mesh to the GPU and frames the navigator on its
	// bounding box. Replaces any previously loaded mesh.
	//
	// Parameters:
	//   - mesh: the mesh to display
	//
	// Returns:
	//   - error: error if the GPU upload fails
	SetMesh(mesh *asset.Mesh) error

	// LoadMesh reads a glTF or GLB file and displays it via SetMesh.
	//
	// Parameters:
	//   - path: path to the mesh file
	//
	// Returns:
	//   - error: error if loading or uploading fails
	LoadMesh(path string) error

	// EnableProfiler enables throughput and memory reporting to the log.
	EnableProfiler()

	// Run starts the navigation and render loops and blocks on the window
	// message loop until the window closes.
	Run()

	// Quit signals all viewer goroutines to stop.
	// Safe to call multiple times; subsequent calls are no-ops.
	Quit()
}

// viewerImpl is the implementation of the Viewer interface.
type viewerImpl struct {
	wg          sync.WaitGroup
	quitChannel chan struct{}
	quitOnce    sync.Once

	window     window.Window
	renderer   renderer.Renderer
	navigator  navigation.Navigator
	camera     camera.Camera
	controller input.Controller

	profiler         *profiler.Profiler
	profilingEnabled bool

	tickRate time.Duration

	// meshMu guards meshBounds, which the reset key reads from the window
	// thread while SetMesh may write from the caller's goroutine.
	meshMu     sync.Mutex
	meshBounds *asset.Bounds

	// construction-time configuration consumed by NewViewer
	title           string
	width, height   int
	rendererOptions []renderer.RendererOption
	navigatorOpts   []navigation.NavigatorOption
}

var _ Viewer = &viewerImpl{}

// NewViewer creates a Viewer with its window, GPU renderer, navigator,
// camera, and input bindings ready. Must be called from the main goroutine;
// the window layer locks the calling thread for GLFW.
//
// Parameters:
//   - options: functional options to configure the viewer
//
// Returns:
//   - Viewer: the configured viewer
//   - error: error if GPU initialization fails
func NewViewer(options ...ViewerOption) (Viewer, error) {
	v := &viewerImpl{
		quitChannel: make(chan struct{}),
		tickRate:    time.Second / 60,
		title:       "oxy-view",
		width:       1280,
		height:      720,
	}
	for _, opt := range options {
		opt(v)
	}

	v.navigator = navigation.NewNavigator(v.navigatorOpts...)
	v.camera = camera.NewCamera(camera.WithNavigator(v.navigator))

	v.window = window.NewWindow(
		window.WithTitle(v.title),
		window.WithSize(v.width, v.height),
	)

	r, err := renderer.NewRenderer(v.window.SurfaceDescriptor(), v.rendererOptions...)
	if err != nil {
		_ = v.window.Close()
		return nil, err
	}
	v.renderer = r

	width, height := v.window.Width(), v.window.Height()
	v.renderer.Configure(width, height)
	if height > 0 {
		v.camera.SetAspect(float32(width) / float32(height))
	}

	v.window.SetResizeCallback(func(width, height int) {
		v.renderer.Configure(width, height)
		if height > 0 {
			v.camera.SetAspect(float32(width) / float32(height))
		}
	})

	v.controller = input.NewController(v.navigator, input.WithResetCallback(v.resetView))
	v.controller.Bind(v.window)

	v.profiler = profiler.NewProfiler(time.Second)

	return v, nil
}

func (v *viewerImpl) Window() window.Window {
	return v.window
}

func (v *viewerImpl) Navigator() navigation.Navigator {
	return v.navigator
}

func (v *viewerImpl) Camera() camera.Camera {
	return v.camera
}

func (v *viewerImpl) SetMesh(mesh *asset.Mesh) error {
	if mesh == nil || len(mesh.Positions) == 0 {
		return errors.New("mesh has no geometry")
	}

	if err := v.renderer.UploadMesh(mesh); err != nil {
		return err
	}

	bounds := mesh.Bounds()
	v.meshMu.Lock()
	v.meshBounds = &bounds
	v.meshMu.Unlock()

	v.navigator.Initialize(bounds.Center(), bounds.Extents())
	v.camera.Update()
	v.renderer.UpdateCamera(v.camera.ViewProjectionMatrix())

	return nil
}

func (v *viewerImpl) LoadMesh(path string) error {
	mesh, err := asset.LoadMesh(path)
	if err != nil {
		return err
	}
	return v.SetMesh(mesh)
}

func (v *viewerImpl) EnableProfiler() {
	v.profilingEnabled = true
}

// resetView reframes the navigator on the loaded mesh bounds.
// Bound to the reset key by the input controller.
func (v *viewerImpl) resetView() {
	v.meshMu.Lock()
	bounds := v.meshBounds
	v.meshMu.Unlock()

	if bounds == nil {
		return
	}
	v.navigator.Initialize(bounds.Center(), bounds.Extents())
}

func (v *viewerImpl) Run() {
	v.wg.Add(3)
	go v.handleNavigation()
	go v.handleRender()
	go v.handleQuit()

	v.window.ProcessMessages()

	v.signalQuit()
	v.wg.Wait()

	v.renderer.Release()
	if err := v.window.Close(); err != nil {
		log.Printf("window close: %v", err)
	}
}

func (v *viewerImpl) Quit() {
	v.signalQuit()
}

// signalQuit closes the quit channel to signal all goroutines to exit.
// Uses sync.Once to ensure the channel is only closed once.
func (v *viewerImpl) signalQuit() {
	v.quitOnce.Do(func() {
		close(v.quitChannel)
	})
}

// handleNavigation runs the fixed-rate navigation tick loop in its own
// goroutine. Each tick advances the glide integrator, refreshes the camera
// matrices, and pushes the view-projection matrix to the GPU. The first tick
// uses the nominal frame interval since no previous tick time exists.
func (v *viewerImpl) handleNavigation() {
	defer v.wg.Done()

	ticker := time.NewTicker(v.tickRate)
	defer ticker.Stop()

	lastTick := time.Time{}

	for {
		select {
		case <-v.quitChannel:
			return
		case <-ticker.C:
			now := time.Now()
			dt := navigation.NominalDeltaTime
			if !lastTick.IsZero() {
				dt = float32(now.Sub(lastTick).Seconds())
			}
			lastTick = now

			v.navigator.Tick(dt)
			v.camera.Update()
			v.renderer.UpdateCamera(v.camera.ViewProjectionMatrix())

			if v.profilingEnabled {
				v.profiler.CountTick()
			}
		}
	}
}

// handleRender runs the render loop in its own goroutine. Recovers from
// panics to avoid crashing the process and signals quit on recovery.
func (v *viewerImpl) handleRender() {
	defer v.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			log.Printf("render goroutine recovered from panic: %v", r)
			v.signalQuit()
		}
	}()

	for {
		select {
		case <-v.quitChannel:
			return
		default:
			if err := v.renderer.RenderFrame(); err != nil {
				if errors.Is(err, renderer.ErrNoMesh) {
					time.Sleep(v.tickRate)
					continue
				}
				log.Printf("render frame: %v", err)
				time.Sleep(v.tickRate)
				continue
			}

			if v.profilingEnabled {
				v.profiler.CountFrame()
			}
		}
	}
}

// handleQuit blocks until the quit channel is closed, then decrements the WaitGroup.
func (v *viewerImpl) handleQuit() {
	defer v.wg.Done()
	<-v.quitChannel
}
