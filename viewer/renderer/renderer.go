// Package renderer draws the loaded mesh with WebGPU. It owns the GPU
// instance, surface, device, and queue, a single vertex-color render
// pipeline, and the camera uniform buffer. One mesh, one pipeline, one
// render pass per frame.
package renderer

import (
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/Carmen-Shannon/oxy-view/asset"
	"github.com/Carmen-Shannon/oxy-view/common"
	"github.com/cogentcore/webgpu/wgpu"
)

// PresentMode controls how rendered frames are presented to the display surface.
type PresentMode int

const (
	// PresentModeVSync waits for the next vertical blank before presenting,
	// capping frame rate to the monitor's refresh rate. Eliminates tearing.
	PresentModeVSync PresentMode = iota

	// PresentModeUncapped presents frames immediately without waiting for
	// vertical blank. May cause screen tearing but provides the lowest latency.
	PresentModeUncapped
)

// MSAASampleCount controls the number of samples used for multisample
// anti-aliasing. WebGPU guarantees support for 1 (off) and 4; higher values
// are adapter-dependent.
type MSAASampleCount uint32

const (
	// MSAAOff disables multisample anti-aliasing (sample count 1).
	MSAAOff MSAASampleCount = 1

	// MSAA4x enables 4x multisample anti-aliasing. This is the default.
	MSAA4x MSAASampleCount = 4
)

// vertexStride is the byte size of one interleaved vertex:
// position vec3<f32> followed by color vec4<f32>.
const vertexStride = 7 * 4

// cameraUniformSize is the byte size of the camera uniform buffer
// (one mat4x4<f32>).
const cameraUniformSize = 16 * 4

// ErrNoMesh is returned by RenderFrame before a mesh has been uploaded.
var ErrNoMesh = errors.New("no mesh uploaded")

// Renderer is the GPU-facing surface of the viewer.
type Renderer interface {
	// Configure sizes the surface and rebuilds the size-dependent GPU state
	// (depth texture, MSAA texture, render pass descriptor). Must be called
	// once before the first frame and again whenever the framebuffer resizes.
	//
	// Parameters:
	//   - width: framebuffer width in pixels
	//   - height: framebuffer height in pixels
	Configure(width, height int)

	// UploadMesh interleaves the mesh into GPU vertex and index buffers.
	// Replaces any previously uploaded mesh.
	//
	// Parameters:
	//   - mesh: the mesh to upload
	//
	// Returns:
	//   - error: error if buffer creation fails
	UploadMesh(mesh *asset.Mesh) error

	// UpdateCamera writes the view-projection matrix into the camera uniform
	// buffer.
	//
	// Parameters:
	//   - viewProjection: column-major view-projection matrix
	UpdateCamera(viewProjection [16]float32)

	// RenderFrame acquires the next swapchain texture, encodes one render
	// pass drawing the uploaded mesh, submits it, and presents.
	//
	// Returns:
	//   - error: ErrNoMesh before UploadMesh, or a surface acquisition error
	RenderFrame() error

	// Release frees the GPU resources held by the renderer.
	Release()
}

// rendererImpl is the implementation of the Renderer interface.
type rendererImpl struct {
	mu *sync.Mutex

	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	surface  *wgpu.Surface
	device   *wgpu.Device
	queue    *wgpu.Queue

	surfaceFormat        *wgpu.TextureFormat
	msaaTextureView      *wgpu.TextureView
	depthTextureView     *wgpu.TextureView
	renderPassDescriptor *wgpu.RenderPassDescriptor

	presentMode wgpu.PresentMode
	sampleCount MSAASampleCount
	clearColor  wgpu.Color

	forceFallbackAdapter bool

	pipeline        *wgpu.RenderPipeline
	cameraLayout    *wgpu.BindGroupLayout
	cameraBuffer    *wgpu.Buffer
	cameraBindGroup *wgpu.BindGroup

	vertexBuffer *wgpu.Buffer
	indexBuffer  *wgpu.Buffer
	indexCount   uint32
}

var _ Renderer = &rendererImpl{}

// NewRenderer creates a Renderer targeting the surface described by the
// descriptor. Requests an adapter compatible with the surface and a device
// with the WebGPU default limits.
//
// Parameters:
//   - surfaceDescriptor: platform surface descriptor from the window layer
//   - options: functional options to configure the renderer
//
// Returns:
//   - Renderer: the renderer (call Configure before the first frame)
//   - error: error if adapter or device acquisition fails
func NewRenderer(surfaceDescriptor *wgpu.SurfaceDescriptor, options ...RendererOption) (Renderer, error) {
	runtime.LockOSThread()

	r := &rendererImpl{
		mu:          &sync.Mutex{},
		instance:    wgpu.CreateInstance(nil),
		presentMode: wgpu.PresentModeFifo,
		sampleCount: MSAA4x,
		clearColor:  wgpu.Color{R: 0.1, G: 0.1, B: 0.1, A: 1.0},
	}
	for _, opt := range options {
		opt(r)
	}

	r.surface = r.instance.CreateSurface(surfaceDescriptor)

	adapter, err := r.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: r.forceFallbackAdapter,
		CompatibleSurface:    r.surface,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to request adapter: %w", err)
	}
	r.adapter = adapter

	device, err := adapter.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "Viewer Device",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to request device: %w", err)
	}
	r.device = device
	r.queue = device.GetQueue()

	if err := r.initCameraUniform(); err != nil {
		return nil, err
	}

	return r, nil
}

// initCameraUniform creates the camera uniform buffer, its bind group
// layout, and the bind group, seeded with the identity matrix.
func (r *rendererImpl) initCameraUniform() error {
	buf, err := r.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "Camera Uniform Buffer",
		Size:  cameraUniformSize,
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("failed to create camera uniform buffer: %w", err)
	}
	r.cameraBuffer = buf

	identity := make([]float32, 16)
	common.Identity(identity)
	r.queue.WriteBuffer(buf, 0, common.SliceToBytes(identity))

	layout, err := r.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "Camera Bind Group Layout",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageVertex,
				Buffer: wgpu.BufferBindingLayout{
					Type: wgpu.BufferBindingTypeUniform,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create camera bind group layout: %w", err)
	}
	r.cameraLayout = layout

	bindGroup, err := r.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "Camera Bind Group",
		Layout: layout,
		Entries: []wgpu.BindGroupEntry{
			{
				Binding: 0,
				Buffer:  buf,
				Size:    cameraUniformSize,
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create camera bind group: %w", err)
	}
	r.cameraBindGroup = bindGroup

	return nil
}

func (r *rendererImpl) Configure(width, height int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if width <= 0 || height <= 0 {
		return
	}

	capabilities := r.surface.GetCapabilities(r.adapter)
	r.surfaceFormat = &capabilities.Formats[0]

	r.surface.Configure(r.adapter, r.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      *r.surfaceFormat,
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: r.presentMode,
		AlphaMode:   capabilities.AlphaModes[0],
	})

	count := uint32(r.sampleCount)
	msaaEnabled := count > 1

	if msaaEnabled {
		// The render pass draws into the MSAA texture; the resolved result is
		// written to the swapchain view as the ResolveTarget.
		msaaTexture, err := r.device.CreateTexture(&wgpu.TextureDescriptor{
			Label: "MSAA Texture",
			Size: wgpu.Extent3D{
				Width:              uint32(width),
				Height:             uint32(height),
				DepthOrArrayLayers: 1,
			},
			MipLevelCount: 1,
			SampleCount:   count,
			Dimension:     wgpu.TextureDimension2D,
			Format:        *r.surfaceFormat,
			Usage:         wgpu.TextureUsageRenderAttachment,
		})
		if err != nil {
			panic(err)
		}
		r.msaaTextureView, err = msaaTexture.CreateView(nil)
		if err != nil {
			panic(err)
		}
	} else {
		r.msaaTextureView = nil
	}

	// Depth texture sample count must match the color attachment.
	depthTexture, err := r.device.CreateTexture(&wgpu.TextureDescriptor{
		Label: "Depth Texture",
		Size: wgpu.Extent3D{
			Width:              uint32(width),
			Height:             uint32(height),
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   count,
		Dimension:     wgpu.TextureDimension2D,
		Format:        wgpu.TextureFormatDepth24Plus,
		Usage:         wgpu.TextureUsageRenderAttachment,
	})
	if err != nil {
		panic(err)
	}
	r.depthTextureView, err = depthTexture.CreateView(nil)
	if err != nil {
		panic(err)
	}

	// Cached render pass descriptor for the main render target. When MSAA is
	// enabled, View is the MSAA texture and ResolveTarget is set per-frame to
	// the swapchain view. When disabled, View is set per-frame instead.
	storeOp := wgpu.StoreOpStore
	if msaaEnabled {
		storeOp = wgpu.StoreOpDiscard
	}
	r.renderPassDescriptor = &wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:          r.msaaTextureView,
				ResolveTarget: nil,
				LoadOp:        wgpu.LoadOpClear,
				StoreOp:       storeOp,
				ClearValue:    r.clearColor,
			},
		},
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:            r.depthTextureView,
			DepthLoadOp:     wgpu.LoadOpClear,
			DepthStoreOp:    wgpu.StoreOpDiscard,
			DepthClearValue: 1.0,
		},
	}

	if r.pipeline == nil {
		if err := r.createPipelineLocked(); err != nil {
			panic(err)
		}
	}
}

// createPipelineLocked builds the vertex-color render pipeline. Needs the
// surface format, so it runs on first Configure. Caller must hold the mutex.
func (r *rendererImpl) createPipelineLocked() error {
	module, err := r.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: "Mesh Shader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: meshShaderSource,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create shader module: %w", err)
	}

	pipelineLayout, err := r.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            "Mesh Pipeline Layout",
		BindGroupLayouts: []*wgpu.BindGroupLayout{r.cameraLayout},
	})
	if err != nil {
		return fmt.Errorf("failed to create pipeline layout: %w", err)
	}

	pipeline, err := r.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  "Mesh Render Pipeline",
		Layout: pipelineLayout,
		Vertex: wgpu.VertexState{
			Module:     module,
			EntryPoint: "vs_main",
			Buffers: []wgpu.VertexBufferLayout{
				{
					ArrayStride: vertexStride,
					StepMode:    wgpu.VertexStepModeVertex,
					Attributes: []wgpu.VertexAttribute{
						{
							Format:         wgpu.VertexFormatFloat32x3,
							Offset:         0,
							ShaderLocation: 0,
						},
						{
							Format:         wgpu.VertexFormatFloat32x4,
							Offset:         3 * 4,
							ShaderLocation: 1,
						},
					},
				},
			},
		},
		Fragment: &wgpu.FragmentState{
			Module:     module,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{
				{
					Format:    *r.surfaceFormat,
					WriteMask: wgpu.ColorWriteMaskAll,
				},
			},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCCW,
			// Arbitrary meshes may have inconsistent winding, so skip culling.
			CullMode: wgpu.CullModeNone,
		},
		Multisample: wgpu.MultisampleState{
			Count: uint32(r.sampleCount),
			Mask:  0xFFFFFFFF,
		},
		DepthStencil: &wgpu.DepthStencilState{
			Format:            wgpu.TextureFormatDepth24Plus,
			DepthWriteEnabled: true,
			DepthCompare:      wgpu.CompareFunctionLess,
			StencilFront: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
			StencilBack: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create render pipeline: %w", err)
	}
	r.pipeline = pipeline

	return nil
}

func (r *rendererImpl) UploadMesh(mesh *asset.Mesh) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	vertexData := interleaveVertices(mesh)

	if r.vertexBuffer != nil {
		r.vertexBuffer.Release()
		r.vertexBuffer = nil
	}
	if r.indexBuffer != nil {
		r.indexBuffer.Release()
		r.indexBuffer = nil
	}

	vbuf, err := r.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "Mesh Vertex Buffer",
		Size:  uint64(len(vertexData)) * 4,
		Usage: wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("failed to create vertex buffer: %w", err)
	}
	r.queue.WriteBuffer(vbuf, 0, common.SliceToBytes(vertexData))
	r.vertexBuffer = vbuf

	ibuf, err := r.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "Mesh Index Buffer",
		Size:  uint64(len(mesh.Indices)) * 4,
		Usage: wgpu.BufferUsageIndex | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("failed to create index buffer: %w", err)
	}
	r.queue.WriteBuffer(ibuf, 0, common.SliceToBytes(mesh.Indices))
	r.indexBuffer = ibuf
	r.indexCount = uint32(len(mesh.Indices))

	return nil
}

// interleaveVertices packs mesh positions and colors into the pipeline's
// vertex layout. A colorless mesh is filled with white.
func interleaveVertices(mesh *asset.Mesh) []float32 {
	out := make([]float32, 0, len(mesh.Positions)*7)
	for i, p := range mesh.Positions {
		out = append(out, p[0], p[1], p[2])
		if mesh.Colors != nil {
			c := mesh.Colors[i]
			out = append(out, c[0], c[1], c[2], c[3])
		} else {
			out = append(out, 1, 1, 1, 1)
		}
	}
	return out
}

func (r *rendererImpl) UpdateCamera(viewProjection [16]float32) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.queue.WriteBuffer(r.cameraBuffer, 0, common.SliceToBytes(viewProjection[:]))
}

func (r *rendererImpl) RenderFrame() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.vertexBuffer == nil || r.indexBuffer == nil {
		return ErrNoMesh
	}
	if r.renderPassDescriptor == nil {
		return errors.New("renderer is not configured")
	}

	surfaceTexture, err := r.surface.GetCurrentTexture()
	if err != nil {
		return fmt.Errorf("failed to acquire surface texture: %w", err)
	}

	view, err := surfaceTexture.CreateView(nil)
	if err != nil {
		surfaceTexture.Release()
		return err
	}

	encoder, err := r.device.CreateCommandEncoder(nil)
	if err != nil {
		view.Release()
		surfaceTexture.Release()
		return err
	}

	if r.sampleCount > 1 {
		r.renderPassDescriptor.ColorAttachments[0].ResolveTarget = view
	} else {
		r.renderPassDescriptor.ColorAttachments[0].View = view
	}

	pass := encoder.BeginRenderPass(r.renderPassDescriptor)
	pass.SetPipeline(r.pipeline)
	pass.SetBindGroup(0, r.cameraBindGroup, nil)
	pass.SetVertexBuffer(0, r.vertexBuffer, 0, wgpu.WholeSize)
	pass.SetIndexBuffer(r.indexBuffer, wgpu.IndexFormatUint32, 0, wgpu.WholeSize)
	pass.DrawIndexed(r.indexCount, 1, 0, 0, 0)
	pass.End()

	commandBuffer, err := encoder.Finish(nil)
	if err != nil {
		encoder.Release()
		view.Release()
		surfaceTexture.Release()
		return err
	}

	r.queue.Submit(commandBuffer)
	r.surface.Present()

	commandBuffer.Release()
	encoder.Release()
	view.Release()
	surfaceTexture.Release()

	return nil
}

func (r *rendererImpl) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.vertexBuffer != nil {
		r.vertexBuffer.Release()
		r.vertexBuffer = nil
	}
	if r.indexBuffer != nil {
		r.indexBuffer.Release()
		r.indexBuffer = nil
	}
	if r.cameraBuffer != nil {
		r.cameraBuffer.Release()
		r.cameraBuffer = nil
	}
	if r.device != nil {
		r.device.Release()
		r.device = nil
	}
	if r.instance != nil {
		r.instance.Release()
		r.instance = nil
	}
}
