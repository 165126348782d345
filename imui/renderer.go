package imui

import (
	_ "embed"
	"fmt"
	"log/slog"
	"math/bits"
	"unsafe"

	"github.com/AllenDang/cimgui-go/imgui"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/oliverbestmann/imframe/pulse"
	"github.com/oliverbestmann/webgpu/wgpu"
)

//go:embed overlay.wgsl
var overlayShaderCode string

type overlayUniforms struct {
	Scale     [2]float32
	Translate [2]float32
}

type bindGroupKey struct {
	pipeline *wgpu.RenderPipeline
	texture  imgui.TextureID
}

// Renderer draws the DrawData of a Context into an open render pass.
type Renderer struct {
	ctx *pulse.Context

	sampler *wgpu.Sampler

	pipelines  *pulse.PipelineCache[overlayPipelineConfig]
	bindGroups *lru.Cache[bindGroupKey, *wgpu.BindGroup]

	textures      map[imgui.TextureID]*pulse.Texture
	nextTextureID imgui.TextureID
	textureSync   *textureSync

	uniforms *wgpu.Buffer

	vertexBuf *wgpu.Buffer
	vertexCap uint64

	indexBuf *wgpu.Buffer
	indexCap uint64

	geometry geometry
}

// NewRenderer prepares the gpu resources shared by all frames. Textures
// are uploaded on demand when imgui requests them.
func NewRenderer(ctx *pulse.Context) (*Renderer, error) {
	sampler, err := pulse.CachedSampler(ctx.Device, wgpu.SamplerDescriptor{
		Label:         "Overlay.Sampler",
		AddressModeU:  wgpu.AddressModeClampToEdge,
		AddressModeV:  wgpu.AddressModeClampToEdge,
		AddressModeW:  wgpu.AddressModeClampToEdge,
		MagFilter:     wgpu.FilterModeLinear,
		MinFilter:     wgpu.FilterModeLinear,
		MipmapFilter:  wgpu.MipmapFilterModeNearest,
		LodMinClamp:   0,
		LodMaxClamp:   1,
		MaxAnisotropy: 1,
	})

	if err != nil {
		return nil, err
	}

	uniforms, err := ctx.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "Overlay.Uniforms",
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
		Size:  uint64(unsafe.Sizeof(overlayUniforms{})),
	})

	if err != nil {
		return nil, fmt.Errorf("create uniform buffer: %w", err)
	}

	bindGroups, _ := lru.NewWithEvict[bindGroupKey, *wgpu.BindGroup](16, releaseBindGroupOnEviction)

	r := &Renderer{
		ctx:           ctx,
		sampler:       sampler,
		pipelines:     pulse.NewPipelineCache[overlayPipelineConfig](ctx),
		bindGroups:    bindGroups,
		textures:      map[imgui.TextureID]*pulse.Texture{},
		nextTextureID: 1,
		uniforms:      uniforms,
	}

	r.textureSync = newTextureSync(r)

	return r, nil
}

// Render records the draw commands into the pass. The pass must target a
// texture described by target.
func (r *Renderer) Render(pass *wgpu.RenderPassEncoder, target pulse.RenderTarget, data *DrawData) error {
	if data == nil {
		return nil
	}

	// texture requests must be handled even if nothing is drawn
	if err := r.textureSync.sync(data.atlas); err != nil {
		return fmt.Errorf("sync textures: %w", err)
	}

	if data.Empty() {
		return nil
	}

	displayPos, displaySize := data.DisplayPos(), data.DisplaySize()
	if displaySize.X <= 0 || displaySize.Y <= 0 {
		return nil
	}

	r.geometry.collect(data)

	vertexBytes := r.geometry.Vertices
	indexBytes := r.geometry.Indices

	var err error

	r.vertexBuf, r.vertexCap, err = r.ensureBuffer(r.vertexBuf, r.vertexCap, uint64(len(vertexBytes)), "Overlay.Vertices", wgpu.BufferUsageVertex)
	if err != nil {
		return err
	}

	r.indexBuf, r.indexCap, err = r.ensureBuffer(r.indexBuf, r.indexCap, uint64(len(indexBytes)), "Overlay.Indices", wgpu.BufferUsageIndex)
	if err != nil {
		return err
	}

	uniforms := projection(displayPos, displaySize)

	if err := r.ctx.Queue.WriteBuffer(r.vertexBuf, 0, vertexBytes); err != nil {
		return fmt.Errorf("write vertices: %w", err)
	}

	if err := r.ctx.Queue.WriteBuffer(r.indexBuf, 0, indexBytes); err != nil {
		return fmt.Errorf("write indices: %w", err)
	}

	if err := r.ctx.Queue.WriteBuffer(r.uniforms, 0, wgpu.ToBytes([]overlayUniforms{uniforms})); err != nil {
		return fmt.Errorf("write uniforms: %w", err)
	}

	pipeline, err := r.pipelines.Get(overlayPipelineConfig{Format: target.Format})
	if err != nil {
		return err
	}

	pass.SetPipeline(pipeline.Pipeline)
	pass.SetVertexBuffer(0, r.vertexBuf, 0, uint64(len(vertexBytes)))
	pass.SetIndexBuffer(r.indexBuf, indexFormat(r.geometry.IndexSize), 0, uint64(len(indexBytes)))

	for _, call := range r.geometry.Calls {
		x, y, w, h, ok := scissorRect(call.ClipRect, displayPos, target.Width, target.Height)
		if !ok {
			continue
		}

		bindGroup, err := r.bindGroup(pipeline, call.TexID)
		if err != nil {
			return err
		}

		pass.SetBindGroup(0, bindGroup, nil)
		pass.SetScissorRect(x, y, w, h)
		pass.DrawIndexed(call.ElemCount, 1, call.FirstIndex, call.BaseVertex, 0)
	}

	return nil
}

// ensureBuffer returns a buffer holding at least size bytes. Buffers grow
// to the next power of two.
func (r *Renderer) ensureBuffer(buf *wgpu.Buffer, capacity, size uint64, label string, usage wgpu.BufferUsage) (*wgpu.Buffer, uint64, error) {
	if buf != nil && capacity >= size {
		return buf, capacity, nil
	}

	if buf != nil {
		buf.Release()
	}

	capacity = max(nextPowerOfTwo(size), 4096)

	slog.Debug("Grow overlay buffer",
		slog.String("label", label),
		slog.Uint64("capacity", capacity),
	)

	buf, err := r.ctx.CreateBuffer(&wgpu.BufferDescriptor{
		Label: label,
		Usage: usage | wgpu.BufferUsageCopyDst,
		Size:  capacity,
	})

	if err != nil {
		return nil, 0, fmt.Errorf("create buffer %s: %w", label, err)
	}

	return buf, capacity, nil
}

func (r *Renderer) bindGroup(pipeline pulse.CachedPipeline, id imgui.TextureID) (*wgpu.BindGroup, error) {
	key := bindGroupKey{pipeline: pipeline.Pipeline, texture: id}

	if cached, ok := r.bindGroups.Get(key); ok {
		return cached, nil
	}

	texture, ok := r.textures[id]
	if !ok {
		return nil, fmt.Errorf("unknown texture id %d", id)
	}

	bindGroup, err := r.ctx.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "Overlay.BindGroup",
		Layout: pipeline.GetBindGroupLayout(0),
		Entries: []wgpu.BindGroupEntry{
			{
				Binding: 0,
				Buffer:  r.uniforms,
				Size:    wgpu.WholeSize,
			},
			{
				Binding:     1,
				TextureView: texture.View(),
			},
			{
				Binding: 2,
				Sampler: r.sampler,
			},
		},
	})

	if err != nil {
		return nil, fmt.Errorf("create bind group: %w", err)
	}

	r.bindGroups.Add(key, bindGroup)

	return bindGroup, nil
}

func (r *Renderer) createTexture(tex *imgui.TextureData) (imgui.TextureID, error) {
	pixels, err := texturePixels(tex)
	if err != nil {
		return 0, err
	}

	texture, err := pulse.NewTexture(r.ctx, pulse.NewTextureOptions{
		Format: wgpu.TextureFormatRGBA8Unorm,
		Width:  uint32(tex.Width()),
		Height: uint32(tex.Height()),
		Label:  "Overlay.Texture",
	})

	if err != nil {
		return 0, err
	}

	err = texture.WritePixelsToRect(r.ctx, pulse.WritePixelsOptions{
		Width:  uint32(tex.Width()),
		Height: uint32(tex.Height()),
		Stride: uint32(tex.Pitch()),
		Pixels: pixels,
	})

	if err != nil {
		texture.Release()
		return 0, err
	}

	id := r.nextTextureID
	r.nextTextureID++

	r.textures[id] = texture

	return id, nil
}

func (r *Renderer) updateTexture(id imgui.TextureID, tex *imgui.TextureData) error {
	texture, ok := r.textures[id]
	if !ok {
		return fmt.Errorf("unknown texture id %d", id)
	}

	pixels, err := texturePixels(tex)
	if err != nil {
		return err
	}

	return texture.WritePixelsToRect(r.ctx, pulse.WritePixelsOptions{
		Width:  uint32(tex.Width()),
		Height: uint32(tex.Height()),
		Stride: uint32(tex.Pitch()),
		Pixels: pixels,
	})
}

func (r *Renderer) destroyTexture(id imgui.TextureID) {
	texture, ok := r.textures[id]
	if !ok {
		return
	}

	for _, key := range r.bindGroups.Keys() {
		if key.texture == id {
			r.bindGroups.Remove(key)
		}
	}

	texture.Release()
	delete(r.textures, id)
}

// Release frees all gpu resources. The sampler is shared and stays alive.
func (r *Renderer) Release() {
	r.bindGroups.Purge()
	r.pipelines.Purge()

	for id, texture := range r.textures {
		texture.Release()
		delete(r.textures, id)
	}

	if r.vertexBuf != nil {
		r.vertexBuf.Release()
		r.vertexBuf = nil
	}

	if r.indexBuf != nil {
		r.indexBuf.Release()
		r.indexBuf = nil
	}

	r.uniforms.Release()
}

// projection maps the display rectangle to clip space.
func projection(pos, size Vec2) overlayUniforms {
	return overlayUniforms{
		Scale:     [2]float32{2 / size.X, -2 / size.Y},
		Translate: [2]float32{-1 - 2*pos.X/size.X, 1 + 2*pos.Y/size.Y},
	}
}

// scissorRect converts the clip rect into integer pixels within the target.
// Returns false if nothing is visible.
func scissorRect(clip imgui.Vec4, offset Vec2, width, height uint32) (x, y, w, h uint32, ok bool) {
	minX := clamp(clip.X-offset.X, 0, float32(width))
	minY := clamp(clip.Y-offset.Y, 0, float32(height))
	maxX := clamp(clip.Z-offset.X, 0, float32(width))
	maxY := clamp(clip.W-offset.Y, 0, float32(height))

	if maxX <= minX || maxY <= minY {
		return 0, 0, 0, 0, false
	}

	x, y = uint32(minX), uint32(minY)
	w, h = uint32(maxX+0.5)-x, uint32(maxY+0.5)-y

	w = min(w, width-x)
	h = min(h, height-y)

	return x, y, w, h, w > 0 && h > 0
}

func indexFormat(size int) wgpu.IndexFormat {
	if size == 4 {
		return wgpu.IndexFormatUint32
	}

	return wgpu.IndexFormatUint16
}

func nextPowerOfTwo(value uint64) uint64 {
	if value <= 1 {
		return 1
	}

	return 1 << bits.Len64(value-1)
}

func releaseBindGroupOnEviction(_ bindGroupKey, bindGroup *wgpu.BindGroup) {
	bindGroup.Release()
}

type overlayPipelineConfig struct {
	Format wgpu.TextureFormat
}

func (conf overlayPipelineConfig) srgb() bool {
	return conf.Format == wgpu.TextureFormatBGRA8UnormSrgb ||
		conf.Format == wgpu.TextureFormatRGBA8UnormSrgb
}

func (conf overlayPipelineConfig) Specialize(dev *wgpu.Device) (*wgpu.RenderPipeline, error) {
	slog.Info("Create RenderPipeline for overlay", slog.Any("format", conf.Format))

	shader, err := dev.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:      "Overlay.Shader",
		WGSLSource: &wgpu.ShaderSourceWGSL{Code: overlayShaderCode},
	})

	if err != nil {
		return nil, fmt.Errorf("compile overlay shader: %w", err)
	}

	defer shader.Release()

	fragmentEntry := "fs_main"
	if conf.srgb() {
		fragmentEntry = "fs_main_srgb"
	}

	stride, posOffset, uvOffset, colOffset := imgui.VertexBufferLayout()

	return dev.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label: fmt.Sprintf("Overlay.%s", conf.Format),
		Vertex: wgpu.VertexState{
			Module:     shader,
			EntryPoint: "vs_main",
			Buffers: []wgpu.VertexBufferLayout{
				{
					ArrayStride: uint64(stride),
					StepMode:    wgpu.VertexStepModeVertex,
					Attributes: []wgpu.VertexAttribute{
						{
							Format:         wgpu.VertexFormatFloat32x2,
							Offset:         uint64(posOffset),
							ShaderLocation: 0,
						},
						{
							Format:         wgpu.VertexFormatFloat32x2,
							Offset:         uint64(uvOffset),
							ShaderLocation: 1,
						},
						{
							Format:         wgpu.VertexFormatUnorm8x4,
							Offset:         uint64(colOffset),
							ShaderLocation: 2,
						},
					},
				},
			},
		},
		Fragment: &wgpu.FragmentState{
			Module:     shader,
			EntryPoint: fragmentEntry,
			Targets: []wgpu.ColorTargetState{
				{
					Format:    conf.Format,
					Blend:     &wgpu.BlendStateAlphaBlending,
					WriteMask: wgpu.ColorWriteMaskAll,
				},
			},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeNone,
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xffffffff,
		},
	})
}
