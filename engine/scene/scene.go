package scene

import (
	_ "embed"
	"errors"
	"fmt"
	"runtime"
	"slices"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-shapes/common"
	"github.com/Carmen-Shannon/oxy-shapes/engine/camera"
	"github.com/Carmen-Shannon/oxy-shapes/engine/game_object"
	"github.com/Carmen-Shannon/oxy-shapes/engine/renderer"
	"github.com/Carmen-Shannon/oxy-shapes/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-shapes/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-shapes/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-shapes/engine/shapes"
	"github.com/cogentcore/webgpu/wgpu"
	"go.uber.org/zap"
)

//go:embed assets/shape_vert.wgsl
var shapeVertexSource string

//go:embed assets/shape_frag.wgsl
var shapeFragmentSource string

// uniformBinding is the binding index of the camera and object uniforms inside their groups.
const uniformBinding = 0

var (
	// ErrReleased is returned by operations on a scene after Release.
	ErrReleased = errors.New("scene released")

	// ErrNilObject is returned by Add when given a nil object.
	ErrNilObject = errors.New("nil game object")
)

// DrawStats summarizes the objects considered by the last DrawCalls.
type DrawStats struct {
	Objects  int // registered objects
	Disabled int // skipped because they are disabled
	Missing  int // enabled but their mesh failed to load
	Culled   int // outside the camera frustum
	Drawn    int // objects that issued draws
}

// Scene owns a camera, the ShapeMeshes it draws with and a registry of game objects.
// Every object is drawn with the built-in Lambert shape pipeline.
// Safe for concurrent use.
type Scene interface {
	// Name returns the scene's identifier.
	Name() string

	// SetName sets the scene's identifier.
	SetName(name string)

	// Active reports whether the engine should update and render this scene.
	Active() bool

	// SetActive sets whether the engine should update and render this scene.
	SetActive(active bool)

	// Camera returns the scene's camera.
	Camera() camera.Camera

	// Renderer returns the renderer the scene draws through.
	Renderer() renderer.Renderer

	// Shapes returns the mesh set objects are drawn from.
	Shapes() shapes.ShapeMeshes

	// PipelineKey returns the key of the shape pipeline registered with the renderer.
	PipelineKey() string

	// Add registers an object, loads its shape mesh if needed and initializes its uniform
	// bind group. Adding an object that is already registered returns its existing ID.
	//
	// Parameters:
	//   - obj: the object to add
	//
	// Returns:
	//   - uint64: the assigned object ID
	//   - error: ErrNilObject, ErrReleased, or a mesh or bind group failure
	Add(obj game_object.GameObject) (uint64, error)

	// Get returns the object registered under id, or nil.
	Get(id uint64) game_object.GameObject

	// Remove unregisters an object and releases its GPU resources.
	//
	// Parameters:
	//   - id: the object's ID
	//
	// Returns:
	//   - bool: false if no object was registered under id
	Remove(id uint64) bool

	// Objects returns the registered objects ordered by ID.
	Objects() []game_object.GameObject

	// Count returns the number of registered objects.
	Count() int

	// Clear removes and releases every object.
	Clear()

	// CullingDisabled reports whether frustum culling is skipped in DrawCalls.
	CullingDisabled() bool

	// SetCullingDisabled turns frustum culling off or on.
	SetCullingDisabled(disabled bool)

	// Update advances every enabled object's rotation animation and refreshes the camera.
	//
	// Parameters:
	//   - dt: elapsed time in seconds
	Update(dt float32)

	// DrawCalls writes the camera and object uniforms and issues one shape draw per visible
	// object. Must be called between Renderer.BeginFrame and Renderer.EndFrame.
	//
	// Returns:
	//   - error: every mesh load or draw failure joined together
	DrawCalls() error

	// Stats returns the counters recorded by the last DrawCalls.
	Stats() DrawStats

	// Release frees every object, the camera bind group and the worker pool. Meshes are freed
	// only when the scene created its own ShapeMeshes. The renderer is left alone.
	Release()
}

var _ Scene = &scene{}

type scene struct {
	mu *sync.RWMutex

	name     string
	active   bool
	released bool

	cam    camera.Camera
	r      renderer.Renderer
	shapes shapes.ShapeMeshes
	// ownsShapes marks shapes as created by the scene, so Release frees it.
	ownsShapes bool

	pipelineKey  string
	pipelineOpts []pipeline.PipelineBuilderOption
	shapeOpts    []shapes.ShapeMeshesBuilderOption
	pipeline     pipeline.Pipeline
	cameraGroup  int
	objectGroup  int
	cameraLayout wgpu.BindGroupLayoutDescriptor
	objectLayout wgpu.BindGroupLayoutDescriptor

	registry map[uint64]game_object.GameObject
	pending  []game_object.GameObject
	nextID   uint64

	workers         int
	pool            worker.DynamicWorkerPool
	cullingDisabled bool
	// uniformBufs holds one reusable uniform byte buffer per object ID.
	uniformBufs map[uint64][]byte
	stats       DrawStats

	logger *zap.Logger
}

// preparedObject is the per-object output of the parallel prep phase.
type preparedObject struct {
	visible bool
	culled  bool
	missing bool
	data    []byte
}

// NewScene builds the shape shaders, registers the shape pipeline with r (unless a pipeline
// with the same key is already registered), initializes the camera bind group and adds any
// objects passed through WithObjects.
// Panics if cam or r is nil.
//
// Parameters:
//   - name: the scene's identifier
//   - cam: the camera to render from
//   - r: the renderer to draw through
//   - options: a variadic list of options to configure the scene
//
// Returns:
//   - Scene: the new scene
//   - error: a shader, pipeline, bind group or object setup failure
func NewScene(name string, cam camera.Camera, r renderer.Renderer, options ...SceneBuilderOption) (Scene, error) {
	if cam == nil {
		panic("scene: camera must not be nil")
	}
	if r == nil {
		panic("scene: renderer must not be nil")
	}

	s := &scene{
		mu:          &sync.RWMutex{},
		name:        name,
		cam:         cam,
		r:           r,
		pipelineKey: shapes.DefaultPipelineKey,
		registry:    make(map[uint64]game_object.GameObject),
		nextID:      1,
		workers:     max(runtime.NumCPU()-1, 1),
		uniformBufs: make(map[uint64][]byte),
		logger:      zap.NewNop(),
	}
	for _, opt := range options {
		opt(s)
	}

	if err := s.setupPipeline(); err != nil {
		return nil, err
	}

	camProvider := cam.BindGroupProvider()
	if camProvider.BindGroup() == nil {
		if l := s.pipeline.BindGroupLayout(s.cameraGroup); l != nil {
			camProvider.SetSharedBindGroupLayout(l)
		}
		if err := r.InitBindGroup(camProvider, s.cameraLayout, nil); err != nil {
			return nil, fmt.Errorf("init camera bind group: %w", err)
		}
	}

	if s.shapes == nil {
		opts := append([]shapes.ShapeMeshesBuilderOption{
			shapes.WithPipelineKey(s.pipelineKey),
			shapes.WithLogger(s.logger),
		}, s.shapeOpts...)
		s.shapes = shapes.NewShapeMeshes(r, opts...)
		s.ownsShapes = true
	}

	s.pool = worker.NewDynamicWorkerPool(s.workers, 256, time.Second)

	pending := s.pending
	s.pending = nil
	for _, obj := range pending {
		if _, err := s.add(obj); err != nil {
			s.Release()
			return nil, err
		}
	}

	s.logger.Debug("scene created",
		zap.String("scene", s.name),
		zap.String("pipeline", s.pipelineKey),
		zap.Int("objects", len(s.registry)),
		zap.Int("workers", s.workers),
	)
	return s, nil
}

// setupPipeline reflects the shape shaders and makes sure the renderer has the shape pipeline.
func (s *scene) setupPipeline() error {
	vs, err := shader.NewShader(s.pipelineKey+"_vs", shader.ShaderTypeVertex, shapeVertexSource)
	if err != nil {
		return fmt.Errorf("shape vertex shader: %w", err)
	}
	fs, err := shader.NewShader(s.pipelineKey+"_fs", shader.ShaderTypeFragment, shapeFragmentSource)
	if err != nil {
		return fmt.Errorf("shape fragment shader: %w", err)
	}

	var ok bool
	if s.cameraGroup, ok = vs.GroupOf(shader.AnnotationArgCamera); !ok {
		return errors.New("shape vertex shader declares no camera group")
	}
	if s.objectGroup, ok = vs.GroupOf(shader.AnnotationArgObject); !ok {
		return errors.New("shape vertex shader declares no object group")
	}

	s.pipeline = s.r.Pipeline(s.pipelineKey)
	if s.pipeline == nil {
		opts := append([]pipeline.PipelineBuilderOption{pipeline.WithShaders(vs, fs)}, s.pipelineOpts...)
		s.pipeline = pipeline.NewPipeline(s.pipelineKey, opts...)
		if err := s.r.RegisterPipelines(s.pipeline); err != nil {
			return fmt.Errorf("register shape pipeline: %w", err)
		}
	}

	layouts := s.pipeline.BindGroupLayoutDescriptors()
	s.cameraLayout = layouts[s.cameraGroup]
	s.objectLayout = layouts[s.objectGroup]
	return nil
}

func (s *scene) Name() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.name
}

func (s *scene) SetName(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.name = name
}

func (s *scene) Active() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

func (s *scene) SetActive(active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = active
}

func (s *scene) Camera() camera.Camera {
	return s.cam
}

func (s *scene) Renderer() renderer.Renderer {
	return s.r
}

func (s *scene) Shapes() shapes.ShapeMeshes {
	return s.shapes
}

func (s *scene) PipelineKey() string {
	return s.pipelineKey
}

func (s *scene) Add(obj game_object.GameObject) (uint64, error) {
	if obj == nil {
		return 0, ErrNilObject
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.released {
		return 0, ErrReleased
	}
	return s.add(obj)
}

// add does the work of Add. The caller holds the write lock.
func (s *scene) add(obj game_object.GameObject) (uint64, error) {
	if id := obj.ID(); id != 0 && s.registry[id] == obj {
		return id, nil
	}

	provider := obj.BindGroupProvider()
	if provider.Released() {
		return 0, fmt.Errorf("add %s: object was released", obj.Name())
	}

	kind := obj.Kind()
	if !s.shapes.Loaded(kind) {
		if err := s.shapes.Load(kind); err != nil {
			return 0, fmt.Errorf("add %s: %w", obj.Name(), err)
		}
	}

	if provider.BindGroup() == nil {
		if l := s.pipeline.BindGroupLayout(s.objectGroup); l != nil {
			provider.SetSharedBindGroupLayout(l)
		}
		if err := s.r.InitBindGroup(provider, s.objectLayout, nil); err != nil {
			return 0, fmt.Errorf("add %s: init bind group: %w", obj.Name(), err)
		}
	}

	id := s.nextID
	s.nextID++
	obj.SetID(id)
	s.registry[id] = obj
	return id, nil
}

func (s *scene) Get(id uint64) game_object.GameObject {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.registry[id]
}

func (s *scene) Remove(id uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	obj, ok := s.registry[id]
	if !ok {
		return false
	}
	delete(s.registry, id)
	delete(s.uniformBufs, id)
	obj.Release()
	return true
}

func (s *scene) Objects() []game_object.GameObject {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sortedObjects()
}

// sortedObjects snapshots the registry in ID order. The caller holds a lock.
func (s *scene) sortedObjects() []game_object.GameObject {
	ids := make([]uint64, 0, len(s.registry))
	for id := range s.registry {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	objs := make([]game_object.GameObject, len(ids))
	for i, id := range ids {
		objs[i] = s.registry[id]
	}
	return objs
}

func (s *scene) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.registry)
}

func (s *scene) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clear()
}

func (s *scene) clear() {
	for _, obj := range s.registry {
		obj.Release()
	}
	clear(s.registry)
	clear(s.uniformBufs)
}

func (s *scene) CullingDisabled() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cullingDisabled
}

func (s *scene) SetCullingDisabled(disabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cullingDisabled = disabled
}

func (s *scene) Update(dt float32) {
	s.mu.RLock()
	objs := s.sortedObjects()
	s.mu.RUnlock()

	for _, obj := range objs {
		if obj.Enabled() {
			obj.Update(dt)
		}
	}
	s.cam.Update()
}

func (s *scene) DrawCalls() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.released {
		return ErrReleased
	}

	objs := s.sortedObjects()
	var errs []error

	// kinds can change after Add; missing meshes are loaded before the parallel phase
	radii := make(map[shapes.Kind]float32)
	for _, obj := range objs {
		kind := obj.Kind()
		if _, seen := radii[kind]; seen {
			continue
		}
		if !s.shapes.Loaded(kind) {
			if err := s.shapes.Load(kind); err != nil {
				errs = append(errs, fmt.Errorf("object %d: %w", obj.ID(), err))
				continue
			}
		}
		if r, ok := s.shapes.BoundingRadius(kind); ok {
			radii[kind] = r
		}
	}

	prepared := s.prepare(objs, radii, s.cam.Frustum())

	camProvider := s.cam.BindGroupProvider()
	camUniform := s.cam.Uniform()
	writes := make([]bind_group_provider.BufferWrite, 0, len(objs)+1)
	writes = append(writes, bind_group_provider.BufferWrite{
		Provider: camProvider,
		Binding:  uniformBinding,
		Data:     camUniform.Marshal(),
	})
	for i, p := range prepared {
		if p.visible {
			writes = append(writes, bind_group_provider.BufferWrite{
				Provider: objs[i].BindGroupProvider(),
				Binding:  uniformBinding,
				Data:     p.data,
			})
		}
	}
	s.r.WriteBuffers(writes)

	stats := DrawStats{Objects: len(objs)}
	groupCount := max(s.cameraGroup, s.objectGroup) + 1
	for i, obj := range objs {
		p := prepared[i]
		switch {
		case p.culled:
			stats.Culled++
			continue
		case p.missing:
			stats.Missing++
			continue
		case !p.visible:
			stats.Disabled++
			continue
		}
		groups := make([]bind_group_provider.BindGroupProvider, groupCount)
		groups[s.cameraGroup] = camProvider
		groups[s.objectGroup] = obj.BindGroupProvider()
		if err := s.shapes.Draw(obj.Kind(), obj.Parts(), groups...); err != nil {
			errs = append(errs, fmt.Errorf("object %d: %w", obj.ID(), err))
			continue
		}
		stats.Drawn++
	}
	s.stats = stats
	return errors.Join(errs...)
}

// prepare computes visibility and marshals the uniform of every object, splitting the work
// into one chunk per worker. The caller holds the write lock.
//
// Parameters:
//   - objs: the objects to prepare
//   - radii: template bounding radius per loaded kind
//   - frustum: the camera frustum to cull against
//
// Returns:
//   - []preparedObject: one entry per object, in the same order
func (s *scene) prepare(objs []game_object.GameObject, radii map[shapes.Kind]float32, frustum common.Frustum) []preparedObject {
	out := make([]preparedObject, len(objs))
	if len(objs) == 0 {
		return out
	}
	for i, obj := range objs {
		buf, ok := s.uniformBufs[obj.ID()]
		if !ok {
			buf = make([]byte, game_object.GPUObjectUniformSize)
			s.uniformBufs[obj.ID()] = buf
		}
		out[i].data = buf
	}

	chunks := min(s.workers, len(objs))
	size := (len(objs) + chunks - 1) / chunks
	var wg sync.WaitGroup
	for start := 0; start < len(objs); start += size {
		end := min(start+size, len(objs))
		wg.Add(1)
		s.pool.SubmitTask(worker.Task{
			ID: start,
			Do: func() (any, error) {
				defer wg.Done()
				for i := start; i < end; i++ {
					s.prepareObject(objs[i], &out[i], radii, frustum)
				}
				return nil, nil
			},
		})
	}
	wg.Wait()
	return out
}

// prepareObject fills p for one object. Runs on a pool worker.
func (s *scene) prepareObject(obj game_object.GameObject, p *preparedObject, radii map[shapes.Kind]float32, frustum common.Frustum) {
	if !obj.Enabled() {
		return
	}
	templateRadius, ok := radii[obj.Kind()]
	if !ok {
		p.missing = true
		return
	}
	if !s.cullingDisabled {
		center, radius := obj.BoundingSphere(templateRadius)
		if !frustum.ContainsSphere(center, radius) {
			p.culled = true
			return
		}
	}
	u := obj.Uniform()
	u.MarshalInto(p.data)
	p.visible = true
}

func (s *scene) Stats() DrawStats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stats
}

func (s *scene) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.released {
		return
	}
	s.released = true
	s.clear()
	s.cam.BindGroupProvider().Release()
	if s.ownsShapes && s.shapes != nil {
		s.shapes.Release()
	}
	if s.pool != nil {
		s.pool.Stop()
	}
}
