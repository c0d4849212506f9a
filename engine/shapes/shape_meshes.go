package shapes

import (
	"errors"
	"fmt"
	"runtime"
	"slices"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-shapes/engine/mesh"
	"github.com/Carmen-Shannon/oxy-shapes/engine/renderer/bind_group_provider"
	"go.uber.org/zap"
)

var (
	// ErrMeshNotLoaded is returned by a draw of a kind that was never loaded.
	ErrMeshNotLoaded = errors.New("shape mesh not loaded")

	// ErrUnknownKind is returned for a Kind or name outside the built-in shapes.
	ErrUnknownKind = errors.New("unknown shape kind")

	// ErrReleased is returned by every load and draw after Release.
	ErrReleased = errors.New("shape meshes released")
)

// DefaultPipelineKey is the render pipeline shape draws use unless WithPipelineKey is given.
const DefaultPipelineKey = "shape_lambert"

// MeshUploader creates the vertex and index buffers of a mesh. renderer.Renderer satisfies it.
type MeshUploader interface {
	InitMeshBuffers(provider bind_group_provider.BindGroupProvider, vertexData, indexData []byte, indexCount uint32) error
}

// MeshDrawer draws a sub-range of a mesh's index buffer. renderer.Renderer satisfies it.
type MeshDrawer interface {
	DrawCallRange(pipelineKey string, meshProvider bind_group_provider.BindGroupProvider, firstIndex, indexCount uint32, bindGroups []bind_group_provider.BindGroupProvider) error
}

// MeshRenderer is the part of the renderer ShapeMeshes needs.
type MeshRenderer interface {
	MeshUploader
	MeshDrawer
}

// loadedMesh is a generated mesh and the provider holding its GPU buffers.
type loadedMesh struct {
	mesh     *mesh.Mesh
	provider bind_group_provider.BindGroupProvider
	radius   float32
}

type shapeMeshes struct {
	mu *sync.Mutex

	r           MeshRenderer
	pipelineKey string
	logger      *zap.Logger
	released    bool

	segments  int
	stacks    int
	thickness float32
	topRadius float32
	topScale  float32
	tiers     int

	workers int
	pool    worker.DynamicWorkerPool

	meshes map[Kind]*loadedMesh
}

// ShapeMeshes generates the built-in shapes once, keeps one vertex/index buffer pair per shape
// on the GPU, and draws whole shapes or parts of them through a single pipeline.
//
// Every draw takes the bind groups to set for the call, in group order (camera, object).
type ShapeMeshes interface {
	LoadBoxMesh() error
	LoadBox2Mesh() error
	LoadConeMesh() error
	LoadCylinderMesh() error
	LoadPlaneMesh() error
	LoadPrismMesh() error
	LoadPyramid3Mesh() error
	LoadPyramid4Mesh() error
	LoadSphereMesh() error
	LoadTaperedCylinderMesh() error

	// LoadTorusMesh loads the torus with the given tube radius, overriding WithThickness.
	//
	// Parameters:
	//   - thickness: tube radius relative to a major radius of 1, clamped to [0.01, 0.99]
	//
	// Returns:
	//   - error: ErrReleased or an upload failure
	LoadTorusMesh(thickness float32) error

	LoadZigMesh() error
	LoadRampMesh() error
	LoadTestZigMesh() error

	// Load generates and uploads one kind. Loading a kind again replaces its buffers.
	//
	// Parameters:
	//   - kind: the shape to load
	//
	// Returns:
	//   - error: ErrUnknownKind, ErrReleased, or a generation or upload failure
	Load(kind Kind) error

	// LoadAll generates the given kinds in parallel on the worker pool, then uploads them one by
	// one. Without arguments every kind is loaded. Failures do not stop the other kinds.
	//
	// Parameters:
	//   - kinds: the shapes to load; duplicates are loaded once
	//
	// Returns:
	//   - error: every failure joined, or nil
	LoadAll(kinds ...Kind) error

	DrawBoxMesh(bindGroups ...bind_group_provider.BindGroupProvider) error
	DrawBox2Mesh(bindGroups ...bind_group_provider.BindGroupProvider) error

	// DrawConeMesh draws the cone's sides and, if drawBottom is set, its base.
	DrawConeMesh(drawBottom bool, bindGroups ...bind_group_provider.BindGroupProvider) error

	// DrawCylinderMesh draws the selected cylinder parts. Adjacent parts are merged into one
	// draw call; nothing is drawn when every flag is false.
	//
	// Parameters:
	//   - top: draw the upper cap
	//   - bottom: draw the lower cap
	//   - sides: draw the lateral surface
	//   - bindGroups: the bind groups for the call
	//
	// Returns:
	//   - error: ErrMeshNotLoaded, ErrReleased, or a draw failure
	DrawCylinderMesh(top, bottom, sides bool, bindGroups ...bind_group_provider.BindGroupProvider) error

	DrawPlaneMesh(bindGroups ...bind_group_provider.BindGroupProvider) error
	DrawPrismMesh(bindGroups ...bind_group_provider.BindGroupProvider) error
	DrawPyramid3Mesh(bindGroups ...bind_group_provider.BindGroupProvider) error
	DrawPyramid4Mesh(bindGroups ...bind_group_provider.BindGroupProvider) error
	DrawSphereMesh(bindGroups ...bind_group_provider.BindGroupProvider) error

	// DrawHalfSphereMesh draws the y >= 0 hemisphere.
	DrawHalfSphereMesh(bindGroups ...bind_group_provider.BindGroupProvider) error

	// DrawTaperedCylinderMesh draws the selected parts, like DrawCylinderMesh.
	DrawTaperedCylinderMesh(top, bottom, sides bool, bindGroups ...bind_group_provider.BindGroupProvider) error

	DrawTorusMesh(bindGroups ...bind_group_provider.BindGroupProvider) error

	// DrawHalfTorusMesh draws the y >= 0 half of the torus.
	DrawHalfTorusMesh(bindGroups ...bind_group_provider.BindGroupProvider) error

	DrawZigMesh(bindGroups ...bind_group_provider.BindGroupProvider) error
	DrawRampMesh(bindGroups ...bind_group_provider.BindGroupProvider) error
	DrawTestZigMesh(bindGroups ...bind_group_provider.BindGroupProvider) error

	// Draw draws the selected parts of any kind. See Parts for which flags apply to which kind.
	//
	// Parameters:
	//   - kind: the shape to draw
	//   - parts: the pieces to draw
	//   - bindGroups: the bind groups for the call
	//
	// Returns:
	//   - error: ErrUnknownKind, ErrMeshNotLoaded, ErrReleased, or a draw failure
	Draw(kind Kind, parts Parts, bindGroups ...bind_group_provider.BindGroupProvider) error

	// Mesh returns the CPU mesh of a loaded kind, or nil.
	Mesh(kind Kind) *mesh.Mesh

	// Loaded reports whether kind has GPU buffers.
	Loaded(kind Kind) bool

	// BoundingRadius returns the template radius of a loaded kind, measured once at upload.
	//
	// Parameters:
	//   - kind: the shape to look up
	//
	// Returns:
	//   - float32: the largest vertex distance from the origin
	//   - bool: false when kind is not loaded
	BoundingRadius(kind Kind) (float32, bool)

	// PipelineKey returns the pipeline every draw uses.
	PipelineKey() string

	// Release frees every mesh's GPU buffers and stops the worker pool. Safe to call more than once.
	Release()
}

var _ ShapeMeshes = &shapeMeshes{}

// NewShapeMeshes creates an empty ShapeMeshes drawing through r. Nothing is generated until a
// Load call.
//
// Parameters:
//   - r: uploads and draws the meshes, usually the renderer
//   - options: functional options to configure tessellation, pipeline and logging
//
// Returns:
//   - ShapeMeshes: the shape registry
func NewShapeMeshes(r MeshRenderer, options ...ShapeMeshesBuilderOption) ShapeMeshes {
	s := &shapeMeshes{
		mu:          &sync.Mutex{},
		r:           r,
		pipelineKey: DefaultPipelineKey,
		logger:      zap.NewNop(),
		segments:    mesh.DefaultSegments,
		stacks:      mesh.DefaultStacks,
		thickness:   mesh.DefaultThickness,
		topRadius:   mesh.DefaultTopRadius,
		topScale:    mesh.DefaultTopScale,
		tiers:       mesh.DefaultTiers,
		workers:     max(runtime.NumCPU()-1, 1),
		meshes:      make(map[Kind]*loadedMesh),
	}
	for _, option := range options {
		option(s)
	}
	s.pool = worker.NewDynamicWorkerPool(s.workers, int(kindCount), 1*time.Second)
	return s
}

// generatorOptions returns the tessellation options for one load. Caller must hold the mutex.
func (s *shapeMeshes) generatorOptions(thickness float32) []mesh.GeneratorOption {
	return []mesh.GeneratorOption{
		mesh.WithSegments(s.segments),
		mesh.WithStacks(s.stacks),
		mesh.WithThickness(thickness),
		mesh.WithTopRadius(s.topRadius),
		mesh.WithTopScale(s.topScale),
		mesh.WithTiers(s.tiers),
	}
}

// upload replaces the GPU buffers of kind with those of m. Caller must hold the mutex.
func (s *shapeMeshes) upload(kind Kind, m *mesh.Mesh) error {
	if prev, ok := s.meshes[kind]; ok {
		prev.provider.Release()
		delete(s.meshes, kind)
	}

	provider := bind_group_provider.NewBindGroupProvider("mesh:" + kind.String())
	if err := s.r.InitMeshBuffers(provider, m.VertexBytes(), m.IndexBytes(), uint32(m.IndexCount())); err != nil {
		provider.Release()
		return fmt.Errorf("upload %s: %w", kind, err)
	}
	s.meshes[kind] = &loadedMesh{mesh: m, provider: provider, radius: m.BoundingRadius()}

	s.logger.Debug("shape mesh loaded",
		zap.Stringer("kind", kind),
		zap.Int("vertices", m.VertexCount()),
		zap.Int("indices", m.IndexCount()),
		zap.Int("parts", len(m.Parts())),
	)
	return nil
}

func (s *shapeMeshes) load(kind Kind, thickness float32) error {
	if !kind.Valid() {
		return fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.released {
		return ErrReleased
	}

	m, err := Generate(kind, s.generatorOptions(thickness)...)
	if err != nil {
		return err
	}
	return s.upload(kind, m)
}

func (s *shapeMeshes) Load(kind Kind) error {
	return s.load(kind, s.torusThickness())
}

func (s *shapeMeshes) torusThickness() float32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.thickness
}

func (s *shapeMeshes) LoadBoxMesh() error             { return s.Load(KindBox) }
func (s *shapeMeshes) LoadBox2Mesh() error            { return s.Load(KindBox2) }
func (s *shapeMeshes) LoadConeMesh() error            { return s.Load(KindCone) }
func (s *shapeMeshes) LoadCylinderMesh() error        { return s.Load(KindCylinder) }
func (s *shapeMeshes) LoadPlaneMesh() error           { return s.Load(KindPlane) }
func (s *shapeMeshes) LoadPrismMesh() error           { return s.Load(KindPrism) }
func (s *shapeMeshes) LoadPyramid3Mesh() error        { return s.Load(KindPyramid3) }
func (s *shapeMeshes) LoadPyramid4Mesh() error        { return s.Load(KindPyramid4) }
func (s *shapeMeshes) LoadSphereMesh() error          { return s.Load(KindSphere) }
func (s *shapeMeshes) LoadTaperedCylinderMesh() error { return s.Load(KindTaperedCylinder) }
func (s *shapeMeshes) LoadZigMesh() error             { return s.Load(KindZig) }
func (s *shapeMeshes) LoadRampMesh() error            { return s.Load(KindRamp) }
func (s *shapeMeshes) LoadTestZigMesh() error         { return s.Load(KindTestZig) }

func (s *shapeMeshes) LoadTorusMesh(thickness float32) error {
	return s.load(KindTorus, thickness)
}

func (s *shapeMeshes) LoadAll(kinds ...Kind) error {
	if len(kinds) == 0 {
		kinds = Kinds()
	}
	var unique []Kind
	var errs []error
	for _, k := range kinds {
		if !k.Valid() {
			errs = append(errs, fmt.Errorf("%w: %s", ErrUnknownKind, k))
			continue
		}
		if !slices.Contains(unique, k) {
			unique = append(unique, k)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.released {
		return ErrReleased
	}

	start := time.Now()
	options := s.generatorOptions(s.thickness)
	generated := make([]*mesh.Mesh, len(unique))
	genErrs := make([]error, len(unique))

	// generation is pure CPU work; GPU uploads stay on the calling goroutine
	var wg sync.WaitGroup
	for i, kind := range unique {
		wg.Add(1)
		s.pool.SubmitTask(worker.Task{
			ID:      i,
			Payload: kind,
			Do: func() (any, error) {
				defer wg.Done()
				generated[i], genErrs[i] = Generate(kind, options...)
				return generated[i], genErrs[i]
			},
		})
	}
	wg.Wait()

	loaded := 0
	for i, kind := range unique {
		if genErrs[i] != nil {
			errs = append(errs, genErrs[i])
			continue
		}
		if err := s.upload(kind, generated[i]); err != nil {
			errs = append(errs, err)
			continue
		}
		loaded++
	}

	s.logger.Info("shape meshes loaded",
		zap.Int("loaded", loaded),
		zap.Int("requested", len(unique)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return errors.Join(errs...)
}

// ranges returns the index ranges a draw of parts covers, merged into the fewest spans.
func ranges(kind Kind, m *mesh.Mesh, parts Parts) []mesh.Range {
	var selected []mesh.Range
	add := func(p mesh.Part, enabled bool) {
		if !enabled {
			return
		}
		if r, ok := m.Part(p); ok {
			selected = append(selected, r)
		}
	}

	switch kind {
	case KindCone:
		add(mesh.PartSides, true)
		add(mesh.PartBottom, parts.Bottom)
	case KindCylinder, KindTaperedCylinder, KindZig, KindTestZig:
		add(mesh.PartBottom, parts.Bottom)
		add(mesh.PartSides, parts.Sides)
		add(mesh.PartTop, parts.Top)
	case KindSphere, KindTorus:
		if parts.Half {
			add(mesh.PartUpperHalf, true)
		} else {
			selected = append(selected, m.Full())
		}
	default:
		selected = append(selected, m.Full())
	}
	return mesh.MergeRanges(selected)
}

func (s *shapeMeshes) Draw(kind Kind, parts Parts, bindGroups ...bind_group_provider.BindGroupProvider) error {
	if !kind.Valid() {
		return fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.released {
		return ErrReleased
	}
	lm, ok := s.meshes[kind]
	if !ok {
		return fmt.Errorf("%w: %s", ErrMeshNotLoaded, kind)
	}

	for _, r := range ranges(kind, lm.mesh, parts) {
		if err := s.r.DrawCallRange(s.pipelineKey, lm.provider, r.FirstIndex, r.IndexCount, bindGroups); err != nil {
			return fmt.Errorf("draw %s: %w", kind, err)
		}
	}
	return nil
}

func (s *shapeMeshes) DrawBoxMesh(bindGroups ...bind_group_provider.BindGroupProvider) error {
	return s.Draw(KindBox, AllParts, bindGroups...)
}

func (s *shapeMeshes) DrawBox2Mesh(bindGroups ...bind_group_provider.BindGroupProvider) error {
	return s.Draw(KindBox2, AllParts, bindGroups...)
}

func (s *shapeMeshes) DrawConeMesh(drawBottom bool, bindGroups ...bind_group_provider.BindGroupProvider) error {
	return s.Draw(KindCone, Parts{Sides: true, Bottom: drawBottom}, bindGroups...)
}

func (s *shapeMeshes) DrawCylinderMesh(top, bottom, sides bool, bindGroups ...bind_group_provider.BindGroupProvider) error {
	return s.Draw(KindCylinder, Parts{Top: top, Bottom: bottom, Sides: sides}, bindGroups...)
}

func (s *shapeMeshes) DrawPlaneMesh(bindGroups ...bind_group_provider.BindGroupProvider) error {
	return s.Draw(KindPlane, AllParts, bindGroups...)
}

func (s *shapeMeshes) DrawPrismMesh(bindGroups ...bind_group_provider.BindGroupProvider) error {
	return s.Draw(KindPrism, AllParts, bindGroups...)
}

func (s *shapeMeshes) DrawPyramid3Mesh(bindGroups ...bind_group_provider.BindGroupProvider) error {
	return s.Draw(KindPyramid3, AllParts, bindGroups...)
}

func (s *shapeMeshes) DrawPyramid4Mesh(bindGroups ...bind_group_provider.BindGroupProvider) error {
	return s.Draw(KindPyramid4, AllParts, bindGroups...)
}

func (s *shapeMeshes) DrawSphereMesh(bindGroups ...bind_group_provider.BindGroupProvider) error {
	return s.Draw(KindSphere, AllParts, bindGroups...)
}

func (s *shapeMeshes) DrawHalfSphereMesh(bindGroups ...bind_group_provider.BindGroupProvider) error {
	return s.Draw(KindSphere, Parts{Half: true}, bindGroups...)
}

func (s *shapeMeshes) DrawTaperedCylinderMesh(top, bottom, sides bool, bindGroups ...bind_group_provider.BindGroupProvider) error {
	return s.Draw(KindTaperedCylinder, Parts{Top: top, Bottom: bottom, Sides: sides}, bindGroups...)
}

func (s *shapeMeshes) DrawTorusMesh(bindGroups ...bind_group_provider.BindGroupProvider) error {
	return s.Draw(KindTorus, AllParts, bindGroups...)
}

func (s *shapeMeshes) DrawHalfTorusMesh(bindGroups ...bind_group_provider.BindGroupProvider) error {
	return s.Draw(KindTorus, Parts{Half: true}, bindGroups...)
}

func (s *shapeMeshes) DrawZigMesh(bindGroups ...bind_group_provider.BindGroupProvider) error {
	return s.Draw(KindZig, AllParts, bindGroups...)
}

func (s *shapeMeshes) DrawRampMesh(bindGroups ...bind_group_provider.BindGroupProvider) error {
	return s.Draw(KindRamp, AllParts, bindGroups...)
}

func (s *shapeMeshes) DrawTestZigMesh(bindGroups ...bind_group_provider.BindGroupProvider) error {
	return s.Draw(KindTestZig, AllParts, bindGroups...)
}

func (s *shapeMeshes) Mesh(kind Kind) *mesh.Mesh {
	s.mu.Lock()
	defer s.mu.Unlock()
	if lm, ok := s.meshes[kind]; ok {
		return lm.mesh
	}
	return nil
}

func (s *shapeMeshes) Loaded(kind Kind) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.meshes[kind]
	return ok
}

func (s *shapeMeshes) BoundingRadius(kind Kind) (float32, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	lm, ok := s.meshes[kind]
	if !ok {
		return 0, false
	}
	return lm.radius, true
}

func (s *shapeMeshes) PipelineKey() string {
	return s.pipelineKey
}

func (s *shapeMeshes) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.released {
		return
	}
	s.released = true
	for kind, lm := range s.meshes {
		lm.provider.Release()
		delete(s.meshes, kind)
	}
	s.pool.Stop()
	s.logger.Debug("shape meshes released")
}
