package scene

import (
	"errors"
	"sync"
	"testing"

	"github.com/Carmen-Shannon/oxy-shapes/engine/camera"
	"github.com/Carmen-Shannon/oxy-shapes/engine/game_object"
	"github.com/Carmen-Shannon/oxy-shapes/engine/renderer"
	"github.com/Carmen-Shannon/oxy-shapes/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-shapes/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-shapes/engine/shapes"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type drawRecord struct {
	pipelineKey string
	mesh        string
	groups      []string
}

// fakeRenderer implements the renderer calls a scene makes. Methods the scene never calls
// fall through to the nil embedded interface.
type fakeRenderer struct {
	renderer.Renderer

	mu          sync.Mutex
	pipelines   map[string]pipeline.Pipeline
	registered  int
	bindGroups  map[string]wgpu.BindGroupLayoutDescriptor
	uploads     []string
	writes      [][]bind_group_provider.BufferWrite
	draws       []drawRecord
	initErr     error
	initErrFor  string
	drawErr     error
	registerErr error
	uploadErr   error
	uploadFor   string
}

func newFakeRenderer() *fakeRenderer {
	return &fakeRenderer{
		pipelines:  make(map[string]pipeline.Pipeline),
		bindGroups: make(map[string]wgpu.BindGroupLayoutDescriptor),
	}
}

func (f *fakeRenderer) Pipeline(key string) pipeline.Pipeline {
	return f.pipelines[key]
}

func (f *fakeRenderer) RegisterPipelines(pipelines ...pipeline.Pipeline) error {
	if f.registerErr != nil {
		return f.registerErr
	}
	for _, p := range pipelines {
		f.pipelines[p.PipelineKey()] = p
		f.registered++
	}
	return nil
}

func (f *fakeRenderer) InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor, _ map[int]uint64) error {
	if f.initErr != nil && provider.Label() == f.initErrFor {
		return f.initErr
	}
	f.bindGroups[provider.Label()] = descriptor
	return nil
}

func (f *fakeRenderer) InitMeshBuffers(provider bind_group_provider.BindGroupProvider, _, _ []byte, indexCount uint32) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.uploadErr != nil && provider.Label() == f.uploadFor {
		return f.uploadErr
	}
	f.uploads = append(f.uploads, provider.Label())
	provider.SetIndexBuffer(nil, indexCount)
	return nil
}

func (f *fakeRenderer) WriteBuffers(writes []bind_group_provider.BufferWrite) {
	f.writes = append(f.writes, writes)
}

func (f *fakeRenderer) DrawCallRange(pipelineKey string, meshProvider bind_group_provider.BindGroupProvider, _, _ uint32, bindGroups []bind_group_provider.BindGroupProvider) error {
	if f.drawErr != nil {
		return f.drawErr
	}
	var labels []string
	for _, bg := range bindGroups {
		labels = append(labels, bg.Label())
	}
	f.draws = append(f.draws, drawRecord{pipelineKey, meshProvider.Label(), labels})
	return nil
}

func testCamera() camera.Camera {
	return camera.NewCamera(
		camera.WithAspect(1),
		camera.WithController(camera.NewCameraController()),
	)
}

func newTestScene(t *testing.T, r *fakeRenderer, options ...SceneBuilderOption) Scene {
	t.Helper()
	opts := append([]SceneBuilderOption{
		WithWorkers(2),
		WithShapeOptions(shapes.WithSegments(8), shapes.WithStacks(4), shapes.WithWorkers(1)),
	}, options...)
	s, err := NewScene("test", testCamera(), r, opts...)
	require.NoError(t, err)
	t.Cleanup(s.Release)
	return s
}

func TestNewSceneRegistersShapePipeline(t *testing.T) {
	r := newFakeRenderer()
	s := newTestScene(t, r)

	assert.Equal(t, "test", s.Name())
	assert.False(t, s.Active())
	assert.Equal(t, shapes.DefaultPipelineKey, s.PipelineKey())
	require.Contains(t, r.pipelines, shapes.DefaultPipelineKey)
	assert.Equal(t, shapes.DefaultPipelineKey, s.Shapes().PipelineKey())

	camLayout, ok := r.bindGroups[s.Camera().BindGroupProvider().Label()]
	require.True(t, ok, "camera bind group is initialized")
	require.Len(t, camLayout.Entries, 1)
	assert.Equal(t, uint64(camera.GPUCameraUniformSize), camLayout.Entries[0].Buffer.MinBindingSize)
	assert.Equal(t, wgpu.ShaderStageVertex, camLayout.Entries[0].Visibility)
}

func TestNewSceneReusesRegisteredPipeline(t *testing.T) {
	r := newFakeRenderer()
	newTestScene(t, r)
	newTestScene(t, r, WithActive(true))
	assert.Equal(t, 1, r.registered)

	newTestScene(t, r, WithPipelineKey("shape_alt"))
	assert.Equal(t, 2, r.registered)
	assert.Contains(t, r.pipelines, "shape_alt")
}

func TestNewSceneErrors(t *testing.T) {
	assert.Panics(t, func() { _, _ = NewScene("x", nil, newFakeRenderer()) })
	assert.Panics(t, func() { _, _ = NewScene("x", testCamera(), nil) })

	r := newFakeRenderer()
	r.registerErr = errors.New("no device")
	_, err := NewScene("x", testCamera(), r)
	assert.ErrorContains(t, err, "register shape pipeline")

	r = newFakeRenderer()
	obj := game_object.NewGameObject()
	r.initErr = errors.New("out of memory")
	r.initErrFor = obj.BindGroupProvider().Label()
	_, err = NewScene("x", testCamera(), r, WithObjects(obj))
	assert.ErrorIs(t, err, r.initErr)
}

func TestWithObjectsAddsOnCreation(t *testing.T) {
	r := newFakeRenderer()
	a := game_object.NewGameObject(game_object.WithKind(shapes.KindSphere))
	b := game_object.NewGameObject(game_object.WithKind(shapes.KindTorus))
	s := newTestScene(t, r, WithObjects(a, nil, b))

	assert.Equal(t, 2, s.Count())
	assert.Equal(t, uint64(1), a.ID())
	assert.Equal(t, uint64(2), b.ID())
	assert.True(t, s.Shapes().Loaded(shapes.KindSphere))
	assert.True(t, s.Shapes().Loaded(shapes.KindTorus))
}

func TestAddAssignsIDsAndInitializesObject(t *testing.T) {
	r := newFakeRenderer()
	s := newTestScene(t, r)

	box := game_object.NewGameObject()
	cone := game_object.NewGameObject(game_object.WithKind(shapes.KindCone))

	id, err := s.Add(box)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), id)
	id, err = s.Add(cone)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), id)

	again, err := s.Add(box)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), again, "re-adding keeps the ID")
	assert.Equal(t, 2, s.Count())

	assert.ElementsMatch(t, []string{"mesh:box", "mesh:cone"}, r.uploads, "each kind is uploaded once")
	objLayout, ok := r.bindGroups[box.BindGroupProvider().Label()]
	require.True(t, ok)
	require.Len(t, objLayout.Entries, 1)
	assert.Equal(t, uint64(game_object.GPUObjectUniformSize), objLayout.Entries[0].Buffer.MinBindingSize)
	assert.Equal(t, wgpu.ShaderStageVertex|wgpu.ShaderStageFragment, objLayout.Entries[0].Visibility)

	assert.Same(t, cone, s.Get(2))
	assert.Nil(t, s.Get(99))
	assert.Equal(t, []game_object.GameObject{box, cone}, s.Objects())

	_, err = s.Add(nil)
	assert.ErrorIs(t, err, ErrNilObject)
}

func TestRemoveReleasesObject(t *testing.T) {
	s := newTestScene(t, newFakeRenderer())
	obj := game_object.NewGameObject()
	id, err := s.Add(obj)
	require.NoError(t, err)

	assert.True(t, s.Remove(id))
	assert.True(t, obj.BindGroupProvider().Released())
	assert.False(t, s.Remove(id))
	assert.Zero(t, s.Count())

	_, err = s.Add(obj)
	assert.ErrorContains(t, err, "released")
}

func TestClearReleasesEverything(t *testing.T) {
	s := newTestScene(t, newFakeRenderer())
	a := game_object.NewGameObject()
	b := game_object.NewGameObject()
	for _, obj := range []game_object.GameObject{a, b} {
		_, err := s.Add(obj)
		require.NoError(t, err)
	}

	s.Clear()
	assert.Zero(t, s.Count())
	assert.True(t, a.BindGroupProvider().Released())
	assert.True(t, b.BindGroupProvider().Released())
}

func TestUpdateAnimatesEnabledObjects(t *testing.T) {
	s := newTestScene(t, newFakeRenderer())
	spinning := game_object.NewGameObject(game_object.WithRotationSpeed(0, 1, 0))
	frozen := game_object.NewGameObject(game_object.WithRotationSpeed(0, 1, 0), game_object.WithEnabled(false))
	for _, obj := range []game_object.GameObject{spinning, frozen} {
		_, err := s.Add(obj)
		require.NoError(t, err)
	}

	s.Update(0.5)
	_, ry, _ := spinning.Rotation()
	assert.InDelta(t, 0.5, ry, 1e-6)
	_, ry, _ = frozen.Rotation()
	assert.Zero(t, ry)
}

func TestDrawCallsCullsAndBatchesWrites(t *testing.T) {
	r := newFakeRenderer()
	s := newTestScene(t, r)

	visible := game_object.NewGameObject()
	offscreen := game_object.NewGameObject(game_object.WithKind(shapes.KindSphere), game_object.WithPosition(-100, 0, 0))
	disabled := game_object.NewGameObject(game_object.WithKind(shapes.KindCylinder), game_object.WithEnabled(false))
	for _, obj := range []game_object.GameObject{visible, offscreen, disabled} {
		_, err := s.Add(obj)
		require.NoError(t, err)
	}

	require.NoError(t, s.DrawCalls())

	require.Len(t, r.writes, 1, "uniforms are written in one batch")
	batch := r.writes[0]
	require.Len(t, batch, 2)
	assert.Same(t, s.Camera().BindGroupProvider(), batch[0].Provider)
	assert.Len(t, batch[0].Data, camera.GPUCameraUniformSize)
	assert.Same(t, visible.BindGroupProvider(), batch[1].Provider)
	u := visible.Uniform()
	assert.Equal(t, u.Marshal(), batch[1].Data)

	require.Len(t, r.draws, 1)
	assert.Equal(t, shapes.DefaultPipelineKey, r.draws[0].pipelineKey)
	assert.Equal(t, "mesh:box", r.draws[0].mesh)
	assert.Equal(t, []string{
		s.Camera().BindGroupProvider().Label(),
		visible.BindGroupProvider().Label(),
	}, r.draws[0].groups, "bind groups follow their group index")

	assert.Equal(t, DrawStats{Objects: 3, Disabled: 1, Culled: 1, Drawn: 1}, s.Stats())
}

func TestDrawCallsWithCullingDisabled(t *testing.T) {
	r := newFakeRenderer()
	s := newTestScene(t, r, WithCullingDisabled(true))
	assert.True(t, s.CullingDisabled())

	_, err := s.Add(game_object.NewGameObject(game_object.WithPosition(0, 0, 500)))
	require.NoError(t, err)
	require.NoError(t, s.DrawCalls())
	assert.Len(t, r.draws, 1)

	s.SetCullingDisabled(false)
	require.NoError(t, s.DrawCalls())
	assert.Len(t, r.draws, 1, "object beyond the far plane is culled")
	assert.Equal(t, 1, s.Stats().Culled)
}

func TestDrawCallsDrawsEveryObjectAcrossWorkers(t *testing.T) {
	r := newFakeRenderer()
	s := newTestScene(t, r, WithWorkers(4))

	const n = 50
	for i := range n {
		obj := game_object.NewGameObject(game_object.WithPosition(float32(i%5)*0.2, 0, 0))
		_, err := s.Add(obj)
		require.NoError(t, err)
	}

	require.NoError(t, s.DrawCalls())
	require.Len(t, r.writes, 1)
	assert.Len(t, r.writes[0], n+1)
	assert.Len(t, r.draws, n)
	assert.Equal(t, n, s.Stats().Drawn)
}

func TestDrawCallsLoadsChangedKinds(t *testing.T) {
	r := newFakeRenderer()
	s := newTestScene(t, r)
	obj := game_object.NewGameObject()
	_, err := s.Add(obj)
	require.NoError(t, err)

	obj.SetKind(shapes.KindPyramid4)
	require.NoError(t, s.DrawCalls())
	assert.True(t, s.Shapes().Loaded(shapes.KindPyramid4))
	require.Len(t, r.draws, 1)
	assert.Equal(t, "mesh:pyramid4", r.draws[0].mesh)
}

func TestDrawCallsCountsMissingMeshes(t *testing.T) {
	r := newFakeRenderer()
	s := newTestScene(t, r)
	box := game_object.NewGameObject()
	broken := game_object.NewGameObject()
	disabled := game_object.NewGameObject(game_object.WithEnabled(false))
	for _, obj := range []game_object.GameObject{box, broken, disabled} {
		_, err := s.Add(obj)
		require.NoError(t, err)
	}

	r.uploadErr = errors.New("out of memory")
	r.uploadFor = "mesh:torus"
	broken.SetKind(shapes.KindTorus)

	err := s.DrawCalls()
	require.ErrorIs(t, err, r.uploadErr)
	assert.ErrorContains(t, err, "object 2")
	assert.Equal(t, DrawStats{Objects: 3, Disabled: 1, Missing: 1, Drawn: 1}, s.Stats())
	require.Len(t, r.draws, 1)
	assert.Equal(t, "mesh:box", r.draws[0].mesh)
}

func TestDrawCallsJoinsDrawErrors(t *testing.T) {
	r := newFakeRenderer()
	s := newTestScene(t, r)
	for range 2 {
		_, err := s.Add(game_object.NewGameObject())
		require.NoError(t, err)
	}

	r.drawErr = errors.New("device lost")
	err := s.DrawCalls()
	require.Error(t, err)
	assert.ErrorIs(t, err, r.drawErr)
	assert.ErrorContains(t, err, "object 1")
	assert.ErrorContains(t, err, "object 2")
	assert.Zero(t, s.Stats().Drawn)
}

func TestReleaseIsIdempotent(t *testing.T) {
	r := newFakeRenderer()
	shared := shapes.NewShapeMeshes(r, shapes.WithWorkers(1))
	defer shared.Release()

	s, err := NewScene("borrowed", testCamera(), r, WithShapeMeshes(shared))
	require.NoError(t, err)
	obj := game_object.NewGameObject()
	_, err = s.Add(obj)
	require.NoError(t, err)

	s.Release()
	s.Release()

	assert.True(t, obj.BindGroupProvider().Released())
	assert.True(t, s.Camera().BindGroupProvider().Released())
	assert.True(t, shared.Loaded(shapes.KindBox), "borrowed meshes survive the scene")
	assert.ErrorIs(t, s.DrawCalls(), ErrReleased)
	_, err = s.Add(game_object.NewGameObject())
	assert.ErrorIs(t, err, ErrReleased)
}

func TestSetters(t *testing.T) {
	s := newTestScene(t, newFakeRenderer())
	s.SetName("renamed")
	s.SetActive(true)
	assert.Equal(t, "renamed", s.Name())
	assert.True(t, s.Active())
	assert.NotNil(t, s.Renderer())
}
