package renderer

import (
	"errors"
	"sync"
	"testing"

	"github.com/Carmen-Shannon/oxy-shapes/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-shapes/engine/renderer/pipeline"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type drawRecord struct {
	pipelineKey string
	firstIndex  uint32
	indexCount  uint32
	instances   uint32
	groups      int
}

type fakeBackend struct {
	configured  [][2]int
	registered  []string
	registerErr error
	draws       []drawRecord
	writes      int
	clearColor  wgpu.Color
	presentMode PresentMode
	released    int
}

var _ RendererBackend = &fakeBackend{}

func (f *fakeBackend) ConfigureSurface(width, height int) {
	f.configured = append(f.configured, [2]int{width, height})
}
func (f *fakeBackend) SetPresentMode(mode PresentMode) { f.presentMode = mode }
func (f *fakeBackend) SetClearColor(color wgpu.Color) { f.clearColor = color }
func (f *fakeBackend) RegisterRenderPipeline(p pipeline.Pipeline) error {
	if f.registerErr != nil {
		return f.registerErr
	}
	f.registered = append(f.registered, p.PipelineKey())
	return nil
}
func (f *fakeBackend) InitMeshBuffers(bind_group_provider.BindGroupProvider, []byte, []byte, uint32) error {
	return nil
}
func (f *fakeBackend) InitBindGroup(bind_group_provider.BindGroupProvider, wgpu.BindGroupLayoutDescriptor, map[int]uint64) error {
	return nil
}
func (f *fakeBackend) WriteBuffers(writes []bind_group_provider.BufferWrite) { f.writes += len(writes) }
func (f *fakeBackend) BeginFrame() error                                   { return nil }
func (f *fakeBackend) DrawIndexed(p pipeline.Pipeline, _ bind_group_provider.BindGroupProvider, firstIndex, indexCount, instanceCount uint32, bindGroups []bind_group_provider.BindGroupProvider) error {
	f.draws = append(f.draws, drawRecord{p.PipelineKey(), firstIndex, indexCount, instanceCount, len(bindGroups)})
	return nil
}
func (f *fakeBackend) EndFrame() {}
func (f *fakeBackend) Present()  {}
func (f *fakeBackend) Release()  { f.released++ }

// readyMesh reports GPU buffers without owning any.
type readyMesh struct {
	bind_group_provider.BindGroupProvider
	count uint32
}

func (m readyMesh) HasMesh() bool      { return true }
func (m readyMesh) IndexCount() uint32 { return m.count }

func newTestRenderer(backend *fakeBackend) *renderer {
	return &renderer{
		mu:            &sync.Mutex{},
		pipelineCache: make(map[string]pipeline.Pipeline),
		backend:       backend,
		logger:        zap.NewNop(),
	}
}

func TestResizeIgnoresMinimizedWindow(t *testing.T) {
	backend := &fakeBackend{}
	r := newTestRenderer(backend)

	r.Resize(0, 600)
	r.Resize(800, 0)
	r.Resize(800, 600)

	assert.Equal(t, [][2]int{{800, 600}}, backend.configured)
}

func TestRegisterPipelines(t *testing.T) {
	backend := &fakeBackend{}
	r := newTestRenderer(backend)

	require.NoError(t, r.RegisterPipelines(pipeline.NewPipeline("lambert"), pipeline.NewPipeline("lambert"), pipeline.NewPipeline("wire")))
	assert.Equal(t, []string{"lambert", "wire"}, backend.registered)
	assert.NotNil(t, r.Pipeline("wire"))
	assert.Nil(t, r.Pipeline("missing"))

	snapshot := r.Pipelines()
	delete(snapshot, "wire")
	assert.Len(t, r.Pipelines(), 2, "snapshot is a copy")

	backend.registerErr = errors.New("bad shader")
	err := r.RegisterPipelines(pipeline.NewPipeline("broken"))
	require.Error(t, err)
	assert.ErrorIs(t, err, backend.registerErr)
	assert.Contains(t, err.Error(), `"broken"`)
	assert.Nil(t, r.Pipeline("broken"))
}

func TestDrawCallRange(t *testing.T) {
	backend := &fakeBackend{}
	r := newTestRenderer(backend)
	require.NoError(t, r.RegisterPipelines(pipeline.NewPipeline("lambert")))

	mesh := readyMesh{BindGroupProvider: bind_group_provider.NewBindGroupProvider("mesh:box"), count: 36}
	camera := bind_group_provider.NewBindGroupProvider("camera")

	tests := []struct {
		name        string
		pipelineKey string
		mesh        bind_group_provider.BindGroupProvider
		first       uint32
		count       uint32
		wantErr     error
	}{
		{"unknown pipeline", "missing", mesh, 0, 6, ErrPipelineNotFound},
		{"mesh without buffers", "lambert", bind_group_provider.NewBindGroupProvider("empty"), 0, 6, ErrMeshNotReady},
		{"nil mesh", "lambert", nil, 0, 6, ErrMeshNotReady},
		{"past the end", "lambert", mesh, 30, 12, ErrIndexRange},
		{"last face", "lambert", mesh, 30, 6, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := r.DrawCallRange(tt.pipelineKey, tt.mesh, tt.first, tt.count, []bind_group_provider.BindGroupProvider{camera})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}

	require.Len(t, backend.draws, 1)
	assert.Equal(t, drawRecord{"lambert", 30, 6, 1, 1}, backend.draws[0])
}

func TestDrawCallRangeZeroCountDrawsNothing(t *testing.T) {
	backend := &fakeBackend{}
	r := newTestRenderer(backend)
	require.NoError(t, r.RegisterPipelines(pipeline.NewPipeline("lambert")))
	mesh := readyMesh{BindGroupProvider: bind_group_provider.NewBindGroupProvider("mesh:cone"), count: 12}

	require.NoError(t, r.DrawCallRange("lambert", mesh, 12, 0, nil))
	assert.Empty(t, backend.draws)
}

func TestDrawCallUsesWholeBuffer(t *testing.T) {
	backend := &fakeBackend{}
	r := newTestRenderer(backend)
	require.NoError(t, r.RegisterPipelines(pipeline.NewPipeline("lambert")))
	mesh := readyMesh{BindGroupProvider: bind_group_provider.NewBindGroupProvider("mesh:sphere"), count: 96}

	require.NoError(t, r.DrawCall("lambert", mesh, 3, nil))
	assert.Equal(t, []drawRecord{{"lambert", 0, 96, 3, 0}}, backend.draws)
}

func TestInitMeshBuffersValidatesData(t *testing.T) {
	r := newTestRenderer(&fakeBackend{})
	p := bind_group_provider.NewBindGroupProvider("mesh:box")

	assert.Error(t, r.InitMeshBuffers(p, nil, []byte{0, 0, 0, 0}, 1))
	assert.ErrorIs(t, r.InitMeshBuffers(p, make([]byte, 32), make([]byte, 8), 3), ErrIndexRange)
	assert.NoError(t, r.InitMeshBuffers(p, make([]byte, 32), make([]byte, 12), 3))
}

func TestWriteBuffersSkipsEmptyBatch(t *testing.T) {
	backend := &fakeBackend{}
	r := newTestRenderer(backend)

	r.WriteBuffers(nil)
	r.WriteBuffers([]bind_group_provider.BufferWrite{{Binding: 0, Data: []byte{1}}})
	assert.Equal(t, 1, backend.writes)
}

func TestSetClearColorAndPresentMode(t *testing.T) {
	backend := &fakeBackend{}
	r := newTestRenderer(backend)

	r.SetClearColor(0.2, 0.3, 0.4, 1)
	r.SetPresentMode(PresentModeVSync)
	assert.Equal(t, wgpu.Color{R: 0.2, G: 0.3, B: 0.4, A: 1}, backend.clearColor)
	assert.Equal(t, PresentModeVSync, backend.presentMode)
	assert.Equal(t, "vsync", PresentModeVSync.String())
	assert.Equal(t, "uncapped", PresentModeUncapped.String())
}

func TestReleaseIsIdempotent(t *testing.T) {
	backend := &fakeBackend{}
	r := newTestRenderer(backend)
	require.NoError(t, r.RegisterPipelines(pipeline.NewPipeline("lambert")))

	r.Release()
	r.Release()

	assert.Equal(t, 1, backend.released)
	assert.Empty(t, r.Pipelines())
	assert.ErrorIs(t, r.BeginFrame(), ErrReleased)
	assert.ErrorIs(t, r.RegisterPipelines(pipeline.NewPipeline("late")), ErrReleased)
	mesh := readyMesh{BindGroupProvider: bind_group_provider.NewBindGroupProvider("mesh:box"), count: 6}
	assert.ErrorIs(t, r.DrawCallRange("lambert", mesh, 0, 6, nil), ErrReleased)
	assert.ErrorIs(t, r.InitMeshBuffers(mesh, []byte{1}, []byte{1, 0, 0, 0}, 1), ErrReleased)
}

func TestMSAASampleCountValid(t *testing.T) {
	assert.True(t, MSAA4x.Valid())
	assert.True(t, MSAAOff.Valid())
	assert.False(t, MSAASampleCount(3).Valid())
}
