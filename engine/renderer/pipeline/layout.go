package pipeline

import (
	"sort"

	"github.com/cogentcore/webgpu/wgpu"
)

// mergeBindGroupLayouts combines per-stage layouts into the layouts of one render pipeline.
// Entries sharing a group and binding have their visibility ORed; the result is sorted by binding.
//
// Parameters:
//   - vertexLayouts: bind group layout descriptors from the vertex shader
//   - fragmentLayouts: bind group layout descriptors from the fragment shader
//
// Returns:
//   - map[int]wgpu.BindGroupLayoutDescriptor: the merged descriptors keyed by group index
func mergeBindGroupLayouts(vertexLayouts, fragmentLayouts map[int]wgpu.BindGroupLayoutDescriptor) map[int]wgpu.BindGroupLayoutDescriptor {
	byGroup := make(map[int]map[uint32]wgpu.BindGroupLayoutEntry)
	add := func(layouts map[int]wgpu.BindGroupLayoutDescriptor) {
		for g, desc := range layouts {
			if byGroup[g] == nil {
				byGroup[g] = make(map[uint32]wgpu.BindGroupLayoutEntry)
			}
			for _, e := range desc.Entries {
				if existing, ok := byGroup[g][e.Binding]; ok {
					existing.Visibility |= e.Visibility
					byGroup[g][e.Binding] = existing
				} else {
					byGroup[g][e.Binding] = e
				}
			}
		}
	}
	add(vertexLayouts)
	add(fragmentLayouts)

	merged := make(map[int]wgpu.BindGroupLayoutDescriptor, len(byGroup))
	for g, entryMap := range byGroup {
		entries := make([]wgpu.BindGroupLayoutEntry, 0, len(entryMap))
		for _, e := range entryMap {
			entries = append(entries, e)
		}
		sort.Slice(entries, func(i, j int) bool { return entries[i].Binding < entries[j].Binding })
		merged[g] = wgpu.BindGroupLayoutDescriptor{Entries: entries}
	}
	return merged
}

// MaxGroup returns the highest group index in layouts, or -1 when it is empty.
func MaxGroup(layouts map[int]wgpu.BindGroupLayoutDescriptor) int {
	maxGroup := -1
	for g := range layouts {
		maxGroup = max(maxGroup, g)
	}
	return maxGroup
}
