// Package bvh implements a flat-array bounding volume hierarchy over an
// arbitrary set of bounded primitives, grounded on
// original_source/Scene/BVH.hpp's surface-area-heuristic build and
// stack-based near-child-first traversal.
//
// Unlike the source (templated on a surface type owning its own Bounds()
// and Raycast()), this BVH is decoupled from any primitive type: the
// caller supplies bounds up front and visits leaves through closures,
// so the same tree builds over scene entities or any other bounded item
// without a generic primitive interface forcing an import cycle.
package bvh

import (
	"sort"

	"github.com/arclight-render/arclight/pkg/core"
)

const bucketCount = 12
const leafThreshold = 4

// node is the flat node: a float64 bounds plus either a leaf's
// (firstPrim, primCount) pair or an interior node's (secondChild,
// splitAxis) pair, distinguished by interior. The bounds are not packed
// to float32, so a node is larger than 32 bytes.
type node struct {
	bounds       core.AABB
	firstOrChild uint32
	count        uint16 // leaf primitive count; unused for interior nodes
	splitAxis    uint8
	interior     bool
}

// BVH is a built, immutable acceleration structure. Primitive indices are
// reordered internally; Ordered() returns the permutation applied so a
// caller can re-order any parallel per-primitive data it owns.
type BVH struct {
	nodes   []node
	ordered []int // ordered[i] = original primitive index stored at leaf position i
}

type primInfo struct {
	index    int
	bounds   core.AABB
	centroid core.Vec3
}

// Build constructs a BVH over len(bounds) primitives, indexed 0..n-1, each
// with the given world-space bounds.
func Build(bounds []core.AABB) *BVH {
	infos := make([]primInfo, len(bounds))
	for i, b := range bounds {
		infos[i] = primInfo{index: i, bounds: b, centroid: b.Center()}
	}

	b := &BVH{}
	if len(infos) > 0 {
		b.build(infos, 0, len(infos))
	}
	return b
}

// Ordered returns the leaf-position -> original-index permutation chosen
// by the build; node.firstOrChild indexes into this same order.
func (b *BVH) Ordered() []int { return b.ordered }

func (b *BVH) build(infos []primInfo, begin, end int) uint32 {
	nodeBounds := infos[begin].bounds
	for i := begin + 1; i < end; i++ {
		nodeBounds = nodeBounds.Union(infos[i].bounds)
	}

	count := end - begin
	if count == 1 {
		return b.buildLeaf(infos, begin, end, nodeBounds)
	}
	return b.buildInterior(infos, begin, end, nodeBounds)
}

func (b *BVH) buildLeaf(infos []primInfo, begin, end int, bounds core.AABB) uint32 {
	first := uint32(len(b.ordered))
	for i := begin; i < end; i++ {
		b.ordered = append(b.ordered, infos[i].index)
	}

	index := uint32(len(b.nodes))
	b.nodes = append(b.nodes, node{
		bounds:       bounds,
		firstOrChild: first,
		count:        uint16(end - begin),
		interior:     false,
	})
	return index
}

func (b *BVH) buildInterior(infos []primInfo, begin, end int, bounds core.AABB) uint32 {
	centroidBounds := core.NewAABB(infos[begin].centroid, infos[begin].centroid)
	for i := begin + 1; i < end; i++ {
		c := infos[i].centroid
		centroidBounds = centroidBounds.Union(core.NewAABB(c, c))
	}

	splitAxis := centroidBounds.LongestAxis()
	axisLength := centroidBounds.Size().Component(splitAxis)
	if axisLength == 0 {
		return b.buildLeaf(infos, begin, end, bounds)
	}

	count := end - begin
	middle := begin + count/2

	if count <= leafThreshold {
		sub := infos[begin:end]
		sort.Slice(sub, func(i, j int) bool {
			return sub[i].centroid.Component(splitAxis) < sub[j].centroid.Component(splitAxis)
		})
	} else {
		ok := false
		middle, ok = sahPartition(infos, begin, end, bounds, centroidBounds, splitAxis, axisLength)
		if !ok {
			return b.buildLeaf(infos, begin, end, bounds)
		}
	}

	index := uint32(len(b.nodes))
	b.nodes = append(b.nodes, node{}) // placeholder, patched below

	b.build(infos, begin, middle)
	rightChild := b.build(infos, middle, end)

	b.nodes[index] = node{
		bounds:       bounds,
		firstOrChild: rightChild,
		splitAxis:    uint8(splitAxis),
		interior:     true,
	}
	return index
}

type bucketInfo struct {
	count  int
	bounds core.AABB
	valid  bool
}

func unionBucket(a bucketInfo, bd core.AABB) bucketInfo {
	if !a.valid {
		return bucketInfo{count: a.count + 1, bounds: bd, valid: true}
	}
	return bucketInfo{count: a.count + 1, bounds: a.bounds.Union(bd), valid: true}
}

// sahPartition buckets primitives by centroid position along splitAxis and
// partitions at the bucket boundary with lowest surface-area-heuristic
// cost, falling back to "ok=false" (caller makes a leaf) when a leaf is
// cheaper than any split.
func sahPartition(infos []primInfo, begin, end int, bounds, centroidBounds core.AABB, splitAxis int, axisLength float64) (middle int, ok bool) {
	var buckets [bucketCount]bucketInfo

	bucketOf := func(p primInfo) int {
		offset := (p.centroid.Component(splitAxis) - centroidBounds.Min.Component(splitAxis)) / axisLength
		idx := int(offset * bucketCount)
		if idx >= bucketCount {
			idx = bucketCount - 1
		}
		if idx < 0 {
			idx = 0
		}
		return idx
	}

	for i := begin; i < end; i++ {
		bi := bucketOf(infos[i])
		buckets[bi] = unionBucket(buckets[bi], infos[i].bounds)
	}

	var costs [bucketCount - 1]float64
	for i := 0; i < bucketCount-1; i++ {
		var b0, b1 bucketInfo
		for j := 0; j <= i; j++ {
			if buckets[j].valid {
				b0 = unionBucketFull(b0, buckets[j])
			}
		}
		for j := i + 1; j < bucketCount; j++ {
			if buckets[j].valid {
				b1 = unionBucketFull(b1, buckets[j])
			}
		}

		area := bounds.SurfaceArea()
		cost := 0.125
		if area > 0 {
			cost += (float64(b0.count)*areaOf(b0) + float64(b1.count)*areaOf(b1)) / area
		}
		costs[i] = cost
	}

	minCost := costs[0]
	minIndex := 0
	for i := 1; i < bucketCount-1; i++ {
		if costs[i] < minCost {
			minCost = costs[i]
			minIndex = i
		}
	}

	leafCost := float64(end - begin)
	if minCost >= leafCost {
		return 0, false
	}

	partitionPoint := centroidBounds.Min.Component(splitAxis) + axisLength/bucketCount*float64(minIndex+1)
	sub := infos[begin:end]
	mid := partitionAt(sub, splitAxis, partitionPoint)
	return begin + mid, true
}

func unionBucketFull(a, b bucketInfo) bucketInfo {
	if !a.valid {
		return b
	}
	return bucketInfo{count: a.count + b.count, bounds: a.bounds.Union(b.bounds), valid: true}
}

func areaOf(b bucketInfo) float64 {
	if !b.valid {
		return 0
	}
	return b.bounds.SurfaceArea()
}

// partitionAt reorders sub in place so every element with a centroid below
// partitionPoint on splitAxis comes first, returning the split count
// (single forward scan, like std::partition). If every element lands on
// one side, it returns len(sub)/2 instead so both halves are non-empty.
func partitionAt(sub []primInfo, splitAxis int, partitionPoint float64) int {
	i := 0
	for j := 0; j < len(sub); j++ {
		if sub[j].centroid.Component(splitAxis) < partitionPoint {
			sub[i], sub[j] = sub[j], sub[i]
			i++
		}
	}
	if i == 0 || i == len(sub) {
		i = len(sub) / 2
	}
	return i
}

// Visit walks the tree for a ray, calling onLeaf for every leaf whose
// bounds the ray may intersect, in near-to-far traversal order along the
// split axis. onLeaf receives the leaf's ordered-index range [lo, hi) into
// Ordered() and returns the (possibly tightened) tMax to continue with.
func (b *BVH) Visit(ray core.Ray, tMax float64, onLeaf func(lo, hi int, tMax float64) float64) {
	if len(b.nodes) == 0 {
		return
	}

	invDir := core.NewVec3(1/ray.Direction.X, 1/ray.Direction.Y, 1/ray.Direction.Z)
	var signs [3]int
	if invDir.X < 0 {
		signs[0] = 1
	}
	if invDir.Y < 0 {
		signs[1] = 1
	}
	if invDir.Z < 0 {
		signs[2] = 1
	}
	negDir := [3]bool{signs[0] == 1, signs[1] == 1, signs[2] == 1}

	var stack [64]uint32
	stack[0] = 0
	stackSize := 1

	for stackSize > 0 {
		stackSize--
		nodeIndex := stack[stackSize]
		n := b.nodes[nodeIndex]

		if !n.bounds.HitSlab(ray.Origin, invDir, signs, 1e-9, tMax) {
			continue
		}

		if !n.interior {
			tMax = onLeaf(int(n.firstOrChild), int(n.firstOrChild)+int(n.count), tMax)
			continue
		}

		// The left child of an interior node always occupies nodeIndex+1 by
		// construction (build() recurses left immediately after reserving
		// the interior slot); firstOrChild holds the right child's index.
		firstChild := nodeIndex + 1
		secondChild := n.firstOrChild

		if negDir[n.splitAxis] {
			stack[stackSize] = firstChild
			stackSize++
			stack[stackSize] = secondChild
			stackSize++
		} else {
			stack[stackSize] = secondChild
			stackSize++
			stack[stackSize] = firstChild
			stackSize++
		}
	}
}

// Bounds returns the root node's bounds, or a zero AABB for an empty tree.
func (b *BVH) Bounds() core.AABB {
	if len(b.nodes) == 0 {
		return core.AABB{}
	}
	return b.nodes[0].bounds
}
