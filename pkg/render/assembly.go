package render

import "iter"

// Triangles walks indices according to topo and yields each triangle's
// position in the primitive stream with its three vertex indices.
//
// For strips, every odd triangle has its second and third index swapped so
// all triangles share one winding. Triangles that reference the same vertex
// twice are skipped; their position is still consumed, so positions of the
// remaining triangles are stable.
func Triangles(indices []uint32, topo Topology) iter.Seq2[int, [3]uint32] {
	return func(yield func(int, [3]uint32) bool) {
		step, count := 3, len(indices)/3
		if topo == TriangleStrip {
			step, count = 1, max(len(indices)-2, 0)
		}

		for n := range count {
			i := n * step
			tri := [3]uint32{indices[i], indices[i+1], indices[i+2]}
			if topo == TriangleStrip && n%2 == 1 {
				tri[1], tri[2] = tri[2], tri[1]
			}
			if degenerate(tri) {
				continue
			}
			if !yield(n, tri) {
				return
			}
		}
	}
}

func degenerate(t [3]uint32) bool {
	return t[0] == t[1] || t[1] == t[2] || t[0] == t[2]
}
