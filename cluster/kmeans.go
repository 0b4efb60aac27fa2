// Package cluster groups CDH and LFH feature vectors into per-archive clusters using k-means (Lloyd's algorithm).
package cluster

import (
	"fmt"
	"math"
)

// DefaultMaxIterations is the default cap on Lloyd's algorithm iterations before the assigner returns whatever
// assignment it has converged to (or not) so far.
const DefaultMaxIterations = 100

// ClusterAssigner groups feature vectors into k clusters.
type ClusterAssigner struct {
	k             int
	maxIterations int
}

// New creates a ClusterAssigner for exactly k clusters. k is fixed by the caller (the accepted EOCD count) and is
// never inferred or adjusted by the assigner itself.
func New(k, maxIterations int) *ClusterAssigner {
	if maxIterations <= 0 {
		maxIterations = DefaultMaxIterations
	}
	return &ClusterAssigner{k: k, maxIterations: maxIterations}
}

// Assign runs Lloyd's algorithm over points and returns, for each point, the index of its assigned cluster in
// [0, k).
//
// Centroids are seeded from the first k points in order (data-point-seeded, not randomly sampled), so a given
// input always produces the same assignment. Ties in nearest-centroid distance are broken by the lowest cluster
// index.
func (a *ClusterAssigner) Assign(points []FeatureVector) ([]int, error) {
	if a.k <= 0 {
		return nil, fmt.Errorf("cluster: k must be positive, got %d", a.k)
	}
	if len(points) < a.k {
		return nil, fmt.Errorf("cluster: need at least k=%d points, got %d", a.k, len(points))
	}

	centroids := make([]FeatureVector, a.k)
	for i := 0; i < a.k; i++ {
		centroids[i] = cloneVector(points[i])
	}

	assignment := make([]int, len(points))

	for iter := 0; iter < a.maxIterations; iter++ {
		changed := false
		for i, p := range points {
			best := nearestCentroid(p, centroids)
			if assignment[i] != best {
				assignment[i] = best
				changed = true
			}
		}

		newCentroids := recomputeCentroids(points, assignment, a.k, centroids)
		centroids = newCentroids

		if !changed && iter > 0 {
			break
		}
	}

	return assignment, nil
}

func nearestCentroid(p FeatureVector, centroids []FeatureVector) int {
	best := 0
	bestDist := math.Inf(1)
	for i, c := range centroids {
		d := squaredDistance(p, c)
		if d < bestDist {
			bestDist = d
			best = i
		}
	}
	return best
}

func squaredDistance(a, b FeatureVector) float64 {
	var sum float64
	for i := range a {
		diff := a[i] - b[i]
		sum += diff * diff
	}
	return sum
}

// recomputeCentroids averages the points assigned to each cluster. A cluster with no assigned points keeps its
// previous centroid, since there's nothing to recompute from and the centroid must still exist for the next
// iteration's distance comparisons.
func recomputeCentroids(points []FeatureVector, assignment []int, k int, previous []FeatureVector) []FeatureVector {
	dims := len(points[0])
	sums := make([]FeatureVector, k)
	counts := make([]int, k)
	for i := range sums {
		sums[i] = make(FeatureVector, dims)
	}

	for i, p := range points {
		c := assignment[i]
		counts[c]++
		for d := 0; d < dims; d++ {
			sums[c][d] += p[d]
		}
	}

	out := make([]FeatureVector, k)
	for i := 0; i < k; i++ {
		if counts[i] == 0 {
			out[i] = cloneVector(previous[i])
			continue
		}
		avg := make(FeatureVector, dims)
		for d := 0; d < dims; d++ {
			avg[d] = sums[i][d] / float64(counts[i])
		}
		out[i] = avg
	}
	return out
}

func cloneVector(v FeatureVector) FeatureVector {
	out := make(FeatureVector, len(v))
	copy(out, v)
	return out
}
