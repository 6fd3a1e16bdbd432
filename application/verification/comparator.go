package verification

import (
	"math"

	"campuspass.io/entities"
)

// ScoringPolicy selects how two descriptors are reduced to a similarity.
type ScoringPolicy string

const (
	// ScoreCosine rescales the cosine of the angle between the vectors
	// from [-1,1] to [0,1].
	ScoreCosine ScoringPolicy = "cosine"
	// ScoreEuclidean maps Euclidean distance to max(0, 1-distance).
	ScoreEuclidean ScoringPolicy = "euclidean"
)

// Similarity scores two descriptors in [0,1], higher meaning more similar.
// Returns 0 when either descriptor is absent or the lengths differ. Pure;
// inputs are never mutated.
func Similarity(a, b entities.FaceDescriptor, policy ScoringPolicy) float64 {
	if len(a) == 0 || len(b) == 0 || len(a) != len(b) {
		return 0
	}
	switch policy {
	case ScoreEuclidean:
		return euclideanSimilarity(a, b)
	default:
		return cosineSimilarity(a, b)
	}
}

func cosineSimilarity(a, b entities.FaceDescriptor) float64 {
	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}

	cos := dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
	// Clamp against floating point drift
	if cos > 1.0 {
		cos = 1.0
	}
	if cos < -1.0 {
		cos = -1.0
	}

	return (cos + 1) / 2
}

func euclideanSimilarity(a, b entities.FaceDescriptor) float64 {
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	similarity := 1 - math.Sqrt(sum)
	if similarity < 0 {
		return 0
	}
	return similarity
}
