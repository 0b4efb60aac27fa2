package cluster

import "github.com/zipcarve/zipcarve/header"

// FeatureVector is a point in the clustering space for a single CDH or LFH record.
//
// Components are deliberately left un-normalized: the Unix timestamp component dominates the distance
// calculation by construction, which is what causes records from the same archive (written close together in
// time) to cluster together.
type FeatureVector []float64

// dimension count for each record kind: timestamp, method, (versionMadeBy, versionNeeded for CDH only), then one
// dimension per recognized flag bit.
var (
	cdhDimensions = 4 + len(header.RecognizedFlagBits)
	lfhDimensions = 2 + len(header.RecognizedFlagBits)
)

// CDHFeatures builds the feature vector for a CDH record: ⟨unixTimestamp, method, versionMadeBy, versionNeeded,
// flag bit 0, flag bit 1, ..., flag bit 13⟩, in the bit order of header.RecognizedFlagBits.
//
// Records whose DOS date/time failed to decode have no valid timestamp component and are excluded by the caller
// before features are built; CDHFeatures does not itself check HasDateTime.
func CDHFeatures(c *header.CDHRecord) FeatureVector {
	v := make(FeatureVector, 0, cdhDimensions)
	v = append(v, float64(c.DateTime.Time().Unix()))
	v = append(v, float64(c.Method))
	v = append(v, float64(c.VersionMadeBy))
	v = append(v, float64(c.VersionNeeded))
	for _, bit := range header.RecognizedFlagBits {
		v = append(v, b2f(c.Flags.Has(bit)))
	}
	return v
}

// LFHFeatures builds the feature vector for an LFH record: ⟨unixTimestamp, method, flag bit 0, ..., flag bit 13⟩.
func LFHFeatures(l *header.LFHRecord) FeatureVector {
	v := make(FeatureVector, 0, lfhDimensions)
	v = append(v, float64(l.DateTime.Time().Unix()))
	v = append(v, float64(l.Method))
	for _, bit := range header.RecognizedFlagBits {
		v = append(v, b2f(l.Flags.Has(bit)))
	}
	return v
}

func b2f(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
