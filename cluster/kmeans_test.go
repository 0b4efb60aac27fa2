package cluster

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClusterAssigner_Assign_TwoWellSeparatedGroups(t *testing.T) {
	points := []FeatureVector{
		{1000, 8, 20, 20, 0, 0},
		{1002, 8, 20, 20, 0, 0},
		{1001, 8, 20, 20, 0, 0},
		{9000000, 0, 20, 20, 0, 0},
		{9000003, 0, 20, 20, 0, 0},
		{9000001, 0, 20, 20, 0, 0},
	}

	a := New(2, DefaultMaxIterations)
	assignment, err := a.Assign(points)
	require.NoError(t, err)

	assert.Equal(t, assignment[0], assignment[1])
	assert.Equal(t, assignment[0], assignment[2])
	assert.Equal(t, assignment[3], assignment[4])
	assert.Equal(t, assignment[3], assignment[5])
	assert.NotEqual(t, assignment[0], assignment[3])
}

func TestClusterAssigner_Assign_RejectsTooFewPoints(t *testing.T) {
	a := New(3, DefaultMaxIterations)
	_, err := a.Assign([]FeatureVector{{1}, {2}})
	assert.Error(t, err)
}

func TestClusterAssigner_Assign_IsDeterministic(t *testing.T) {
	points := []FeatureVector{
		{100, 8, 0, 0}, {101, 8, 0, 0}, {5000, 0, 0, 0}, {5001, 0, 0, 0},
	}
	a := New(2, DefaultMaxIterations)
	first, err := a.Assign(points)
	require.NoError(t, err)
	second, err := a.Assign(points)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestClusterAssigner_Assign_RespectsMaxIterations(t *testing.T) {
	points := []FeatureVector{
		{100, 8, 0, 0}, {101, 8, 0, 0}, {5000, 0, 0, 0}, {5001, 0, 0, 0},
	}
	a := New(2, 1)
	_, err := a.Assign(points)
	require.NoError(t, err)
}
