package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseGoalPreservesSourceVariableOrder(t *testing.T) {
	_, vars, err := ParseGoal("foo(Z, A, M)")
	require.NoError(t, err)
	require.Len(t, vars, 3)
	assert.Equal(t, "Z", vars[0].Name)
	assert.Equal(t, "A", vars[1].Name)
	assert.Equal(t, "M", vars[2].Name)
}

func TestParseGoalRepeatedVariableKeepsFirstPosition(t *testing.T) {
	_, vars, err := ParseGoal("foo(X, Y, X)")
	require.NoError(t, err)
	require.Len(t, vars, 2, "X must appear once, at its first-seen position")
	assert.Equal(t, "X", vars[0].Name)
	assert.Equal(t, "Y", vars[1].Name)
}

func TestParseClauseParsesHeadAndBody(t *testing.T) {
	head, body, err := ParseClause("sibling(X, Y) :- parent(Z, X), parent(Z, Y)")
	require.NoError(t, err)
	assert.Equal(t, "sibling", head.Name)
	assert.NotNil(t, body)
}
