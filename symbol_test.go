package casso

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVarKind(t *testing.T) {
	cases := []struct {
		kind       Kind
		restricted bool
		pivotable  bool
	}{
		{External, false, true},
		{Slack, true, true},
		{Dummy, true, false},
		{Error, true, true},
	}
	for _, tc := range cases {
		v := newVar(tc.kind)
		require.False(t, v.Zero(), "newVar(%s) returned the zero Var", tc.kind)
		require.EqualValues(t, tc.kind, v.Kind())
		require.Equal(t, tc.restricted, v.Restricted(), "%s.Restricted()", tc.kind)
		require.Equal(t, tc.pivotable, v.Pivotable(), "%s.Pivotable()", tc.kind)
	}
}

func TestVarZero(t *testing.T) {
	var z Var
	require.True(t, z.Zero())
	require.False(t, z.External())
	require.False(t, z.Restricted())
	require.False(t, z.Pivotable())
	require.False(t, z.Dummy())
	require.False(t, z.Slack())
	require.False(t, z.ErrorVar())
}

func TestVarAllocationIsMonotonicAndUnique(t *testing.T) {
	seen := make(map[Var]struct{})
	for i := 0; i < 1000; i++ {
		v := newVar(External)
		_, dup := seen[v]
		require.False(t, dup, "allocation produced a duplicate Var: %v", v)
		seen[v] = struct{}{}
	}
}
