package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadedController(t *testing.T, committed string) (*ScopeController, *Gate, *Store) {
	t.Helper()
	g := NewGate(10)
	s := NewStore()
	c := NewScopeController(g, s)
	p, err := c.Reload()
	require.NoError(t, err)
	if committed != "" {
		g.Complete(*p, Outcome{Kind: OutcomeSuccess, Items: 1})
		p, err = c.Request(committed)
		require.NoError(t, err)
		require.NotNil(t, p)
	}
	s.ReplaceAll(makeRecords(1, 3))
	require.NoError(t, g.Complete(*p, Outcome{Kind: OutcomeSuccess, Items: 3}))
	return c, g, s
}

func TestScopeRequestBranches(t *testing.T) {
	cases := []struct {
		name      string
		committed string
		request   string
		wantFetch bool
	}{
		{name: "empty to empty is a no-op", committed: "", request: "", wantFetch: false},
		{name: "whitespace counts as empty", committed: "", request: "   ", wantFetch: false},
		{name: "empty to scoped resets", committed: "", request: "42", wantFetch: true},
		{name: "scoped to other scope resets", committed: "42", request: "7", wantFetch: true},
		{name: "clearing a scope resets", committed: "42", request: "", wantFetch: true},
		{name: "same scope forces refresh", committed: "42", request: "42", wantFetch: true},
		{name: "same scope after trim forces refresh", committed: "42", request: " 42 ", wantFetch: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, g, s := loadedController(t, tc.committed)
			before := g.Cursor()

			p, err := c.Request(tc.request)
			require.NoError(t, err)

			if !tc.wantFetch {
				assert.Nil(t, p)
				assert.Equal(t, 3, s.Len())
				assert.Equal(t, before, g.Cursor())
				return
			}
			require.NotNil(t, p)
			assert.Equal(t, 0, p.PageIndex)
			assert.Equal(t, c.Committed(), p.Scope)
			assert.Equal(t, 0, s.Len())
			cur := g.Cursor()
			assert.Equal(t, 0, cur.NextPageIndex)
			assert.True(t, cur.HasMore)
			assert.True(t, cur.IsLoading)
		})
	}
}

func TestScopeResetOverridesInFlightFetch(t *testing.T) {
	g := NewGate(10)
	s := NewStore()
	c := NewScopeController(g, s)

	first, err := c.Reload()
	require.NoError(t, err)

	second, err := c.Request("42")
	require.NoError(t, err)
	require.NotNil(t, second)
	assert.Equal(t, "42", c.Committed())

	assert.ErrorIs(t, g.Complete(*first, Outcome{Kind: OutcomeSuccess, Items: 10}), ErrStaleResponse)
	assert.NoError(t, g.Complete(*second, Outcome{Kind: OutcomeSuccess, Items: 1, LastPage: true}))
}
