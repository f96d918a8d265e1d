package refs_test

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/zen/internal/refs"
)

func TestMarkVisitedRejectsDuplicate(t *testing.T) {
	tr := refs.NewTracker()
	require.NoError(t, tr.MarkVisited(1))
	assert.False(t, tr.HasVisited(2))
	assert.True(t, tr.HasVisited(1))

	err := tr.MarkVisited(1)
	require.Error(t, err)
}

func TestInstallAndResolve(t *testing.T) {
	tr := refs.NewTracker()
	x := 7
	v := reflect.ValueOf(&x)

	require.NoError(t, tr.Install(1, v))
	got, ok := tr.Resolve(1)
	require.True(t, ok)
	assert.Equal(t, v.Interface(), got.Interface())

	_, ok = tr.Resolve(2)
	assert.False(t, ok)

	err := tr.Install(1, v)
	require.Error(t, err)
}
