package identity_test

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/joshuapare/zen/internal/identity"
)

func TestIdentityForIsStableAndInjective(t *testing.T) {
	a := identity.NewAssigner()
	x, y := 1, 2
	xv, yv := reflect.ValueOf(&x), reflect.ValueOf(&y)

	id1, first1 := a.IdentityFor(xv)
	assert.True(t, first1)
	assert.NotZero(t, id1)

	id1Again, first2 := a.IdentityFor(xv)
	assert.False(t, first2)
	assert.Equal(t, id1, id1Again)

	id2, first3 := a.IdentityFor(yv)
	assert.True(t, first3)
	assert.NotEqual(t, id1, id2)
}

func TestSeenDoesNotAssign(t *testing.T) {
	a := identity.NewAssigner()
	x := 1
	xv := reflect.ValueOf(&x)

	_, ok := a.Seen(xv)
	assert.False(t, ok)

	id, _ := a.IdentityFor(xv)
	seenID, ok := a.Seen(xv)
	assert.True(t, ok)
	assert.Equal(t, id, seenID)
}
