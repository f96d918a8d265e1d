package errs_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/zen/errs"
)

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("boom")
	e := errs.Wrap(errs.ErrShortRead, "reading header", cause)

	require.ErrorIs(t, e, cause)
	assert.Equal(t, errs.KindFraming, e.Kind)
	assert.Contains(t, e.Error(), "reading header")
	assert.Contains(t, e.Error(), "boom")
}

func TestWithScopePrependsDotted(t *testing.T) {
	e := &errs.Error{Kind: errs.KindDomain, Msg: "oops"}
	scoped := e.WithScope("inner").WithScope("outer")
	assert.Equal(t, "outer.inner", scoped.Scope)
}

func TestErrKindStringExhaustive(t *testing.T) {
	for _, k := range []errs.ErrKind{
		errs.KindFraming, errs.KindStructural, errs.KindRegistry,
		errs.KindIdentity, errs.KindDomain,
	} {
		assert.NotContains(t, k.String(), "ErrKind(")
	}
}
