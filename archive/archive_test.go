package archive_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/zen/archive"
	"github.com/joshuapare/zen/codec/binary"
	"github.com/joshuapare/zen/codec/text"
	"github.com/joshuapare/zen/errs"
	"github.com/joshuapare/zen/registry"
)

type Person struct {
	Name  string
	Age   int
	Email string
}

func TestAggregateRoundTripText(t *testing.T) {
	in := Person{Name: "Ada", Age: 36, Email: "ada@example.com"}

	var buf bytes.Buffer
	enc := text.NewEncoder(&buf, nil)
	a := archive.New(enc, nil)
	require.NoError(t, archive.Save(a, &in))

	dec, err := text.NewDecoder(&buf)
	require.NoError(t, err)
	da := archive.New(dec, nil)

	var out Person
	require.NoError(t, archive.Load(da, &out))
	assert.Equal(t, in, out)
}

func TestAggregateRoundTripBinary(t *testing.T) {
	in := Person{Name: "Grace", Age: 41, Email: "grace@example.com"}

	var buf bytes.Buffer
	enc := binary.NewEncoder(&buf)
	a := archive.New(enc, nil)
	require.NoError(t, archive.Save(a, &in))

	dec := binary.NewDecoder(&buf)
	da := archive.New(dec, nil)

	var out Person
	require.NoError(t, archive.Load(da, &out))
	assert.Equal(t, in, out)
}

type Node struct {
	Name     string
	Parent   archive.Weak[Node]
	Children []archive.Shared[Node]
}

func TestSharedWeakCyclePreservesIdentity(t *testing.T) {
	root := &Node{Name: "root"}
	child := &Node{Name: "child", Parent: archive.NewWeak(root)}
	root.Children = []archive.Shared[Node]{archive.NewShared(child)}

	rootHandle := archive.NewShared(root)

	var buf bytes.Buffer
	enc := text.NewEncoder(&buf, nil)
	a := archive.New(enc, nil)
	require.NoError(t, archive.Save(a, &rootHandle))

	dec, err := text.NewDecoder(&buf)
	require.NoError(t, err)
	da := archive.New(dec, nil)

	var outHandle archive.Shared[Node]
	require.NoError(t, archive.Load(da, &outHandle))

	outRoot := outHandle.Get()
	require.NotNil(t, outRoot)
	require.Len(t, outRoot.Children, 1)
	outChild := outRoot.Children[0].Get()
	require.NotNil(t, outChild)
	assert.Same(t, outRoot, outChild.Parent.Get())
}

func TestExclusiveOwningDuplicateIdentityErrors(t *testing.T) {
	type Pair struct {
		A *Node
		B *Node
	}
	shared := &Node{Name: "shared"}
	p := Pair{A: shared, B: shared}

	var buf bytes.Buffer
	enc := text.NewEncoder(&buf, nil)
	a := archive.New(enc, nil)
	err := archive.Save(a, &p)
	require.Error(t, err)
	var zerr *errs.Error
	require.ErrorAs(t, err, &zerr)
	assert.Equal(t, errs.KindIdentity, zerr.Kind)
}

type Animal interface {
	Noise() string
}

type Dog struct{ Name string }

func (d *Dog) Noise() string { return "woof" }
func (d *Dog) Serialize(a *archive.Archive) error {
	return archive.Value(a, "name", &d.Name)
}

type Cat struct{ Name string }

func (c *Cat) Noise() string { return "meow" }
func (c *Cat) Serialize(a *archive.Archive) error {
	return archive.Value(a, "name", &c.Name)
}

func newAnimalRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	r := registry.New()
	require.NoError(t, registry.Register[Dog](r, "Dog",
		func() *Dog { return &Dog{} },
		func(v *Dog, a *archive.Archive) error { return v.Serialize(a) },
		func(v *Dog, a *archive.Archive) error { return v.Serialize(a) },
	))
	require.NoError(t, registry.Register[Cat](r, "Cat",
		func() *Cat { return &Cat{} },
		func(v *Cat, a *archive.Archive) error { return v.Serialize(a) },
		func(v *Cat, a *archive.Archive) error { return v.Serialize(a) },
	))
	return r
}

func newAnimal(a Animal) *Animal { return &a }

func TestPolymorphicHandleRoundTrip(t *testing.T) {
	r := newAnimalRegistry(t)

	type Zoo struct {
		Animals []*Animal
	}
	in := Zoo{Animals: []*Animal{
		newAnimal(&Dog{Name: "Rex"}),
		newAnimal(&Cat{Name: "Tom"}),
	}}

	var buf bytes.Buffer
	enc := text.NewEncoder(&buf, nil)
	a := archive.New(enc, r)
	require.NoError(t, archive.Save(a, &in))

	dec, err := text.NewDecoder(&buf)
	require.NoError(t, err)
	da := archive.New(dec, r)

	var out Zoo
	require.NoError(t, archive.Load(da, &out))
	require.Len(t, out.Animals, 2)
	assert.Equal(t, "woof", (*out.Animals[0]).Noise())
	assert.Equal(t, "meow", (*out.Animals[1]).Noise())
}

func TestPolymorphicHandleWithoutRegistryFails(t *testing.T) {
	type Zoo struct {
		Animals []*Animal
	}
	in := Zoo{Animals: []*Animal{newAnimal(&Dog{Name: "Rex"})}}

	var buf bytes.Buffer
	enc := text.NewEncoder(&buf, nil)
	a := archive.New(enc, nil)
	err := archive.Save(a, &in)
	require.Error(t, err)
}

type Matrix struct {
	Rows []int32
}

func TestContiguousArithmeticFastPathBinary(t *testing.T) {
	in := Matrix{Rows: []int32{1, 2, 3, 4, 5}}

	var buf bytes.Buffer
	enc := binary.NewEncoder(&buf)
	a := archive.New(enc, nil)
	require.NoError(t, archive.Save(a, &in))

	dec := binary.NewDecoder(&buf)
	da := archive.New(dec, nil)
	var out Matrix
	require.NoError(t, archive.Load(da, &out))
	assert.Equal(t, in.Rows, out.Rows)
}

type StringList struct {
	Names []string
}

func TestMapDispatchRoundTrip(t *testing.T) {
	type Index struct {
		Scores map[string]int
	}
	in := Index{Scores: map[string]int{"a": 1, "b": 2, "c": 3}}

	var buf bytes.Buffer
	enc := text.NewEncoder(&buf, nil)
	a := archive.New(enc, nil)
	require.NoError(t, archive.Save(a, &in))

	dec, err := text.NewDecoder(&buf)
	require.NoError(t, err)
	da := archive.New(dec, nil)
	var out Index
	require.NoError(t, archive.Load(da, &out))
	assert.Equal(t, in.Scores, out.Scores)
}

func TestWeakRefToUnresolvedIdentityFailsOnEncode(t *testing.T) {
	n := &Node{Name: "lonely"}
	w := archive.NewWeak(n)

	var buf bytes.Buffer
	enc := text.NewEncoder(&buf, nil)
	a := archive.New(enc, nil)
	err := archive.Save(a, &w)
	require.Error(t, err)
	var zerr *errs.Error
	require.ErrorAs(t, err, &zerr)
	assert.Equal(t, errs.KindIdentity, zerr.Kind)
}
