package archive_test

import (
	"bytes"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/zen/archive"
	"github.com/joshuapare/zen/codec/text"
	"github.com/joshuapare/zen/errs"
)

type WithComplex struct {
	Z complex128
}

func TestComplexRoundTrip(t *testing.T) {
	in := WithComplex{Z: complex(3.5, -2.25)}

	var buf bytes.Buffer
	enc := text.NewEncoder(&buf, nil)
	a := archive.New(enc, nil)
	require.NoError(t, archive.Save(a, &in))

	dec, err := text.NewDecoder(&buf)
	require.NoError(t, err)
	da := archive.New(dec, nil)
	var out WithComplex
	require.NoError(t, archive.Load(da, &out))
	assert.Equal(t, in, out)
}

type LegacyRecord struct {
	Label string `zen:",cp1252"`
}

func TestCP1252StringRoundTrip(t *testing.T) {
	in := LegacyRecord{Label: "café"}

	var buf bytes.Buffer
	enc := text.NewEncoder(&buf, nil)
	a := archive.New(enc, nil)
	require.NoError(t, archive.Save(a, &in))

	dec, err := text.NewDecoder(&buf)
	require.NoError(t, err)
	da := archive.New(dec, nil)
	var out LegacyRecord
	require.NoError(t, archive.Load(da, &out))
	assert.Equal(t, in.Label, out.Label)
}

func TestOptionalRoundTripPresentAndAbsent(t *testing.T) {
	type Holder struct {
		Maybe archive.Optional[string]
	}
	in := Holder{Maybe: archive.Some("ahoy")}

	var buf bytes.Buffer
	enc := text.NewEncoder(&buf, nil)
	a := archive.New(enc, nil)
	require.NoError(t, archive.Save(a, &in))

	dec, err := text.NewDecoder(&buf)
	require.NoError(t, err)
	da := archive.New(dec, nil)
	var out Holder
	require.NoError(t, archive.Load(da, &out))
	v, ok := out.Maybe.Get()
	require.True(t, ok)
	assert.Equal(t, "ahoy", v)

	absent := Holder{Maybe: archive.None[string]()}
	var buf2 bytes.Buffer
	enc2 := text.NewEncoder(&buf2, nil)
	a2 := archive.New(enc2, nil)
	require.NoError(t, archive.Save(a2, &absent))

	dec2, err := text.NewDecoder(&buf2)
	require.NoError(t, err)
	da2 := archive.New(dec2, nil)
	var out2 Holder
	require.NoError(t, archive.Load(da2, &out2))
	_, ok = out2.Maybe.Get()
	assert.False(t, ok)
}

func TestResultRoundTripErrorPath(t *testing.T) {
	type Outcome struct {
		R archive.Result[int, string]
	}
	in := Outcome{R: archive.ErrResult[int, string]("boom")}

	var buf bytes.Buffer
	enc := text.NewEncoder(&buf, nil)
	a := archive.New(enc, nil)
	require.NoError(t, archive.Save(a, &in))

	dec, err := text.NewDecoder(&buf)
	require.NoError(t, err)
	da := archive.New(dec, nil)
	var out Outcome
	require.NoError(t, archive.Load(da, &out))
	assert.False(t, out.R.Ok)
	assert.Equal(t, "boom", out.R.Err)
}

func TestBitsetRoundTrip(t *testing.T) {
	b := archive.NewBitset(12)
	b.Set(0, true)
	b.Set(5, true)
	b.Set(11, true)

	var buf bytes.Buffer
	enc := text.NewEncoder(&buf, nil)
	a := archive.New(enc, nil)
	require.NoError(t, archive.Save(a, b))

	// Canonical binary-digit string, most significant bit first: bits
	// 11, 5, 0 are set out of 12.
	assert.Contains(t, buf.String(), `"value":"100000100001"`)

	dec, err := text.NewDecoder(&buf)
	require.NoError(t, err)
	da := archive.New(dec, nil)
	out := archive.NewBitset(0)
	require.NoError(t, archive.Load(da, out))

	require.Equal(t, 12, out.Len())
	assert.True(t, out.Test(0))
	assert.True(t, out.Test(5))
	assert.True(t, out.Test(11))
	assert.False(t, out.Test(1))
}

func TestPathRoundTrip(t *testing.T) {
	type Config struct {
		Dir archive.Path
	}
	in := Config{Dir: archive.NewPath("/etc/../etc/zen")}
	assert.Equal(t, archive.Path("/etc/zen"), in.Dir)

	var buf bytes.Buffer
	enc := text.NewEncoder(&buf, nil)
	a := archive.New(enc, nil)
	require.NoError(t, archive.Save(a, &in))

	// A Path rides the plain string primitive: no object wrapper.
	assert.Contains(t, buf.String(), `"Dir":"/etc/zen"`)

	dec, err := text.NewDecoder(&buf)
	require.NoError(t, err)
	da := archive.New(dec, nil)
	var out Config
	require.NoError(t, archive.Load(da, &out))
	assert.Equal(t, in.Dir, out.Dir)
}

func TestTupleRoundTrip(t *testing.T) {
	in := archive.NewTuple(reflect.TypeOf(0), reflect.TypeOf(""), reflect.TypeOf(false))
	require.NoError(t, in.Set(0, 7))
	require.NoError(t, in.Set(1, "seven"))
	require.NoError(t, in.Set(2, true))

	var buf bytes.Buffer
	enc := text.NewEncoder(&buf, nil)
	a := archive.New(enc, nil)
	require.NoError(t, archive.Save(a, in))

	// Elements ride their ordinal string, not first/second.
	assert.Contains(t, buf.String(), `"0":7`)
	assert.Contains(t, buf.String(), `"1":"seven"`)
	assert.Contains(t, buf.String(), `"2":true`)

	dec, err := text.NewDecoder(&buf)
	require.NoError(t, err)
	da := archive.New(dec, nil)
	out := archive.NewTuple(reflect.TypeOf(0), reflect.TypeOf(""), reflect.TypeOf(false))
	require.NoError(t, archive.Load(da, out))

	assert.Equal(t, 7, out.At(0))
	assert.Equal(t, "seven", out.At(1))
	assert.Equal(t, true, out.At(2))
}

func TestVariantRoundTrip(t *testing.T) {
	intType := reflect.TypeOf(0)
	strType := reflect.TypeOf("")

	in := archive.NewVariant(intType, strType)
	require.NoError(t, in.Set(1, "hello"))

	var buf bytes.Buffer
	enc := text.NewEncoder(&buf, nil)
	a := archive.New(enc, nil)
	require.NoError(t, archive.Save(a, in))

	dec, err := text.NewDecoder(&buf)
	require.NoError(t, err)
	da := archive.New(dec, nil)
	out := archive.NewVariant(intType, strType)
	require.NoError(t, archive.Load(da, out))

	assert.Equal(t, 1, out.Index())
	assert.Equal(t, "hello", out.Value())
}

func TestVariantDecodeIndexOutOfRangeErrors(t *testing.T) {
	intType := reflect.TypeOf(0)
	in := archive.NewVariant(intType)

	var buf bytes.Buffer
	enc := text.NewEncoder(&buf, nil)
	a := archive.New(enc, nil)
	require.NoError(t, archive.Save(a, in))

	dec, err := text.NewDecoder(&buf)
	require.NoError(t, err)
	da := archive.New(dec, nil)
	out := archive.NewVariant() // zero alternatives: any decoded index is out of range
	err = archive.Load(da, out)
	require.Error(t, err)
	var zerr *errs.Error
	require.ErrorAs(t, err, &zerr)
	assert.Equal(t, errs.KindDomain, zerr.Kind)
}

type Celsius float64

func celsiusSave(a *archive.Archive, v *Celsius) error {
	return archive.Value(a, "celsius", (*float64)(v))
}

func celsiusLoad(a *archive.Archive, v *Celsius) error {
	return archive.Value(a, "celsius", (*float64)(v))
}

func init() {
	archive.RegisterFunc(celsiusSave, celsiusLoad)
}

func TestFreeFuncSaveLoadRoundTrip(t *testing.T) {
	type Reading struct {
		Temp Celsius
	}
	in := Reading{Temp: 21.5}

	var buf bytes.Buffer
	enc := text.NewEncoder(&buf, nil)
	a := archive.New(enc, nil)
	require.NoError(t, archive.Save(a, &in))
	assert.Contains(t, buf.String(), `"celsius":21.5`)

	dec, err := text.NewDecoder(&buf)
	require.NoError(t, err)
	da := archive.New(dec, nil)
	var out Reading
	require.NoError(t, archive.Load(da, &out))
	assert.Equal(t, in.Temp, out.Temp)
}
