package text_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/zen/codec/text"
)

func TestEncodeDecodeObject(t *testing.T) {
	var buf bytes.Buffer
	enc := text.NewEncoder(&buf, nil)

	require.NoError(t, enc.OpenObject())
	enc.SetNextName("name")
	require.NoError(t, enc.EmitString("Ada"))
	enc.SetNextName("age")
	require.NoError(t, enc.EmitInt(36))
	require.NoError(t, enc.CloseObject())
	require.NoError(t, enc.Flush())

	dec, err := text.NewDecoder(&buf)
	require.NoError(t, err)

	require.NoError(t, dec.OpenObject())
	dec.SetNextName("name")
	name, err := dec.ConsumeString()
	require.NoError(t, err)
	assert.Equal(t, "Ada", name)
	dec.SetNextName("age")
	age, err := dec.ConsumeInt()
	require.NoError(t, err)
	assert.EqualValues(t, 36, age)
	require.NoError(t, dec.CloseObject())
}

func TestFieldOrderIsPreserved(t *testing.T) {
	var buf bytes.Buffer
	enc := text.NewEncoder(&buf, nil)
	require.NoError(t, enc.OpenObject())
	for _, name := range []string{"z", "a", "m"} {
		enc.SetNextName(name)
		require.NoError(t, enc.EmitInt(1))
	}
	require.NoError(t, enc.CloseObject())
	require.NoError(t, enc.Flush())

	out := buf.String()
	assert.Less(t, indexOf(out, `"z"`), indexOf(out, `"a"`))
	assert.Less(t, indexOf(out, `"a"`), indexOf(out, `"m"`))
}

func indexOf(s, substr string) int {
	return bytes.Index([]byte(s), []byte(substr))
}

func TestArrayRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	enc := text.NewEncoder(&buf, nil)
	require.NoError(t, enc.EmitRangeSize(3))
	require.NoError(t, enc.OpenArray())
	for i := 0; i < 3; i++ {
		require.NoError(t, enc.EmitInt(int64(i)))
	}
	require.NoError(t, enc.CloseArray())
	require.NoError(t, enc.Flush())

	dec, err := text.NewDecoder(&buf)
	require.NoError(t, err)
	n, err := dec.ConsumeRangeSize()
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)
	require.NoError(t, dec.OpenArray())
	for i := 0; i < 3; i++ {
		v, err := dec.ConsumeInt()
		require.NoError(t, err)
		assert.EqualValues(t, i, v)
	}
	require.NoError(t, dec.CloseArray())
}

func TestBytesRoundTripViaBase64(t *testing.T) {
	var buf bytes.Buffer
	enc := text.NewEncoder(&buf, nil)
	payload := []byte{0x01, 0x02, 0x03, 0xff}
	require.NoError(t, enc.EmitBytes(payload))
	require.NoError(t, enc.Flush())

	dec, err := text.NewDecoder(&buf)
	require.NoError(t, err)
	got, err := dec.ConsumeBytes()
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestMismatchedCloseErrors(t *testing.T) {
	var buf bytes.Buffer
	enc := text.NewEncoder(&buf, nil)
	require.NoError(t, enc.OpenObject())
	err := enc.CloseArray()
	assert.Error(t, err)
}
