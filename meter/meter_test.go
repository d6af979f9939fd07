package meter

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseAddress(t *testing.T) {
	addr, err := ParseAddress("0x8a88c59bf15451f9deb1d62f7734fece2002668e")
	assert.Nil(t, err)
	assert.Equal(t, "0x8a88c59bf15451f9deb1d62f7734fece2002668e", addr.String())

	_, err = ParseAddress("0x8a88")
	assert.NotNil(t, err)

	_, err = ParseAddress("1x8a88c59bf15451f9deb1d62f7734fece2002668e")
	assert.NotNil(t, err)

	assert.True(t, ZeroAddress.IsZero())
	assert.True(t, IsNative(ZeroAddress))
	assert.False(t, IsNative(addr))
}

func TestAddressJSON(t *testing.T) {
	addr := BytesToAddress([]byte("seller"))
	data, err := json.Marshal(&addr)
	assert.Nil(t, err)

	var decoded Address
	assert.Nil(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, addr, decoded)
}

func TestBytes32(t *testing.T) {
	b := BytesToBytes32([]byte("key"))
	parsed, err := ParseBytes32(b.String())
	assert.Nil(t, err)
	assert.Equal(t, b, parsed)
	assert.False(t, b.IsZero())

	_, err = ParseBytes32("0x1234")
	assert.NotNil(t, err)
}

func TestHashes(t *testing.T) {
	assert.Equal(t, Blake2b([]byte("a"), []byte("b")), Blake2b([]byte("ab")))
	assert.NotEqual(t, Blake2b([]byte("ab")), Keccak256([]byte("ab")))
	// keccak256("") is well known
	assert.Equal(t, "0xc5d2460186f7233c927e7db2dcc703c0e500b653ca82273b7bfad8045d85a470", Keccak256().String())
}

func TestPrettyDuration(t *testing.T) {
	assert.Equal(t, "1.234ms", PrettyDuration(1234567*time.Nanosecond).String())
	assert.Equal(t, "2s", PrettyDuration(2*time.Second).String())
}
