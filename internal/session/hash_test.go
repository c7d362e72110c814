package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHashSHA3(t *testing.T) {
	// SHA3-512 of the empty string, FIPS 202 test vector.
	assert.Equal(t,
		"a69f73cca23a9ac5c8b567dc185a756e97c982164fe25859e0d1dcc1475c80a6"+
			"15b2123af1f5f94c11e3e9402c3ac558f500199d95b6d3e301758586281dcd26",
		HashSHA3(""))

	assert.Len(t, HashSHA3("admin"), 128)
	assert.Equal(t, HashSHA3("admin"), HashSHA3("admin"))
	assert.NotEqual(t, HashSHA3("admin"), HashSHA3("admin "))
}

func TestEqual(t *testing.T) {
	assert.True(t, Equal("", ""))
	assert.True(t, Equal("abc", "abc"))
	assert.False(t, Equal("abc", "abd"))
	assert.False(t, Equal("abc", "abcd"))
}
