package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientOptions(t *testing.T) {
	_, err := clientOptions(Options{})
	assert.Error(t, err)

	opts, err := clientOptions(Options{Addr: "localhost:6379", Password: "pw", DB: 2})
	require.NoError(t, err)
	assert.Equal(t, "localhost:6379", opts.Addr)
	assert.Equal(t, 2, opts.DB)

	opts, err = clientOptions(Options{Addr: "redis://:secret@cache.internal:6380/3"})
	require.NoError(t, err)
	assert.Equal(t, "cache.internal:6380", opts.Addr)
	assert.Equal(t, "secret", opts.Password)
	assert.Equal(t, 3, opts.DB)

	_, err = clientOptions(Options{Addr: "redis://host:notaport/x"})
	assert.Error(t, err)
}
