package web

import (
	"net"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServeBindError(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	srv, err := New(hclog.NewNullLogger())
	require.NoError(t, err)

	// The address is already taken, so Serve must surface the error
	// rather than block.
	assert.Error(t, srv.Serve(ln.Addr().String()))
}
