package helloserver

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dialAndWriteByte(t *testing.T, l *CancellableListener, b byte) {
	t.Helper()
	conn, err := net.Dial(l.Addr().Network(), l.Addr().String())
	require.NoError(t, err)
	defer conn.Close()
	_, err = conn.Write([]byte{b})
	require.NoError(t, err)
}

// TestCancellableListenerCancel: a connection made before Cancel is
// still accepted, and Accept returns (nil, nil) once Cancel has been
// called, even though it was already parked in the kernel when Cancel
// ran.
func TestCancellableListenerCancel(t *testing.T) {
	l, err := Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer l.Close()

	accepted := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		conn, err := l.Accept()
		require.NoError(t, err)
		require.NotNil(t, conn)
		buf := make([]byte, 1)
		_, _ = conn.Read(buf)
		assert.EqualValues(t, 123, buf[0])
		conn.Close()
		close(accepted)

		conn2, err := l.Accept()
		assert.NoError(t, err)
		assert.Nil(t, conn2)
	}()

	dialAndWriteByte(t, l, 123)
	<-accepted

	require.NoError(t, l.Cancel())

	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("Accept did not unblock after Cancel")
	}
}
