package pm

import (
	"errors"
	"sync"
	"testing"

	"github.com/najoast/kipc/kerror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessIdentifier(t *testing.T) {
	t.Run("RoundTrip", func(t *testing.T) {
		for _, p := range []ProcessIdentifier{Kernel, 1, 7, 0x01000002, 0xFFFFFFFF} {
			assert.Equal(t, p, ProcessIdentifierFromBytes(p.ToBytes()))
		}
	})

	t.Run("FromSlice", func(t *testing.T) {
		b := ProcessIdentifier(7).ToBytes()
		p, err := ProcessIdentifierFromSlice(b[:])
		require.NoError(t, err)
		assert.Equal(t, ProcessIdentifier(7), p)

		_, err = ProcessIdentifierFromSlice(b[:3])
		assert.True(t, errors.Is(err, kerror.InvalidArgument))
	})

	t.Run("Packing", func(t *testing.T) {
		p, err := NewProcessIdentifier(3, 0x42)
		require.NoError(t, err)
		assert.Equal(t, uint8(3), p.KernelID())
		assert.Equal(t, uint32(0x42), p.Local())
		assert.Equal(t, ":03:000042", p.String())

		_, err = NewProcessIdentifier(1, MaxLocal+1)
		assert.True(t, errors.Is(err, kerror.InvalidArgument))
	})

	t.Run("Kernel", func(t *testing.T) {
		assert.True(t, Kernel.IsKernel())
		assert.Equal(t, "kernel", Kernel.String())
		assert.False(t, ProcessIdentifier(7).IsKernel())
	})
}

func TestAllocator(t *testing.T) {
	t.Run("AllocateAndLookup", func(t *testing.T) {
		a := NewAllocator(2)

		pid, err := a.Allocate("init")
		require.NoError(t, err)
		assert.Equal(t, uint8(2), pid.KernelID())
		assert.False(t, pid.IsKernel())

		found, ok := a.Lookup("init")
		require.True(t, ok)
		assert.Equal(t, pid, found)

		p, ok := a.Get(pid)
		require.True(t, ok)
		assert.Equal(t, "init", p.Name)
	})

	t.Run("KernelZeroNeverHandsOutSentinel", func(t *testing.T) {
		a := NewAllocator(0)
		pid, err := a.Allocate("")
		require.NoError(t, err)
		assert.NotEqual(t, Kernel, pid)
	})

	t.Run("DuplicateName", func(t *testing.T) {
		a := NewAllocator(0)
		_, err := a.Allocate("shell")
		require.NoError(t, err)

		_, err = a.Allocate("shell")
		assert.True(t, errors.Is(err, kerror.InvalidArgument))
	})

	t.Run("Release", func(t *testing.T) {
		a := NewAllocator(0)
		pid, err := a.Allocate("daemon")
		require.NoError(t, err)

		require.NoError(t, a.Release(pid))
		_, ok := a.Lookup("daemon")
		assert.False(t, ok)
		assert.Error(t, a.Release(pid))
	})

	t.Run("Concurrent", func(t *testing.T) {
		a := NewAllocator(1)
		var wg sync.WaitGroup
		for i := 0; i < 16; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := a.Allocate("")
				assert.NoError(t, err)
			}()
		}
		wg.Wait()
		assert.Len(t, a.List(), 16)
	})
}
