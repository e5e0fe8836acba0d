package slab

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlab_CarveBumpsThenExhausts(t *testing.T) {
	cfg := NewConfig(32, 256)
	s := New(cfg)
	defer s.Destroy()

	seen := map[uintptr]bool{}
	for i := uint64(0); i < cfg.CellsPerSlab; i++ {
		cell, ok := s.Carve()
		require.True(t, ok)
		require.False(t, seen[cell.Addr()], "carve returned a duplicate address")
		seen[cell.Addr()] = true
	}

	_, ok := s.Carve()
	assert.False(t, ok, "carve should fail once every cell has been handed out")
	assert.Equal(t, cfg.CellsPerSlab, s.NextUnused())
}

func TestSlab_CellsAreContiguousAndAligned(t *testing.T) {
	cfg := NewConfig(32, 256)
	s := New(cfg)
	defer s.Destroy()

	first, ok := s.Carve()
	require.True(t, ok)
	second, ok := s.Carve()
	require.True(t, ok)

	assert.Equal(t, cfg.CellSize, uint64(second.Addr()-first.Addr()))
	// Every dispensed cell is aligned to at least 8 bytes - the widest
	// alignment any ordinary Go type can require - regardless of the
	// requested cell size.
	assert.Equal(t, uintptr(0), first.Addr()%8)
}

func TestSlab_IntrusiveListLinksByBaseAddress(t *testing.T) {
	cfg := NewConfig(32, 256)
	s1 := New(cfg)
	defer s1.Destroy()
	s2 := New(cfg)
	defer s2.Destroy()

	s2.SetNext(s1)
	assert.Equal(t, s1.Base(), s2.Next().Base())
	assert.Nil(t, s1.Next())
}

func TestFreeList_PushPopIsLIFO(t *testing.T) {
	cfg := NewConfig(32, 256)
	s := New(cfg)
	defer s.Destroy()

	a, _ := s.Carve()
	b, _ := s.Carve()
	c, _ := s.Carve()

	var fl FreeList
	_, ok := fl.Pop()
	assert.False(t, ok)

	fl.Push(a)
	fl.Push(b)
	fl.Push(c)

	got, ok := fl.Pop()
	require.True(t, ok)
	assert.Equal(t, c.Addr(), got.Addr())

	got, ok = fl.Pop()
	require.True(t, ok)
	assert.Equal(t, b.Addr(), got.Addr())

	got, ok = fl.Pop()
	require.True(t, ok)
	assert.Equal(t, a.Addr(), got.Addr())

	assert.True(t, fl.Empty())
}
