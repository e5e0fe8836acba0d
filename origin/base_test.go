package origin_test

import (
	"testing"

	"github.com/fmstephe/slabpool/origin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type widget struct {
	value int
}

type fakeReleaser struct {
	released *widget
}

func (f *fakeReleaser) Release(obj *widget) {
	f.released = obj
}

func TestTrackAndDelete_RoutesToRecordedOrigin(t *testing.T) {
	w := &widget{value: 7}
	r := &fakeReleaser{}

	origin.Track[widget](w, r)
	origin.Delete[widget](w)

	assert.Same(t, w, r.released)
}

func TestDelete_PanicsWithoutOrigin(t *testing.T) {
	w := &widget{}

	require.Panics(t, func() {
		origin.Delete[widget](w)
	}, "deleting an object with no recorded origin is a programmer error")
}

func TestDelete_ClearsTrackingEntry(t *testing.T) {
	w := &widget{value: 1}
	r := &fakeReleaser{}

	origin.Track[widget](w, r)
	origin.Delete[widget](w)

	require.Panics(t, func() {
		origin.Delete[widget](w)
	}, "deleting the same object twice must not find a stale tracking entry")
}

func TestUntrack_IsSafeWithoutAPriorTrack(t *testing.T) {
	w := &widget{}
	assert.NotPanics(t, func() {
		origin.Untrack[widget](w)
	})
}
