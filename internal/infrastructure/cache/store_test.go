package cache

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStore_GetPut(t *testing.T) {
	s := NewStore[int]()

	_, ok := s.Get("EXR")
	assert.False(t, ok)

	s.Put("EXR", 42)
	v, ok := s.Get("EXR")
	assert.True(t, ok)
	assert.Equal(t, 42, v)
	assert.Equal(t, 1, s.Len())
}

func TestStore_GetOrLoad_MemoizesResult(t *testing.T) {
	s := NewStore[string]()
	calls := 0
	load := func() (string, error) {
		calls++
		return "loaded", nil
	}

	v, err := s.GetOrLoad("FM", load)
	assert.NoError(t, err)
	assert.Equal(t, "loaded", v)

	v, err = s.GetOrLoad("FM", load)
	assert.NoError(t, err)
	assert.Equal(t, "loaded", v)
	assert.Equal(t, 1, calls)
}

func TestStore_GetOrLoad_DoesNotCacheErrors(t *testing.T) {
	s := NewStore[string]()
	calls := 0

	_, err := s.GetOrLoad("FM", func() (string, error) {
		calls++
		return "", errors.New("boom")
	})
	assert.Error(t, err)

	v, err := s.GetOrLoad("FM", func() (string, error) {
		calls++
		return "recovered", nil
	})
	assert.NoError(t, err)
	assert.Equal(t, "recovered", v)
	assert.Equal(t, 2, calls)
}

func TestStore_ResetAndDelete(t *testing.T) {
	s := NewStore[int]()
	s.Put("A", 1)
	s.Put("B", 2)

	s.Delete("A")
	_, ok := s.Get("A")
	assert.False(t, ok)
	assert.Equal(t, 1, s.Len())

	s.Reset()
	assert.Equal(t, 0, s.Len())
	assert.Empty(t, s.Keys())
}
