package selection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func options() List[int] {
	return List[int]{
		{Label: "One", Key: "one", Value: 1},
		{Label: "Two", Key: "two", Value: 2},
	}
}

func TestByKey(t *testing.T) {
	list := options()

	item, ok := list.ByKey("two")
	require.True(t, ok)
	assert.Equal(t, 2, item.Value)

	_, ok = list.ByKey("three")
	assert.False(t, ok)
}

func TestKeys(t *testing.T) {
	assert.Equal(t, []string{"one", "two"}, options().Keys())
}

func TestUpsertReplacesByKey(t *testing.T) {
	list := options()

	out := Upsert(list, Item[int]{Label: "Two!", Key: "two", Value: 22})
	require.Len(t, out, 2)

	replaced, ok := out.ByKey("two")
	require.True(t, ok)
	assert.Equal(t, 22, replaced.Value)
	assert.Equal(t, "Two!", replaced.Label)

	original, _ := list.ByKey("two")
	assert.Equal(t, 2, original.Value, "original list must stay untouched")
}

func TestUpsertAppendsNewKey(t *testing.T) {
	out := Upsert(options(), Item[int]{Label: "Three", Key: "three", Value: 3})
	require.Len(t, out, 3)
	assert.Equal(t, []string{"one", "two", "three"}, out.Keys())
}
