package mapper

import (
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapSlice(t *testing.T) {
	assert.Nil(t, MapSlice(nil, strconv.Itoa))
	assert.Equal(t, []string{}, MapSlice([]int{}, strconv.Itoa))
	assert.Equal(t, []string{"1", "2"}, MapSlice([]int{1, 2}, strconv.Itoa))
}

func TestMapSliceWithError(t *testing.T) {
	parse := func(s string) (int, error) {
		return strconv.Atoi(s)
	}

	result, err := MapSliceWithError([]string{"1", "2"}, parse)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, result)

	result, err = MapSliceWithError(nil, parse)
	require.NoError(t, err)
	assert.Nil(t, result)

	_, err = MapSliceWithError([]string{"1", "nope"}, parse)
	assert.Error(t, err)

	boom := errors.New("boom")
	_, err = MapSliceWithError([]string{"x"}, func(string) (int, error) {
		return 0, boom
	})
	assert.ErrorIs(t, err, boom)
}
