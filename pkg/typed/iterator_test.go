package typed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/KevoDB/interop/pkg/convert"
	"github.com/KevoDB/interop/pkg/untyped"
	"github.com/KevoDB/interop/pkg/untyped/protoval"
)

func TestIteratorAdapter_ConvertsLazily(t *testing.T) {
	it := NewIteratorAdapter[int](untyped.NewSliceList(1, "x", 3).Cursor())

	require.True(t, it.Next())
	v, err := it.Current()
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	require.True(t, it.Next())
	_, err = it.Current()
	var mm *convert.TypeMismatchError
	require.ErrorAs(t, err, &mm)
	assert.Equal(t, "int", mm.Expected)
	assert.Equal(t, "string", mm.Actual)
	assert.Equal(t, "x", it.CurrentUntyped())

	require.True(t, it.Next())
	v, err = it.Current()
	require.NoError(t, err)
	assert.Equal(t, 3, v)

	assert.False(t, it.Next())
	assert.False(t, it.Next())
}

func TestIteratorAdapter_ResetForwardsToCursor(t *testing.T) {
	it := NewIteratorAdapter[string](untyped.NewSliceList("a", "b").Cursor())
	for it.Next() {
	}

	require.NoError(t, it.Reset())
	require.True(t, it.Next())
	v, err := it.Current()
	require.NoError(t, err)
	assert.Equal(t, "a", v)
}

func TestIteratorAdapter_ResetUnsupported(t *testing.T) {
	lv := protoval.NewList(nil)
	require.NoError(t, lv.Append("a"))

	it := NewIteratorAdapter[string](lv.Cursor())
	require.True(t, it.Next())

	err := it.Reset()
	require.Error(t, err)
	assert.True(t, IsUnsupported(err))
	assert.ErrorIs(t, err, ErrUnsupported)

	var uo *UnsupportedOperationError
	require.ErrorAs(t, err, &uo)
	assert.Equal(t, "reset", uo.Op)

	st, ok := status.FromError(err)
	require.True(t, ok)
	assert.Equal(t, codes.Unimplemented, st.Code())
}

func TestIteratorAdapter_CloseForwards(t *testing.T) {
	cursor := newForwardCursor(1)
	it := NewIteratorAdapter[int](cursor)
	require.NoError(t, it.Close())
	assert.Equal(t, 1, cursor.closed)

	// A cursor without Close is fine.
	assert.NoError(t, NewIteratorAdapter[int](untyped.NewSliceList().Cursor()).Close())
}

func TestIteratorAdapter_All(t *testing.T) {
	it := NewIteratorAdapter[int](newForwardCursor(1, 2.5, 3))

	var got []int
	var errs []error
	for v, err := range it.All() {
		if err != nil {
			errs = append(errs, err)
			continue
		}
		got = append(got, v)
	}
	assert.Equal(t, []int{1, 3}, got)
	require.Len(t, errs, 1)
	assert.True(t, convert.IsTypeMismatch(errs[0]))
}

func TestIteratorAdapter_AllStopsEarly(t *testing.T) {
	cursor := newForwardCursor(1, 2, 3)
	it := NewIteratorAdapter[int](cursor)

	for v := range it.All() {
		if v == 2 {
			break
		}
	}

	// The adapter shares the cursor, so iteration resumes after the break.
	require.True(t, it.Next())
	v, err := it.Current()
	require.NoError(t, err)
	assert.Equal(t, 3, v)
}

func TestIteratorAdapter_NilCursor(t *testing.T) {
	it := NewIteratorAdapter[any](nil)
	assert.False(t, it.Next())
	_, err := it.Current()
	assert.ErrorIs(t, err, ErrNotPositioned)
	assert.Nil(t, it.CurrentUntyped())
	assert.NoError(t, it.Close())
}

func TestIteratorAdapter_CurrentOutsideElements(t *testing.T) {
	it := NewIteratorAdapter[any](untyped.NewSliceList(1).Cursor())

	v, err := it.Current()
	assert.ErrorIs(t, err, ErrNotPositioned)
	assert.Nil(t, v)

	require.True(t, it.Next())
	v, err = it.Current()
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	assert.False(t, it.Next())
	_, err = it.Current()
	assert.ErrorIs(t, err, ErrNotPositioned)
	assert.False(t, convert.IsTypeMismatch(err))

	ints := NewIteratorAdapter[int](untyped.NewSliceList(1).Cursor())
	_, err = ints.Current()
	assert.ErrorIs(t, err, ErrNotPositioned)

	require.True(t, ints.Next())
	require.NoError(t, ints.Reset())
	_, err = ints.Current()
	assert.ErrorIs(t, err, ErrNotPositioned)
}

func TestIteratorAdapter_InterfaceTarget(t *testing.T) {
	it := NewIteratorAdapter[error](newForwardCursor(assert.AnError, nil, "boom"))

	require.True(t, it.Next())
	v, err := it.Current()
	require.NoError(t, err)
	assert.Equal(t, assert.AnError, v)

	require.True(t, it.Next())
	v, err = it.Current()
	require.NoError(t, err)
	assert.Nil(t, v)

	require.True(t, it.Next())
	_, err = it.Current()
	assert.True(t, convert.IsTypeMismatch(err))
}
