package fmap

import (
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ib-77/ropize/pkg/rop"
	"github.com/ib-77/ropize/pkg/rop/ize"
)

func ok[T any](v T) rop.Outcome[T] {
	return rop.Success[T, rop.Fault](v)
}

func failed[T any](kind rop.Kind, msg string) rop.Outcome[T] {
	return rop.Failure[T](rop.NewFault(kind, errors.New(msg)))
}

func TestTransformExcept_IdentityOnFailure(t *testing.T) {
	t.Parallel()
	in := failed[string](rop.KindMissingKey, "gone")

	called := false
	out, err := TransformExcept(in, func(s string) (int, error) {
		called = true
		return len(s), nil
	}, rop.KindNumberFormat)

	require.NoError(t, err)
	assert.False(t, called, "fn must not run on a failure")
	assert.Equal(t, in.Id(), out.Id())
	assert.Equal(t, in.String(), out.String())
	f, isErr := out.Err()
	require.True(t, isErr)
	assert.Equal(t, rop.KindMissingKey, f.Kind())
}

func TestTransformExcept_Success(t *testing.T) {
	t.Parallel()
	out, err := TransformExcept(ok("1"), strconv.Atoi)
	require.NoError(t, err)
	assert.Equal(t, "Success(1)", out.String())
}

func TestTransformExcept_CapturesDefaultKinds(t *testing.T) {
	t.Parallel()
	out, err := TransformExcept(ok("foo"), strconv.Atoi)
	require.NoError(t, err)

	f, isErr := out.Err()
	require.True(t, isErr)
	assert.Equal(t, rop.KindNumberFormat, f.Kind())
	trace, hasTrace := f.Trace()
	assert.True(t, hasTrace)
	assert.Contains(t, trace, "strconv.Atoi")
}

func TestTransformExcept_PropagatesOutsideAllowList(t *testing.T) {
	t.Parallel()
	_, err := TransformExcept(ok("foo"), strconv.Atoi, rop.KindMissingKey)
	require.Error(t, err)
	assert.Equal(t, rop.KindNumberFormat, rop.ClassifyError(err))
}

func TestTransformExceptWith_OmitTrace(t *testing.T) {
	t.Parallel()
	out, err := TransformExceptWith(ize.Config{OmitTrace: true}, ok("foo"), strconv.Atoi)
	require.NoError(t, err)
	f, _ := out.Err()
	_, hasTrace := f.Trace()
	assert.False(t, hasTrace)
}

func TestTransformExcept_ChainDoesNotWidenAllowList(t *testing.T) {
	t.Parallel()
	step1, err := TransformExcept(ok("7"), strconv.Atoi, rop.KindNumberFormat)
	require.NoError(t, err)

	assert.Panics(t, func() {
		_, _ = TransformExcept(step1, func(n int) (int, error) {
			return 10 / (n - 7), nil
		}, rop.KindNumberFormat)
	})
}

func TestIndex(t *testing.T) {
	t.Parallel()
	in := ok([]string{"a", "b"})

	out, err := Index(in, 1)
	require.NoError(t, err)
	assert.Equal(t, "Success('b')", out.String())

	out, err = Index(in, 2)
	require.NoError(t, err)
	f, _ := out.Err()
	assert.Equal(t, rop.KindOutOfRange, f.Kind())

	out, err = Index(in, -1)
	require.NoError(t, err)
	assert.True(t, out.IsFailure())
}

func TestKey(t *testing.T) {
	t.Parallel()
	in := ok(map[string]int{"a": 1})

	out, err := Key(in, "a")
	require.NoError(t, err)
	v, _ := out.Value()
	assert.Equal(t, 1, v)

	out, err = Key(in, "z")
	require.NoError(t, err)
	f, _ := out.Err()
	assert.Equal(t, rop.KindMissingKey, f.Kind())
	assert.ErrorIs(t, f, rop.KindMissingKey)
}

func TestIndexAny(t *testing.T) {
	t.Parallel()
	doc := ok[any](map[string]any{
		"users": []any{
			map[string]any{"name": "ann", "age": "41"},
		},
	})

	users, err := IndexAny(doc, "users")
	require.NoError(t, err)
	first, err := IndexAny(users, 0)
	require.NoError(t, err)
	age, err := IndexAny(first, "age")
	require.NoError(t, err)
	assert.Equal(t, "Success('41')", age.String())

	missing, err := IndexAny(first, "email")
	require.NoError(t, err)
	f, _ := missing.Err()
	assert.Equal(t, rop.KindMissingKey, f.Kind())

	beyond, err := IndexAny(users, 3)
	require.NoError(t, err)
	f, _ = beyond.Err()
	assert.Equal(t, rop.KindOutOfRange, f.Kind())

	// short-circuits after the first failure
	again, err := IndexAny(beyond, "x")
	require.NoError(t, err)
	assert.Equal(t, beyond.Id(), again.Id())

	_, err = IndexAny(users, "x")
	assert.Error(t, err, "a key of the wrong type is not captured")
}

func TestIndexAny_Containers(t *testing.T) {
	t.Parallel()
	arr := [3]int{7, 8, 9}
	out, err := IndexAny(ok[any](&arr), 2)
	require.NoError(t, err)
	assert.Equal(t, "Success(9)", out.String())

	out, err = IndexAny(ok[any]("hey"), 0)
	require.NoError(t, err)
	v, _ := out.Value()
	assert.Equal(t, byte('h'), v)

	out, err = IndexAny(ok[any](map[int64]string{3: "c"}), int64(3))
	require.NoError(t, err)
	assert.Equal(t, "Success('c')", out.String())

	_, err = IndexAny(ok[any](42), 0)
	assert.Error(t, err)
}

func TestOnlyOne(t *testing.T) {
	t.Parallel()
	one, err := OnlyOne(ok([]string{"foo"}))
	require.NoError(t, err)
	assert.Equal(t, "Success('foo')", one.String())

	for _, items := range [][]string{nil, {"a", "b"}} {
		out, err := OnlyOne(ok(items))
		require.NoError(t, err)
		f, isFailure := out.Err()
		require.True(t, isFailure)
		assert.Equal(t, rop.KindOutOfRange, f.Kind())
		assert.Contains(t, f.Error(), "items")
	}

	prior := failed[[]int](rop.KindMissingKey, "earlier")
	out, err := OnlyOne(prior)
	require.NoError(t, err)
	assert.Equal(t, prior.Id(), out.Id())
}

func TestIndexAny_UnsignedIndex(t *testing.T) {
	t.Parallel()
	out, err := IndexAny(ok[any]([]string{"a", "b"}), uint(1))
	require.NoError(t, err)
	assert.Equal(t, "Success('b')", out.String())

	out, err = IndexAny(ok[any]([]string{"a", "b"}), uint64(1<<63))
	require.NoError(t, err)
	f, _ := out.Err()
	assert.Equal(t, rop.KindOutOfRange, f.Kind())
}

func TestParseInt(t *testing.T) {
	t.Parallel()
	out, err := ParseInt(ok("42"))
	require.NoError(t, err)
	assert.Equal(t, "Success(42)", out.String())

	out, err = ParseInt(ok("foo"))
	require.NoError(t, err)
	f, _ := out.Err()
	assert.Equal(t, rop.KindNumberFormat, f.Kind())
	assert.Equal(t, "strconv.Atoi", f.Op())

	prior := failed[string](rop.KindOutOfRange, "earlier")
	out, err = ParseInt(prior)
	require.NoError(t, err)
	assert.Equal(t, prior.Id(), out.Id())

	_, err = ParseInt(ok("99999999999999999999"))
	assert.Error(t, err, "overflow is not a malformed number")
}

func TestParseInt_Spellings(t *testing.T) {
	t.Parallel()
	for in, want := range map[string]int{" 42 ": 42, "\t-7\n": -7, "1_000": 1000, "+1_2_3": 123} {
		out, err := ParseInt(ok(in))
		require.NoError(t, err, in)
		v, isOk := out.Value()
		assert.True(t, isOk, in)
		assert.Equal(t, want, v, in)
	}

	for _, in := range []string{"1__0", "_1", "1_", "1 000", ""} {
		out, err := ParseInt(ok(in))
		require.NoError(t, err, in)
		f, isFailure := out.Err()
		require.True(t, isFailure, in)
		assert.Equal(t, rop.KindNumberFormat, f.Kind(), in)
	}

	n, err := ParseIntN[uint16](ok(" 65_535 "))
	require.NoError(t, err)
	v, _ := n.Value()
	assert.Equal(t, uint16(65535), v)
}

func TestParseIntN(t *testing.T) {
	t.Parallel()
	small, err := ParseIntN[int8](ok("-12"))
	require.NoError(t, err)
	v, _ := small.Value()
	assert.Equal(t, int8(-12), v)

	over, err := ParseIntN[int8](ok("300"))
	require.NoError(t, err)
	f, _ := over.Err()
	assert.Equal(t, rop.KindNumberRange, f.Kind())

	neg, err := ParseIntN[uint16](ok("-1"))
	require.NoError(t, err)
	f, _ = neg.Err()
	assert.Equal(t, rop.KindNumberFormat, f.Kind())
}

func TestMapEach(t *testing.T) {
	t.Parallel()
	in := []string{"1", "x", "3", ""}

	out, err := MapEach(in, strconv.Atoi)
	require.NoError(t, err)
	require.Len(t, out, len(in))

	assert.Equal(t, "Success(1)", out[0].String())
	assert.True(t, out[1].IsFailure())
	assert.Equal(t, "Success(3)", out[2].String())
	assert.True(t, out[3].IsFailure())

	assert.Len(t, rop.GetErrors(Faults(out)), 2)
}

func TestMapEach_Empty(t *testing.T) {
	t.Parallel()
	out, err := MapEach([]string{}, strconv.Atoi)
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.NoError(t, Faults(out))
}

func TestMapEach_PropagatesOutsideAllowList(t *testing.T) {
	t.Parallel()
	_, err := MapEach([]string{"1", "x"}, strconv.Atoi, rop.KindMissingKey)
	assert.Error(t, err)

	assert.Panics(t, func() {
		_, _ = MapEach([]int{1, 0}, func(n int) (int, error) {
			if n == 0 {
				panic("zero")
			}
			return n, nil
		})
	})
}

func TestThenAndTee(t *testing.T) {
	t.Parallel()
	seen := 0
	out := Then(Tee(ok(2), func(v int) { seen = v }), func(v int) rop.Outcome[string] {
		return ok(strconv.Itoa(v * 2))
	})
	assert.Equal(t, 2, seen)
	assert.Equal(t, "Success('4')", out.String())

	seen = 0
	bad := failed[int](rop.KindError, "x")
	out = Then(Tee(bad, func(v int) { seen = v }), func(v int) rop.Outcome[string] {
		t.Fatal("must not be called")
		return ok("")
	})
	assert.Zero(t, seen)
	assert.Equal(t, bad.Id(), out.Id())
}

func TestCollect(t *testing.T) {
	t.Parallel()
	all := Collect([]rop.Outcome[int]{ok(1), ok(2)})
	assert.Equal(t, "Success([1, 2])", all.String())

	bad := failed[int](rop.KindNumberFormat, "x")
	some := Collect([]rop.Outcome[int]{ok(1), bad, failed[int](rop.KindError, "y")})
	assert.Equal(t, bad.Id(), some.Id())
}
