package window_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foliolib/folio/pkg/window"
)

// seq returns the ordered ints [0, n).
func seq(n int) []int {
	s := make([]int, n)
	for i := range s {
		s[i] = i
	}

	return s
}

func TestNew(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		opts             []window.Opt
		expectedPageSize int
	}{
		"default page size": {
			expectedPageSize: 36,
		},
		"custom page size": {
			opts:             []window.Opt{window.WithPageSize(10)},
			expectedPageSize: 10,
		},
		"zero page size falls back to default": {
			opts:             []window.Opt{window.WithPageSize(0)},
			expectedPageSize: window.DefaultPageSize,
		},
		"negative page size falls back to default": {
			opts:             []window.Opt{window.WithPageSize(-5)},
			expectedPageSize: window.DefaultPageSize,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			w := window.New(seq(100), tc.opts...)

			assert.Equal(t, tc.expectedPageSize, w.PageSize())
			assert.Equal(t, 100, w.Len())
			assert.False(t, w.Loaded())
			assert.Equal(t, 0, w.Page())
		})
	}
}

func TestLoadFirst(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		length            int
		pageSize          int
		expectedItems     []int
		expectedRemaining int
	}{
		"sequence longer than one page": {
			length:            40,
			pageSize:          36,
			expectedItems:     seq(36),
			expectedRemaining: 4,
		},
		"sequence shorter than one page": {
			length:            5,
			pageSize:          10,
			expectedItems:     seq(5),
			expectedRemaining: 0,
		},
		"sequence equal to one page": {
			length:            36,
			pageSize:          36,
			expectedItems:     seq(36),
			expectedRemaining: 0,
		},
		"empty sequence": {
			length:            0,
			pageSize:          10,
			expectedItems:     []int{},
			expectedRemaining: 0,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			w := window.New(seq(tc.length), window.WithPageSize(tc.pageSize))

			items, remaining, err := w.LoadFirst()
			require.NoError(t, err)

			assert.Equal(t, tc.expectedItems, items)
			assert.Equal(t, tc.expectedRemaining, remaining)
			assert.True(t, w.Loaded())
			assert.Equal(t, 1, w.Page())
		})
	}
}

func TestLoadFirstTwice(t *testing.T) {
	t.Parallel()

	w := window.New(seq(40))

	_, _, err := w.LoadFirst()
	require.NoError(t, err)

	items, remaining, err := w.LoadFirst()
	require.ErrorIs(t, err, window.ErrAlreadyLoaded)
	assert.Nil(t, items)
	assert.Zero(t, remaining)

	// The failed call must not advance the window.
	assert.Equal(t, 1, w.Page())
	assert.Equal(t, 4, w.Remaining())
}

func TestLoadNextBeforeFirst(t *testing.T) {
	t.Parallel()

	w := window.New(seq(40))

	items, remaining, err := w.LoadNext()
	require.ErrorIs(t, err, window.ErrNotLoaded)
	assert.Nil(t, items)
	assert.Zero(t, remaining)
	assert.False(t, w.Loaded())
}

func TestLoadNext(t *testing.T) {
	t.Parallel()

	// The worked example: page size 36 over 40 items.
	w := window.New(seq(40))

	items, remaining, err := w.LoadFirst()
	require.NoError(t, err)
	assert.Len(t, items, 36)
	assert.Equal(t, 4, remaining)
	assert.False(t, w.Exhausted())

	items, remaining, err = w.LoadNext()
	require.NoError(t, err)
	assert.Equal(t, []int{36, 37, 38, 39}, items)
	assert.Equal(t, 0, remaining)
	assert.True(t, w.Exhausted())

	// Loading past the end is not an error.
	items, remaining, err = w.LoadNext()
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.Equal(t, 0, remaining)
	assert.True(t, w.Exhausted())
}

func TestLoadAllPages(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		length   int
		pageSize int
	}{
		"uneven final page":           {length: 40, pageSize: 36},
		"exact multiple":              {length: 30, pageSize: 10},
		"single partial page":         {length: 3, pageSize: 36},
		"page size one":               {length: 7, pageSize: 1},
		"page size larger than input": {length: 4, pageSize: 100},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			w := window.New(seq(tc.length), window.WithPageSize(tc.pageSize))

			first, _, err := w.LoadFirst()
			require.NoError(t, err)

			union := append([]int{}, first...)
			for !w.Exhausted() {
				items, remaining, nextErr := w.LoadNext()
				require.NoError(t, nextErr)

				union = append(union, items...)
				assert.Equal(t, tc.length-len(union), remaining)
			}

			// Every item exactly once, in order.
			assert.Equal(t, seq(tc.length), union)
		})
	}
}

func TestReplace(t *testing.T) {
	t.Parallel()

	t.Run("resets an initialized window", func(t *testing.T) {
		t.Parallel()

		w := window.New(seq(40), window.WithPageSize(10))

		_, _, err := w.LoadFirst()
		require.NoError(t, err)
		_, _, err = w.LoadNext()
		require.NoError(t, err)

		w.Replace([]int{100, 101, 102})

		assert.False(t, w.Loaded())
		assert.Equal(t, 3, w.Len())
		assert.Equal(t, 3, w.Remaining())

		items, remaining, err := w.LoadFirst()
		require.NoError(t, err)
		assert.Equal(t, []int{100, 101, 102}, items)
		assert.Equal(t, 0, remaining)
	})

	t.Run("requires a new first load", func(t *testing.T) {
		t.Parallel()

		w := window.New(seq(40))

		_, _, err := w.LoadFirst()
		require.NoError(t, err)

		w.Replace(seq(20))

		_, _, err = w.LoadNext()
		require.ErrorIs(t, err, window.ErrNotLoaded)
	})

	t.Run("accepts an empty sequence", func(t *testing.T) {
		t.Parallel()

		w := window.New(seq(40))

		_, _, err := w.LoadFirst()
		require.NoError(t, err)

		w.Replace(nil)

		assert.Equal(t, 0, w.Remaining())

		items, remaining, err := w.LoadFirst()
		require.NoError(t, err)
		assert.Empty(t, items)
		assert.Equal(t, 0, remaining)
	})
}

func TestRemaining(t *testing.T) {
	t.Parallel()

	w := window.New(seq(25), window.WithPageSize(10))

	// Nothing shown yet, so everything remains.
	assert.Equal(t, 25, w.Remaining())

	_, _, err := w.LoadFirst()
	require.NoError(t, err)
	assert.Equal(t, 15, w.Remaining())

	_, _, err = w.LoadNext()
	require.NoError(t, err)
	assert.Equal(t, 5, w.Remaining())

	_, _, err = w.LoadNext()
	require.NoError(t, err)
	assert.Equal(t, 0, w.Remaining())

	// Never negative, even when loads continue past the end.
	_, _, err = w.LoadNext()
	require.NoError(t, err)
	assert.Equal(t, 0, w.Remaining())
}

func TestExhausted(t *testing.T) {
	t.Parallel()

	t.Run("uninitialized window is not exhausted", func(t *testing.T) {
		t.Parallel()

		w := window.New(seq(0))
		assert.False(t, w.Exhausted())
	})

	t.Run("empty sequence is exhausted after first load", func(t *testing.T) {
		t.Parallel()

		w := window.New(seq(0), window.WithPageSize(10))

		items, remaining, err := w.LoadFirst()
		require.NoError(t, err)
		assert.Empty(t, items)
		assert.Equal(t, 0, remaining)
		assert.True(t, w.Exhausted())
	})

	t.Run("partial page exhausts immediately", func(t *testing.T) {
		t.Parallel()

		w := window.New(seq(5), window.WithPageSize(10))

		_, _, err := w.LoadFirst()
		require.NoError(t, err)
		assert.True(t, w.Exhausted())
	})
}
