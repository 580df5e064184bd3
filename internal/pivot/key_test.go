package pivot

import (
	"testing"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paveg/crosstab/internal/dataset"
)

func TestKeyExtractor(t *testing.T) {
	mem := memory.NewGoAllocator()
	ds := dataset.New(
		dataset.NewColumn("region", []string{"east", "west"}, mem),
		dataset.NewColumn("amount", []int64{10, 20}, mem),
	)
	defer ds.Release()

	ex := newKeyExtractor(ds, []string{"region", "amount"})
	assert.Equal(t, 2, ex.width())

	key := ex.keyAt(1)
	require.Len(t, key, 2)
	assert.Equal(t, "west", key[0].Str())
	assert.Equal(t, int64(20), key[1].Int64())

	empty := newKeyExtractor(ds, nil)
	assert.Equal(t, 0, empty.width())
	assert.Empty(t, empty.keyAt(0))
}

func TestKeyExtractorAppendKeyBytes(t *testing.T) {
	mem := memory.NewGoAllocator()
	ds := dataset.New(
		dataset.NewColumn("region", []string{"east", "east", "west"}, mem),
		dataset.NewColumn("amount", []int64{10, 10, 10}, mem),
	)
	defer ds.Release()

	ex := newKeyExtractor(ds, []string{"region", "amount"})

	a := ex.appendKeyBytes(nil, 0)
	b := ex.appendKeyBytes(nil, 1)
	c := ex.appendKeyBytes(nil, 2)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)

	// Appending extends the destination rather than replacing it.
	prefixed := ex.appendKeyBytes([]byte{0xff}, 0)
	assert.Equal(t, byte(0xff), prefixed[0])
	assert.Equal(t, a, prefixed[1:])
}

func TestCompareKeys(t *testing.T) {
	east10 := []Scalar{StringScalar("east"), Int64Scalar(10)}
	east20 := []Scalar{StringScalar("east"), Int64Scalar(20)}
	west10 := []Scalar{StringScalar("west"), Int64Scalar(10)}
	nullFirst := []Scalar{NullScalar(), Int64Scalar(10)}

	assert.Equal(t, 0, compareKeys(east10, east10))
	assert.Negative(t, compareKeys(east10, east20))
	assert.Negative(t, compareKeys(east20, west10))
	assert.Positive(t, compareKeys(west10, east10))

	// Null components order before every concrete value.
	assert.Negative(t, compareKeys(nullFirst, east10))
}

func TestKeyStrings(t *testing.T) {
	key := []Scalar{StringScalar("east"), Int64Scalar(10), NullScalar()}
	assert.Equal(t, []string{"east", "10", "null"}, keyStrings(key))
}

func TestFlattenKey(t *testing.T) {
	assert.Equal(t, "sum_amount", flattenKey(nil, "sum_amount"))
	assert.Equal(t, "east_sum_amount",
		flattenKey([]Scalar{StringScalar("east")}, "sum_amount"))
	assert.Equal(t, "east_widget_mean_price",
		flattenKey([]Scalar{StringScalar("east"), StringScalar("widget")}, "mean_price"))
	assert.Equal(t, "null_sum_amount",
		flattenKey([]Scalar{NullScalar()}, "sum_amount"))
}
