package level

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelFor_Boundaries(t *testing.T) {
	table := NewDefaultTable()

	cases := []struct {
		name string
		exp  int
		want int
	}{
		{"zero exp is level 1", 0, 1},
		{"just below first threshold", 49, 1},
		{"exactly first threshold", 50, 2},
		{"just below second threshold", 119, 2},
		{"exactly second threshold", 120, 3},
		{"top threshold", 6430, 29},
		{"far beyond top threshold", 100000, 29},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, table.LevelFor(tc.exp))
		})
	}
}

func TestLevelFor_Monotonic(t *testing.T) {
	table := NewDefaultTable()

	prev := 0
	for exp := 0; exp <= 7000; exp += 7 {
		lv := table.LevelFor(exp)
		require.GreaterOrEqual(t, lv, prev, "level regressed at exp=%d", exp)
		prev = lv
	}
}

func TestExpForNext(t *testing.T) {
	table := NewDefaultTable()

	assert.Equal(t, 50, table.ExpForNext(0))
	assert.Equal(t, 120, table.ExpForNext(50))
	// 满级后返回最高阈值
	assert.Equal(t, 6430, table.ExpForNext(6430))
	assert.Equal(t, 6430, table.ExpForNext(99999))
}

func TestNewTable_CopiesInput(t *testing.T) {
	src := []int{0, 10, 20}
	table := NewTable(src)
	src[1] = 9999

	assert.Equal(t, 2, table.LevelFor(10))
}
