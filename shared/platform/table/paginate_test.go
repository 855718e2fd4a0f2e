package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaginate(t *testing.T) {
	records := make([]int, 23)
	for i := range records {
		records[i] = i
	}

	last := Paginate(records, 10, 2)
	assert.Equal(t, 3, last.TotalPages)
	assert.Equal(t, []int{20, 21, 22}, last.Items)

	var all []int
	for i := 0; i < last.TotalPages; i++ {
		all = append(all, Paginate(records, 10, i).Items...)
	}
	assert.Equal(t, records, all)

	clamped := Paginate(records, 10, 7)
	assert.Equal(t, 2, clamped.Index)

	def := Paginate(records, 0, 0)
	assert.Equal(t, DefaultPageSize, def.Size)
}

func TestPaginate_Empty(t *testing.T) {
	p := Paginate([]int{}, 10, 3)
	assert.Equal(t, 0, p.Index)
	assert.Equal(t, 0, p.TotalPages)
	assert.Empty(t, p.Items)
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 0, TotalPages(0, 10))
	assert.Equal(t, 1, TotalPages(10, 10))
	assert.Equal(t, 2, TotalPages(11, 10))
}
