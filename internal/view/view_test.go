package view

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func pageNumbers(items []PageItem) []int {
	out := make([]int, 0, len(items))
	for _, it := range items {
		if it.Ellipsis {
			out = append(out, 0)
			continue
		}
		out = append(out, it.Page)
	}
	return out
}

func TestPageItems(t *testing.T) {
	tests := []struct {
		name    string
		current int
		total   int
		want    []int
	}{
		{"single page", 1, 1, []int{}},
		{"no pages", 1, 0, []int{}},
		{"two pages", 1, 2, []int{1, 2}},
		{"start of five", 1, 5, []int{1, 2, 0, 5}},
		{"middle of five", 3, 5, []int{1, 2, 3, 4, 5}},
		{"end of five", 5, 5, []int{1, 0, 4, 5}},
		{"middle of ten", 5, 10, []int{1, 0, 4, 5, 6, 0, 10}},
		{"clamped past end", 12, 10, []int{1, 0, 9, 10}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, pageNumbers(PageItems(tt.current, tt.total)))
		})
	}
}

func TestPageItemsMarksCurrent(t *testing.T) {
	for _, it := range PageItems(4, 10) {
		assert.Equal(t, it.Page == 4, it.Current)
	}
}

func TestBadgeLabel(t *testing.T) {
	assert.Equal(t, "0", BadgeLabel(0))
	assert.Equal(t, "99", BadgeLabel(99))
	assert.Equal(t, "99+", BadgeLabel(100))
	assert.Equal(t, "99+", BadgeLabel(4321))
}

func TestMoney(t *testing.T) {
	assert.Equal(t, "$0.00", Money(0))
	assert.Equal(t, "$32.85", Money(32.85))
	assert.Equal(t, "$35.00", Money(35))
}

func TestTitle(t *testing.T) {
	assert.Equal(t, "Vegetarian Stir Fry", Title("vegetarian stir fry"))
	assert.Equal(t, "Italian", Title(" italian "))
}

func TestStars(t *testing.T) {
	assert.Equal(t, []bool{true, true, true, true, false}, Stars(4.4))
	assert.Equal(t, []bool{true, true, true, true, true}, Stars(4.6))
	assert.Equal(t, []bool{false, false, false, false, false}, Stars(0))
}

func TestDiscountPercent(t *testing.T) {
	assert.Equal(t, 20, DiscountPercent(32, 40))
	assert.Equal(t, 0, DiscountPercent(40, 32))
	assert.Equal(t, 0, DiscountPercent(10, 0))
}

func TestDict(t *testing.T) {
	m, err := Dict("Recipe", 1, "Listed", true)
	assert.NoError(t, err)
	assert.Equal(t, map[string]any{"Recipe": 1, "Listed": true}, m)

	_, err = Dict("odd")
	assert.Error(t, err)
	_, err = Dict(1, 2)
	assert.Error(t, err)
}
