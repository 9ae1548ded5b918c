package projects

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSpreadIncrease(t *testing.T) {
	cases := []struct {
		name     string
		rows     []materialRow
		quantity int
		expected []int
	}{
		{
			"single row takes all",
			[]materialRow{{ID: 1, Required: 10, Claimed: 0}},
			4,
			[]int{4},
		},
		{
			"fills remaining requirement in row order",
			[]materialRow{
				{ID: 1, Required: 10, Claimed: 8},
				{ID: 2, Required: 5, Claimed: 0},
			},
			6,
			[]int{2, 4},
		},
		{
			"excess beyond requirement lands on the last row",
			[]materialRow{
				{ID: 1, Required: 10, Claimed: 10},
				{ID: 2, Required: 5, Claimed: 5},
			},
			3,
			[]int{0, 3},
		},
		{
			"over-claimed row contributes nothing",
			[]materialRow{
				{ID: 1, Required: 5, Claimed: 9},
				{ID: 2, Required: 5, Claimed: 0},
			},
			4,
			[]int{0, 4},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, spreadIncrease(tc.rows, tc.quantity))
		})
	}
}

func TestSpreadDecrease(t *testing.T) {
	cases := []struct {
		name     string
		rows     []materialRow
		quantity int
		expected []int
		clamped  int
	}{
		{
			"single row absorbs all",
			[]materialRow{{ID: 1, Claimed: 10}},
			4,
			[]int{4},
			0,
		},
		{
			"spreads across phases without raising any row",
			[]materialRow{
				{ID: 1, Claimed: 10},
				{ID: 2, Claimed: 5},
			},
			3,
			[]int{3, 0},
			0,
		},
		{
			"drains rows in order and clamps the leftover",
			[]materialRow{
				{ID: 1, Claimed: 2},
				{ID: 2, Claimed: 3},
			},
			10,
			[]int{2, 3},
			5,
		},
		{
			"zero-claimed rows stay untouched",
			[]materialRow{
				{ID: 1, Claimed: 0},
				{ID: 2, Claimed: 4},
			},
			4,
			[]int{0, 4},
			0,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			takes, clamped := spreadDecrease(tc.rows, tc.quantity)
			assert.Equal(t, tc.expected, takes)
			assert.Equal(t, tc.clamped, clamped)
		})
	}
}
