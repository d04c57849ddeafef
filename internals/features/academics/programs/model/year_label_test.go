package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestYearLabel(t *testing.T) {
	cases := map[int]string{
		1:   "1st Year",
		2:   "2nd Year",
		3:   "3rd Year",
		4:   "4th Year",
		11:  "11th Year",
		12:  "12th Year",
		13:  "13th Year",
		21:  "21st Year",
		22:  "22nd Year",
		111: "111th Year",
	}
	for n, want := range cases {
		assert.Equal(t, want, YearLabel(n))
	}
}

func TestYearOrdinal(t *testing.T) {
	n, ok := YearOrdinal("3rd Year")
	assert.True(t, ok)
	assert.Equal(t, 3, n)

	n, ok = YearOrdinal(" 11th Year ")
	assert.True(t, ok)
	assert.Equal(t, 11, n)

	for _, bad := range []string{"", "Year", "1th Year", "3st Year", "0th Year", "first Year", "1st year", "1st"} {
		_, ok := YearOrdinal(bad)
		assert.False(t, ok, bad)
	}
}

func TestYearLabels(t *testing.T) {
	assert.Equal(t, []string{"1st Year", "2nd Year", "3rd Year"}, YearLabels(3))
	assert.Nil(t, YearLabels(0))
}
