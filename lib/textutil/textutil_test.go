package textutil

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeName(t *testing.T) {
	testCases := []struct {
		name     string
		expected string
	}{
		{name: "Ковальов О. О.", expected: "ковальово.о."},
		{name: "  Дем`янчук  О.\tП. ", expected: "дем'янчуко.п."},
		{name: "Дем’янчук О. П.", expected: "дем'янчуко.п."},
		{name: "", expected: ""},
	}

	for _, test := range testCases {
		require.Equal(t, test.expected, NormalizeName(test.name), test.name)
	}
}
