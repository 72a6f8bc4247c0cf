package entity

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBlemishCenter(t *testing.T) {
	b := Blemish{X: 10, Y: 20, Width: 8, Height: 6}
	x, y := b.Center()
	require.Equal(t, 14, x)
	require.Equal(t, 23, y)
}
