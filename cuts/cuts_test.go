package cuts

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMediumWP(t *testing.T) {
	wp, ok := MediumWP(DeepFlavour, Run2018)
	require.True(t, ok)
	require.Equal(t, 0.2770, wp)

	wp, ok = MediumWP(CSVv2, Run2016)
	require.True(t, ok)
	require.Equal(t, 0.800, wp)

	_, ok = MediumWP(CSVv2, Run2018)
	require.False(t, ok)
}
