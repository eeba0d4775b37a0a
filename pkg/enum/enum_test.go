package enum

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("string enum", func(t *testing.T) {
		type Host string

		cloud := New(Host("cloud"), "Cloud")
		require.Equal(t, Host("cloud"), cloud)

		v, err := ToEnum[Host]("Cloud")
		require.NoError(t, err)
		require.Equal(t, cloud, v)

		_, err = ToEnum[Host]("cloud")
		require.Error(t, err)

		require.Equal(t, "Cloud", ToString(cloud))
		require.Equal(t, "", ToString(Host("disk")))
	})

	t.Run("int enum", func(t *testing.T) {
		type Level int

		high := New(Level(3), "high")
		low := New(Level(1), "low")

		v, err := ToEnum[Level]("low")
		require.NoError(t, err)
		require.Equal(t, low, v)
		require.Equal(t, "high", ToString(high))
	})

	t.Run("unregistered type", func(t *testing.T) {
		type Unknown string

		_, err := ToEnum[Unknown]("x")
		require.Error(t, err)
		require.Equal(t, "", ToString(Unknown("x")))
	})
}
