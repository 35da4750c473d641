package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateAdd(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		require.NoError(t, ValidateAdd("apple", 10))
		require.NoError(t, ValidateAdd("apple", 0))
	})

	t.Run("empty item", func(t *testing.T) {
		require.ErrorIs(t, ValidateAdd("", 10), ErrEmptyItem)
	})

	t.Run("negative quantity", func(t *testing.T) {
		require.ErrorIs(t, ValidateAdd("banana", -2), ErrNegativeQuantity)
	})

	t.Run("empty item wins over negative quantity", func(t *testing.T) {
		require.ErrorIs(t, ValidateAdd("", -1), ErrEmptyItem)
	})
}

func TestIsValidAction(t *testing.T) {
	t.Run("valid actions", func(t *testing.T) {
		for _, v := range []string{ActionAdd, ActionRemove} {
			require.True(t, IsValidAction(v), "expected valid action: %s", v)
		}
	})

	t.Run("invalid actions", func(t *testing.T) {
		for _, v := range []string{"", "adds", "delete", "ADD"} {
			require.False(t, IsValidAction(v), "expected invalid action: %s", v)
		}
	})
}
