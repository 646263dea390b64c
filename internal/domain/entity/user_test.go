package entity

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewUser_DefaultState(t *testing.T) {
	u := NewUser(1, 10)
	require.Equal(t, StateMainMenu, u.State)
	require.Equal(t, int64(1), u.ID)
	require.Equal(t, int64(10), u.ChatID)
	require.Equal(t, DefaultPrompt, u.EffectivePrompt())
}

func TestUser_SetPrompt(t *testing.T) {
	u := NewUser(1, 10)
	u.SetPrompt("  What text is on the sign?  ")
	require.Equal(t, "What text is on the sign?", u.EffectivePrompt())

	u.SetPrompt("")
	require.Equal(t, DefaultPrompt, u.EffectivePrompt())
}
