package keyring_test

import (
	"testing"

	"github.com/alkime/carepost/internal/keyring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gokeyring "github.com/zalando/go-keyring"
)

func TestForProvider(t *testing.T) {
	k, err := keyring.ForProvider(" Gemini ")
	require.NoError(t, err)
	assert.Equal(t, keyring.Gemini, k)
	assert.Equal(t, "anthropic", keyring.Anthropic.DisplayName())

	_, err = keyring.ForProvider("mistral")
	assert.ErrorIs(t, err, keyring.ErrUnknownProvider)
}

func TestSetGetResolve(t *testing.T) {
	gokeyring.MockInit()

	assert.False(t, keyring.IsSet(keyring.OpenAI))
	assert.Empty(t, keyring.Resolve("openai", ""))

	require.NoError(t, keyring.Set(keyring.OpenAI, "sk-stored"))

	got, err := keyring.Get(keyring.OpenAI)
	require.NoError(t, err)
	assert.Equal(t, "sk-stored", got)
	assert.True(t, keyring.IsSet(keyring.OpenAI))

	assert.Equal(t, "sk-stored", keyring.Resolve("openai", ""))
	assert.Equal(t, "sk-env", keyring.Resolve("openai", "sk-env"))
	assert.Empty(t, keyring.Resolve("unknown", ""))
}
