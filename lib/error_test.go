package lib

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestErrorIs(t *testing.T) {
	a := NewError(CodeInvalidAmount, DexModule, "amount must be positive")
	b := NewError(CodeInvalidAmount, DexModule, "another message")
	require.ErrorIs(t, a, b)
	// identical codes in different modules are different errors
	require.False(t, errors.Is(a, NewError(CodeInvalidAmount, StorageModule, "")))
	require.False(t, errors.Is(a, NewError(CodePoolNotFound, DexModule, "")))
	// wrapping preserves identity
	require.ErrorIs(t, fmt.Errorf("context: %w", a), b)
}

func TestIsCode(t *testing.T) {
	err := NewError(CodePostRequest, RPCModule, "connection refused")
	require.True(t, IsCode(err, RPCModule, CodePostRequest))
	require.True(t, IsCode(fmt.Errorf("wrapped: %w", err), RPCModule, CodePostRequest))
	require.False(t, IsCode(err, DexModule, CodePostRequest))
	require.False(t, IsCode(errors.New("plain"), RPCModule, CodePostRequest))
	require.False(t, IsCode(nil, RPCModule, CodePostRequest))
}

func TestErrorString(t *testing.T) {
	err := NewError(CodeSlippageExceeded, DexModule, "too little out")
	require.Equal(t, "\nModule:  dex\nCode:    4\nMessage: too little out", err.Error())
	require.Equal(t, err.Error(), err.String())
	require.Equal(t, CodeSlippageExceeded, err.Code())
	require.Equal(t, DexModule, err.Module())
}
