package main

import (
	"testing"

	"github.com/alejandrodnm/quantohedge/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLeg(t *testing.T) {
	kind, amount, strike, err := parseLeg("eth-put:0.75:1800")
	require.NoError(t, err)
	assert.Equal(t, domain.LegETHPut, kind)
	assert.Equal(t, 0.75, amount)
	assert.Equal(t, 1800.0, strike)

	_, _, _, err = parseLeg("xrp-call:1:1")
	assert.ErrorIs(t, err, domain.ErrUnknownLeg)

	for _, raw := range []string{"eth-put:1", "eth-put:x:1800", "eth-put:1:x"} {
		_, _, _, err = parseLeg(raw)
		assert.Error(t, err, raw)
	}
}

func TestRootCmd_Commands(t *testing.T) {
	root, _ := newRootCmd()
	names := map[string]bool{}
	for _, c := range root.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"prices", "surface", "optimize", "history"} {
		assert.True(t, names[want], want)
	}
	for _, flag := range []string{"config", "offline", "verbose", "format"} {
		assert.NotNil(t, root.PersistentFlags().Lookup(flag), flag)
	}
}
