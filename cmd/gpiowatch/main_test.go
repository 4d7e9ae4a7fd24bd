package main

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/BertoldVdb/go-gpiocdev/gpiochip"
)

func TestEventName(t *testing.T) {
	require.Equal(t, "REQUESTED", eventName(gpiochip.InfoEventLineRequested))
	require.Equal(t, "RELEASED", eventName(gpiochip.InfoEventLineReleased))
	require.Equal(t, "RECONFIG", eventName(gpiochip.InfoEventLineConfigChanged))
	require.Equal(t, "UNKNOWN", eventName(gpiochip.InfoEventType(0)))
}
