package gpiochip

import "strings"

func bytesToString(input []byte) string {
	return strings.TrimRight(string(input), "\x00")
}

func stringToBytes(input string, output []byte) {
	n := copy(output, input)

	if n >= len(output) {
		n = len(output) - 1
	}

	// Null terminate string
	output[n] = 0
}
