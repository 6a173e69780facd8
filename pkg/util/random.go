package util

import (
	"math/rand"
	"strings"
)

// GenerateOTP generates a numeric one-time code of the given length
func GenerateOTP(length int) string {
	var sb strings.Builder
	for i := 0; i < length; i++ {
		sb.WriteByte(byte('0' + rand.Intn(10)))
	}
	return sb.String()
}
