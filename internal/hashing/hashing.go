package hashing

import (
	"crypto/sha512"
	"encoding/hex"

	"go.uber.org/zap"
)

var logger = zap.NewNop()

// Initialize sets the package logger, call once at process start
func Initialize(l *zap.Logger) {
	logger = l
}

// Calculate returns the hex encoded SHA-512 hash of the data
func Calculate(data []byte) string {
	hash := sha512.New()
	if _, err := hash.Write(data); err != nil {
		logger.Error("failed to write to the hash function: " + err.Error())
		return ""
	}

	return hex.EncodeToString(hash.Sum(nil))
}
