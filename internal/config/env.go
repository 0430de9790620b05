// Package config provides environment helpers for go-paintbrush commands.
package config

import (
	"os"
	"strconv"
)

// Environment variable names.
const (
	EnvDevice   = "PAINT_DEVICE"
	EnvWidth    = "PAINT_WIDTH"
	EnvHeight   = "PAINT_HEIGHT"
	EnvLogLevel = "PAINT_LOG_LEVEL"
)

// String returns the value of key, or def if unset or empty.
func String(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// Int returns the integer value of key, or def if unset or unparsable.
func Int(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

// Device returns the camera device from PAINT_DEVICE.
// Falls back to the provided default if not set.
func Device(def string) string {
	return String(EnvDevice, def)
}

// LogLevel returns the log level from PAINT_LOG_LEVEL or def.
func LogLevel(def string) string {
	return String(EnvLogLevel, def)
}
