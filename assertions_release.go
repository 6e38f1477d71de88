//go:build !uidebug

package ui

const assertionsDefault = false
