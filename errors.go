package ui

import (
	"errors"
)

// Invariant violations. They are raised with panic since they can only
// result from a programming error on the caller side.
var (
	ErrCycle              = errors.New("ui: can't set own child as parent")
	ErrAlreadyParented    = errors.New("ui: node is already attached to a parent")
	ErrForeignTree        = errors.New("ui: can't move a node from one state tree to another")
	ErrIDReassigned       = errors.New("ui: can't change id once it has been assigned")
	ErrUnknownNamespace   = errors.New("ui: namespace kind is not registered")
	ErrDuplicateNamespace = errors.New("ui: namespace name is already registered")
	ErrRegistryFrozen     = errors.New("ui: registry is frozen")
	ErrWrongNamespace     = errors.New("ui: namespace does not have the requested type")
	ErrInvalidValue       = errors.New("ui: invalid value for namespace")
	ErrRootParent         = errors.New("ui: root node can't have a parent")
	ErrIndexOutOfRange    = errors.New("ui: list index out of range")
)

// Validation errors. They are returned before any state is modified.
var (
	ErrInvalidName      = errors.New("ui: invalid name")
	ErrInvalidClassName = errors.New("ui: invalid class name")
)
