// Package plugin implements the block plugin contract: a loader that
// opens an external library, reads its module descriptor, and
// constructs stream processors it advertises by name (spec §6).
/*
 * Copyright (c) 2018-2023, NVIDIA CORPORATION. All rights reserved.
 */
package plugin

import "fmt"

// Version is a module's semantic version triple.
type Version struct {
	Major uint32
	Minor uint32
	Build uint32
}

func (v Version) String() string { return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Build) }

// Dependency names a block type this module requires, which some
// already-loaded module must list in its Provides, and the minimum
// version of that providing module.
type Dependency struct {
	Name    string
	Version Version
}

// Descriptor is the static module metadata every plugin library
// exports: name, description, authorship, and what it Provides
// (block type names a factory can construct) versus Depends on
// (block types that already-loaded modules must provide).
type Descriptor struct {
	Name         string
	Description  string
	Authors      string
	ReleaseDate  string
	Version      Version
	Dependencies []Dependency
	Provides     []string
}
