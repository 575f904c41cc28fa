// Copyright 2026 The WhereAmI Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"github.com/whereami-dev/whereami/cmd"
)

var Version = "development"

func main() {
	cmd.Execute(Version)
}
