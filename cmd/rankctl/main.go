// Copyright (c) 2026 Husbandometrics. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command rankctl is the operator CLI. It runs against the same wiring as
// the API server, configured from the same environment variables.
//
// Examples:
//
//	rankctl rankings --source-type GAME
//	rankctl show gojo-satoru
//	rankctl refresh
//	rankctl migrate
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCommand(os.Stdout, os.Stderr).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
