/*
Copyright © 2025 Pulse Authors
SPDX-License-Identifier: Apache-2.0
*/
package main

import "github.com/pulse-bench/pulse/pkg/cli"

func main() {
	cli.Execute()
}
