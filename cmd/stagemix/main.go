// SPDX-License-Identifier: EPL-2.0

// Command stagemix plays, renders and inspects multi-track songs.
package main

func main() {
	Execute()
}
