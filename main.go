// main.go
package main

import (
	"os"

	"cmv-site/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
