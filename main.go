// main holds the entry logic for the freshscore CLI.
package main

import (
	"fmt"
	"os"

	"freshscore/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Println("❌", err)
		os.Exit(1)
	}
}
