package main

import (
	"fmt"
	"os"

	"wallpapers/internal"
)

func main() {
	err := internal.Bootstrap()
	if err != nil {
		fmt.Fprint(os.Stderr, "Bootstrap error: "+err.Error())
		os.Exit(1)
	}
}
