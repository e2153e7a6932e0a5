package main

import (
	"os"

	matchvisioncmder "github.com/papercomputeco/matchvision/cmd/matchvision"
)

func main() {
	cmd := matchvisioncmder.NewMatchvisionCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
