package main

import "github.com/packmill/packmill/cmd/pack-updater/cmd"

func main() {
	cmd.Execute()
}
