package main

import "github.com/packmill/packmill/cmd/pack-groups/cmd"

func main() {
	cmd.Execute()
}
