package main

import "github.com/packmill/packmill/cmd/pack-resolver/cmd"

func main() {
	cmd.Execute()
}
