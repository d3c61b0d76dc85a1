package main

import "github.com/packmill/packmill/cmd/pack-version/cmd"

func main() {
	cmd.Execute()
}
