package main

import "github.com/packmill/packmill/cmd/pack-publisher/cmd"

func main() {
	cmd.Execute()
}
