package main

import "github.com/kozaktomas/petface/cmd"

func main() {
	cmd.Execute()
}
