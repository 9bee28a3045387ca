package main

import "reroute/cmd"

func main() {
	cmd.Execute()
}
