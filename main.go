package main

import "github.com/joecammo/Daemon/cmd"

func main() {
	cmd.Execute()
}
