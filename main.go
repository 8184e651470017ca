package main

import "midi-clock/cmd"

func main() {
	cmd.Execute()
}
