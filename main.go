package main

import "github.com/curaious/finca/cmd"

func main() {
	cmd.Execute()
}
