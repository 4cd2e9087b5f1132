package main

import "faculty-connect/cmd"

func main() {
	cmd.Execute()
}
