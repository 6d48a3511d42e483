package main

import "github.com/valpere/tranhook/cmd"

func main() {
	cmd.Execute()
}
