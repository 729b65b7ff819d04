package main

import "github.com/example/userboard/cmd"

func main() {
	cmd.Execute()
}
