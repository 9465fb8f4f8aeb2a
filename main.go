package main

import "github.com/hubwatch/hubwatch/cmd"

func main() {
	cmd.Execute()
}
