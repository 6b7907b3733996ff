package main

import "github.com/inclusivevents/client/cmd/eventctl/cmd"

func main() {
	cmd.Execute()
}
