package main

import "github.com/upkeepcli/upkeep/cmd"

func main() {
	cmd.Execute()
}
