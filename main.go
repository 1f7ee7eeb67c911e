package main

import "tindog-backend/cmd"

func main() {
	cmd.Run()
}
