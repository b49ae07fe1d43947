package main

import "github.com/jonandersen/apca/cmd"

func main() {
	cmd.Execute()
}
