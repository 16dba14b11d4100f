package main

import "github.com/KaramelBytes/noshowboard/cmd"

func main() {
	cmd.Execute()
}
