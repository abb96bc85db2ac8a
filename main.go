package main

import "github.com/KaramelBytes/mhdash/cmd"

func main() {
	cmd.Execute()
}
