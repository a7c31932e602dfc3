package main

import "chapter-sync/cmd"

func main() {
	cmd.Execute()
}
