package main

import "github.com/mattevans-umac/umacgo/cmd/macemu/cmd"

func main() {
	cmd.Execute()
}
