package main

import "github.com/mattevans-umac/umacgo/cmd/romtool/cmd"

func main() {
	cmd.Execute()
}
