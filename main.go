package main

import "github.com/vietdv277/hush/cmd"

func main() {
	cmd.Execute()
}
