package main

import "github.com/precifi/precifi-go/cmd/precifi/cmd"

func main() {
	cmd.Execute()
}
