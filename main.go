package main

import "github.com/Rorical/RoriComplete/cmd"

func main() {
	cmd.Execute()
}
