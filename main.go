package main

import "github.com/Emes13/habittrax/cmd"

func main() {
	cmd.Execute()
}
