package main

import "github.com/amgomez49/SF-desuscripcion/cmd"

func main() {
	cmd.Execute()
}
