package main

import "github.com/CosmoTheDev/artiscan/cmd"

func main() {
	cmd.Execute()
}
