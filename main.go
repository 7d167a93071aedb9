package main

import "computer_use_demo/presentation/terminal"

func main() {
	terminal.Execute()
}
