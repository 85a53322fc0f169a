package main

import "nanobar/cmd/nanobar"

func main() {
	nanobar.Execute()
}
