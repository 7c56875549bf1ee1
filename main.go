package main

import "github.com/Poohpo313/Sana/cmd/sana"

func main() {
	sana.Execute()
}
