package main

import "github.com/fotosfolio/go-bookingform/internal/cli"

func main() {
	cli.Execute()
}
