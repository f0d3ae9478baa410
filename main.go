package main

import "github.com/Temutjin2k/studylens-dashboard/cmd/studylens"

func main() {
	studylens.Run()
}
