package main

import "talentgrid/internal/app/server"

func main() {
	server.Run()
}
