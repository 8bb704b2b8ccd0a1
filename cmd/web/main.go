package main

import "itad_backend/internal/app"

func main() {
	app.Run()
}
