package main

import "sentiment-webapi/internal/app"

func main() {
	app.Run()
}
