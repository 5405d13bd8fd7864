package main

import "bouncer/internal/app"

// @title           Bouncer Waitlist API
// @version         1.0
// @description     Abuse-resistant public waitlist signup endpoint.
// @BasePath        /api
func main() {
	app.Run()
}
