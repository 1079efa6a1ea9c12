package main

import (
	"dealdesk/internal/app"
)

// @title           dealdesk API
// @version         1.0
// @description     Deal-tracking CRM: pipeline boards, stage transitions, reports.
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	app.Run()
}
