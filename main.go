package main

import (
	"context"

	"github.com/shandysiswandi/goaccount/internal/app"
)

// @title           GoAccount API
// @version         1.0
// @description     GoAccount provides registration, email verification and OTP confirmed login.
// @server          http://localhost:8080
// @securityDefinitions.apikey  BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the token from /api/v1/account/token.
func main() {
	application := app.New()
	<-application.Start()

	ctx, cancel := context.WithTimeout(context.Background(), application.ShutdownTimeout())
	defer cancel()
	application.Stop(ctx)
}
