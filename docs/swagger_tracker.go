package docs

// @title           Fleet Tracker API
// @version         1.0
// @description     Fleet tracker service: records bus position samples and serves the latest position of every bus.

// @host      localhost:3001
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
