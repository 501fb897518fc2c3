package docs

// @title           Fare Terminal API
// @version         1.0
// @description     Fare terminal service: destination catalog, fare quotes and tickets, the driver terminal state machine of every bus and the passenger display push over WebSocket.

// @host      localhost:3000
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
