package docs

// @title           StudyLens Dashboard API
// @version         1.0
// @description     Study session telemetry: ingestion, remote-first retrieval with local fallback, dashboard statistics and a live feed.

// @contact.name   StudyLens maintainers

// @license.name  MIT

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the access token.
