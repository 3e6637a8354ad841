package main

// General API documentation for swaggo. Run `swag init -g cmd/aiengine/docs.go` to regenerate docs.
//
// @title           aiengine API
// @version         1.0
// @description     Dataset analysis, natural-language queries, predictions and insights over JSON datasets.
//
// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT
//
// @BasePath  /
//
// @schemes http
