// cmd/epureport/main.go
package main

import (
	"epureport/internal/app"
	"epureport/internal/appshell"
)

func main() {
	appshell.Main(app.RunContext)
}
