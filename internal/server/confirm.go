package server

import (
	_ "embed"
	"html/template"
)

//go:embed confirm_auth.html
var confirmHTML string

var confirmTemplate = template.Must(template.New("confirm_auth").Parse(confirmHTML))

type confirmData struct {
	DoLogin string
}
