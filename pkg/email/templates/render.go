// Package templates holds the HTML bodies of the account emails as templ
// components. Edit the .templ files and run `templ generate`; the *_templ.go
// files are generated. Links go through templ.URL so only safe schemes survive.
package templates

import (
	"context"
	"strings"

	"github.com/a-h/templ"
)

// Render renders tpl into a string.
func Render(ctx context.Context, tpl templ.Component) (string, error) {
	var sb strings.Builder
	if err := tpl.Render(ctx, &sb); err != nil {
		return "", err
	}
	return sb.String(), nil
}
