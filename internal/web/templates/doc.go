// Package templates holds the HTML fragments returned to HTMX clients.
// Components are written in .templ files; run `templ generate` after editing.
package templates
