package view

import (
	"errors"
	"html/template"
	"net/url"
)

// Funcs is the template function map registered on the gin engine.
func Funcs() template.FuncMap {
	return template.FuncMap{
		"money":    Money,
		"badge":    BadgeLabel,
		"title":    Title,
		"stars":    Stars,
		"rating":   Rating,
		"discount": DiscountPercent,
		"pages":    PageItems,
		"add":      func(a, b int) int { return a + b },
		"sub":      func(a, b int) int { return a - b },
		"query":    url.QueryEscape,
		"path":     url.PathEscape,
		"has": func(set map[int]bool, id int) bool {
			return set[id]
		},
		"eqs":  func(a, b string) bool { return a == b },
		"dict": Dict,
	}
}

// Dict builds a map from alternating keys and values so a partial template
// can take more than one argument.
func Dict(pairs ...any) (map[string]any, error) {
	if len(pairs)%2 != 0 {
		return nil, errors.New("dict needs an even number of arguments")
	}
	out := make(map[string]any, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		key, ok := pairs[i].(string)
		if !ok {
			return nil, errors.New("dict keys must be strings")
		}
		out[key] = pairs[i+1]
	}
	return out, nil
}
