package query

import (
	"fmt"
	"regexp"

	"gitlab.com/selene/selene"
)

// Locator is a resolved selector: a lookup strategy and how to describe it
type Locator struct {
	By          selene.By
	Description string
}

// LocatorMapper turns a caller supplied selector into a Locator, or declines
// with false so the next registered mapper can try.
type LocatorMapper interface {
	MapLocator(sel interface{}) (Locator, bool)
}

// LocatorFunc adapts a function to a LocatorMapper
type LocatorFunc func(sel interface{}) (Locator, bool)

// MapLocator calls f
func (f LocatorFunc) MapLocator(sel interface{}) (Locator, bool) {
	return f(sel)
}

// Strategies maps the keys accepted in structured selectors, e.g.
// {"linkText": "Next"}, to lookup strategies.
var Strategies = map[string]string{
	"css":             selene.CSS,
	"xpath":           selene.XPath,
	"id":              selene.ID,
	"name":            selene.Name,
	"linkText":        selene.LinkText,
	"partialLinkText": selene.PartialLinkText,
	"tagName":         selene.TagName,
	"className":       selene.ClassName,
}

var xpathPrefix = regexp.MustCompile(`^\.?/`)

// defaultLocators in resolution order. Bare strings are tried last so the
// catch-all css mapper only sees what nothing else claimed.
func defaultLocators() []LocatorMapper {
	return []LocatorMapper{
		LocatorFunc(byLocator),
		LocatorFunc(strategyLocator),
		LocatorFunc(xpathLocator),
		LocatorFunc(cssLocator),
	}
}

func byLocator(sel interface{}) (Locator, bool) {
	var by selene.By
	switch s := sel.(type) {
	case selene.By:
		by = s
	case *selene.By:
		if s == nil {
			return Locator{}, false
		}
		by = *s
	default:
		return Locator{}, false
	}
	if by.IsZero() {
		return Locator{}, false
	}
	return Locator{By: by, Description: by.String()}, true
}

// strategyLocator accepts a single key map naming a strategy
func strategyLocator(sel interface{}) (Locator, bool) {
	var key, value string
	switch s := sel.(type) {
	case map[string]string:
		if len(s) != 1 {
			return Locator{}, false
		}
		for k, v := range s {
			key, value = k, v
		}
	case map[string]interface{}:
		if len(s) != 1 {
			return Locator{}, false
		}
		for k, v := range s {
			str, ok := v.(string)
			if !ok {
				return Locator{}, false
			}
			key, value = k, str
		}
	default:
		return Locator{}, false
	}
	using, ok := Strategies[key]
	if !ok || value == "" {
		return Locator{}, false
	}
	by := selene.By{Using: using, Value: value}
	return Locator{By: by, Description: fmt.Sprintf("%s %q", key, value)}, true
}

// xpathLocator claims strings starting with // or ./
func xpathLocator(sel interface{}) (Locator, bool) {
	s, ok := sel.(string)
	if !ok || !xpathPrefix.MatchString(s) {
		return Locator{}, false
	}
	return Locator{By: selene.ByXPath(s), Description: s}, true
}

func cssLocator(sel interface{}) (Locator, bool) {
	s, ok := sel.(string)
	if !ok || s == "" {
		return Locator{}, false
	}
	return Locator{By: selene.ByCSS(s), Description: s}, true
}
