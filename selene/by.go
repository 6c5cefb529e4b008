package selene

import (
	"fmt"
	"strings"
)

// Lookup strategies understood by every Session implementation. The values
// match the W3C WebDriver "using" names.
const (
	CSS             = "css selector"
	XPath           = "xpath"
	ID              = "id"
	Name            = "name"
	LinkText        = "link text"
	PartialLinkText = "partial link text"
	TagName         = "tag name"
	ClassName       = "class name"
)

// By is an opaque lookup strategy token: how to search (Using) and what
// for (Value).
type By struct {
	Using string
	Value string
}

// ByCSS selector
func ByCSS(selector string) By { return By{Using: CSS, Value: selector} }

// ByXPath expression
func ByXPath(expr string) By { return By{Using: XPath, Value: expr} }

// ByID attribute
func ByID(id string) By { return By{Using: ID, Value: id} }

// ByName attribute
func ByName(name string) By { return By{Using: Name, Value: name} }

// ByLinkText exact anchor text
func ByLinkText(text string) By { return By{Using: LinkText, Value: text} }

// ByPartialLinkText anchor text substring
func ByPartialLinkText(text string) By { return By{Using: PartialLinkText, Value: text} }

// ByTagName element name
func ByTagName(tag string) By { return By{Using: TagName, Value: tag} }

// ByClassName single class
func ByClassName(class string) By { return By{Using: ClassName, Value: class} }

// ByAttr matches elements whose attribute name equals value exactly
func ByAttr(name, value string) By {
	return ByCSS(`[` + name + `="` + cssEscape(value) + `"]`)
}

func (b By) String() string {
	return fmt.Sprintf("%s %q", b.Using, b.Value)
}

// IsZero reports whether b names no strategy.
func (b By) IsZero() bool {
	return b.Using == "" && b.Value == ""
}

// Normalize rewrites b into an equivalent CSS or XPath By, for drivers that
// only speak those two. Unknown strategies are returned unchanged.
func (b By) Normalize() By {
	switch b.Using {
	case CSS, XPath:
		return b
	case ID:
		return ByAttr("id", b.Value)
	case Name:
		return ByAttr("name", b.Value)
	case TagName:
		return ByCSS(b.Value)
	case ClassName:
		return ByCSS(`[class~="` + cssEscape(b.Value) + `"]`)
	case LinkText:
		return ByXPath(".//a[normalize-space(.)=" + xpathLiteral(strings.TrimSpace(b.Value)) + "]")
	case PartialLinkText:
		return ByXPath(".//a[contains(., " + xpathLiteral(b.Value) + ")]")
	}
	return b
}

func cssEscape(s string) string {
	return strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(s)
}

// xpathLiteral quotes s for use inside an XPath 1.0 expression, which has no
// escape sequences: strings holding both quote kinds need concat().
func xpathLiteral(s string) string {
	if !strings.Contains(s, `"`) {
		return `"` + s + `"`
	}
	if !strings.Contains(s, `'`) {
		return `'` + s + `'`
	}
	parts := strings.Split(s, `"`)
	quoted := make([]string, 0, len(parts)*2)
	for i, p := range parts {
		if i > 0 {
			quoted = append(quoted, `'"'`)
		}
		if p != "" {
			quoted = append(quoted, `"`+p+`"`)
		}
	}
	if len(quoted) == 1 {
		return quoted[0]
	}
	return "concat(" + strings.Join(quoted, ", ") + ")"
}
