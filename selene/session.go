package selene

import "context"

// Scope is anything lookups can be anchored to: the whole session or a
// single element within it.
type Scope interface {
	// FindElement returns the first match or an error satisfying IsNotFound
	FindElement(ctx context.Context, by By) (Element, error)
	// FindElements returns every match, an empty slice when there are none
	FindElements(ctx context.Context, by By) ([]Element, error)
	// RootSession the scope belongs to
	RootSession() Session
}

// Element is a located node in the remote document.
type Element interface {
	Scope
	IsDisplayed(ctx context.Context) (bool, error)
	IsEnabled(ctx context.Context) (bool, error)
	Text(ctx context.Context) (string, error)
	// Attribute returns "" when the attribute is not present
	Attribute(ctx context.Context, name string) (string, error)
	TagName(ctx context.Context) (string, error)
}

// Session is the remotely driven browser the core operates against. Drivers
// under driver/ implement it; mock.Session implements it in memory.
type Session interface {
	Scope
	CurrentURL(ctx context.Context) (string, error)
	Title(ctx context.Context) (string, error)
	Navigate(ctx context.Context, url string) error
	Refresh(ctx context.Context) error
}
