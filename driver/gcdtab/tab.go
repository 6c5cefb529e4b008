// Package gcdtab drives a chromium tab over the DevTools protocol with gcd.
// Elements are remote object handles; lookups, display checks and text
// reads run as functions called on those handles.
package gcdtab

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/wirepair/gcd"
	"github.com/wirepair/gcd/gcdapi"
	"gitlab.com/selene/selene"
)

const (
	objectGroup = "selene"
	// retainedLookups is how many recent lookups keep their element handles
	// alive. Older handles are released and read as stale.
	retainedLookups = 256
)

// revive:exported
var (
	ErrNavigationTimedOut = errors.New("navigation timed out")
	ErrNavigating         = errors.New("error in navigation")
	ErrTabClosing         = errors.New("closing")
)

// ScriptErr when a called function throws in the page
type ScriptErr struct {
	Message string
}

func (e *ScriptErr) Error() string {
	return "script exception: " + e.Message
}

// Tab is a chromium tab implementing selene.Session
type Tab struct {
	t                 *gcd.ChromeTarget
	navigationTimeout time.Duration // amount of time to wait for the document to load
	exitCh            chan struct{}

	mu      sync.Mutex
	lookups int
	groups  []string // object groups of retained lookups, oldest first
}

// NewTab wraps an open chrome target
func NewTab(target *gcd.ChromeTarget) *Tab {
	return &Tab{
		t:                 target,
		navigationTimeout: 30 * time.Second,
		exitCh:            make(chan struct{}),
	}
}

// SetNavigationTimeout for Navigate and Refresh
func (t *Tab) SetNavigationTimeout(timeout time.Duration) {
	t.navigationTimeout = timeout
}

// Close the tab's wait loops
func (t *Tab) Close() {
	close(t.exitCh)
}

// RootSession is the tab itself
func (t *Tab) RootSession() selene.Session {
	return t
}

// FindElement returns the first match in the document
func (t *Tab) FindElement(ctx context.Context, by selene.By) (selene.Element, error) {
	return t.findElement(ctx, "", by)
}

// FindElements returns every match in the document
func (t *Tab) FindElements(ctx context.Context, by selene.By) ([]selene.Element, error) {
	return t.findElements(ctx, "", by)
}

// CurrentURL by looking at the navigation history
func (t *Tab) CurrentURL(ctx context.Context) (string, error) {
	_, entries, err := t.t.Page.GetNavigationHistory()
	if err != nil {
		return "", err
	}
	if len(entries) == 0 {
		return "", errors.New("empty navigation history")
	}
	return entries[len(entries)-1].Url, nil
}

// Title of the top level document
func (t *Tab) Title(ctx context.Context) (string, error) {
	r, err := t.evaluate("document.title", objectGroup, true)
	if err != nil {
		return "", err
	}
	title, _ := r.Value.(string)
	return title, nil
}

// Navigate to url and wait for the document to load
func (t *Tab) Navigate(ctx context.Context, url string) error {
	navParams := &gcdapi.PageNavigateParams{Url: url, TransitionType: "typed"}
	_, _, errText, err := t.t.Page.NavigateWithParams(navParams)
	if err != nil {
		return err
	}
	if errText != "" {
		return errors.Wrap(ErrNavigating, errText)
	}
	t.release()
	return t.WaitReady(ctx)
}

// Refresh the page and wait for it to load
func (t *Tab) Refresh(ctx context.Context) error {
	if _, err := t.t.Page.Reload(false, ""); err != nil {
		return err
	}
	t.release()
	return t.WaitReady(ctx)
}

// WaitReady polls document.readyState until the document has loaded
func (t *Tab) WaitReady(ctx context.Context) error {
	ticker := time.NewTicker(150 * time.Millisecond)
	defer ticker.Stop()

	navTimer := time.After(t.navigationTimeout)
	for {
		select {
		case <-navTimer:
			return ErrNavigationTimedOut
		case <-ctx.Done():
			return ctx.Err()
		case <-t.exitCh:
			return ErrTabClosing
		case <-ticker.C:
			r, err := t.evaluate("document.readyState", objectGroup, true)
			if err != nil {
				log.Ctx(ctx).Debug().Err(err).Msg("reading ready state")
				continue
			}
			if state, _ := r.Value.(string); state == "complete" {
				return nil
			}
		}
	}
}

func (t *Tab) document(group string) (string, error) {
	r, err := t.evaluate("document", group, false)
	if err != nil {
		return "", err
	}
	if r.ObjectId == "" {
		return "", errors.New("document has no object id")
	}
	return r.ObjectId, nil
}

// findElement below objectID, the document when it is empty
func (t *Tab) findElement(ctx context.Context, objectID string, by selene.By) (selene.Element, error) {
	by = by.Normalize()
	els, err := t.lookup(objectID, func(group, root string) ([]selene.Element, error) {
		r, err := t.callOn(group, root, findFn, false, using(by), by.Value, 0)
		if err != nil {
			return nil, errors.Wrapf(err, "find %s", by)
		}
		if r.ObjectId == "" {
			return nil, nil
		}
		return []selene.Element{newElement(t, r.ObjectId)}, nil
	})
	if err != nil {
		return nil, err
	}
	if len(els) == 0 {
		return nil, selene.NotFound(by)
	}
	return els[0], nil
}

// findElements below objectID, the document when it is empty
func (t *Tab) findElements(ctx context.Context, objectID string, by selene.By) ([]selene.Element, error) {
	by = by.Normalize()
	return t.lookup(objectID, func(group, root string) ([]selene.Element, error) {
		r, err := t.callOn(group, root, findFn, true, using(by), by.Value, -1)
		if err != nil {
			return nil, errors.Wrapf(err, "find all %s", by)
		}
		count, _ := r.Value.(float64)

		els := make([]selene.Element, 0, int(count))
		for i := 0; i < int(count); i++ {
			r, err := t.callOn(group, root, findFn, false, using(by), by.Value, i)
			if err != nil {
				return nil, errors.Wrapf(err, "find all %s", by)
			}
			// removed between the count and the fetch
			if r.ObjectId == "" {
				log.Ctx(ctx).Debug().Str("by", by.String()).Int("index", i).Msg("element went away")
				continue
			}
			els = append(els, newElement(t, r.ObjectId))
		}
		return els, nil
	})
}

// lookup runs fn with the handles it creates in a fresh object group. The
// group is released right away when fn found nothing, otherwise retained.
func (t *Tab) lookup(objectID string, fn func(group, root string) ([]selene.Element, error)) ([]selene.Element, error) {
	group := t.lookupGroup()

	var (
		els []selene.Element
		err error
	)
	root := objectID
	if root == "" {
		root, err = t.document(group)
	}
	if err == nil {
		els, err = fn(group, root)
	}

	if len(els) == 0 {
		t.releaseGroup(group)
	} else {
		t.retain(group)
	}
	return els, err
}

func (t *Tab) lookupGroup() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.lookups++
	return fmt.Sprintf("%s-%d", objectGroup, t.lookups)
}

// retain group, releasing the oldest groups past retainedLookups
func (t *Tab) retain(group string) {
	t.mu.Lock()
	t.groups = append(t.groups, group)
	var expired []string
	if n := len(t.groups) - retainedLookups; n > 0 {
		expired = append(expired, t.groups[:n]...)
		t.groups = append([]string(nil), t.groups[n:]...)
	}
	t.mu.Unlock()

	for _, g := range expired {
		t.releaseGroup(g)
	}
}

// Retained reports how many lookups currently hold remote handles
func (t *Tab) Retained() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.groups)
}

func using(by selene.By) string {
	if by.Using == selene.XPath {
		return "xpath"
	}
	return "css"
}

func (t *Tab) evaluate(expression, group string, byValue bool) (*gcdapi.RuntimeRemoteObject, error) {
	params := &gcdapi.RuntimeEvaluateParams{
		Expression:    expression,
		ObjectGroup:   group,
		Silent:        true,
		ReturnByValue: byValue,
		Timeout:       1000,
	}
	r, exp, err := t.t.Runtime.EvaluateWithParams(params)
	if err != nil {
		return nil, err
	}
	if exp != nil {
		return nil, &ScriptErr{Message: exp.Text}
	}
	return r, nil
}

func (t *Tab) callOn(group, objectID, fn string, byValue bool, args ...interface{}) (*gcdapi.RuntimeRemoteObject, error) {
	callArgs := make([]*gcdapi.RuntimeCallArgument, len(args))
	for i, arg := range args {
		callArgs[i] = &gcdapi.RuntimeCallArgument{Value: arg}
	}
	params := &gcdapi.RuntimeCallFunctionOnParams{
		FunctionDeclaration: fn,
		ObjectId:            objectID,
		Arguments:           callArgs,
		Silent:              true,
		ReturnByValue:       byValue,
		ObjectGroup:         group,
	}
	r, exp, err := t.t.Runtime.CallFunctionOnWithParams(params)
	if err != nil {
		return nil, err
	}
	if exp != nil {
		return nil, &ScriptErr{Message: fmt.Sprintf("%s (line %d)", exp.Text, exp.LineNumber)}
	}
	return r, nil
}

// release the handles of the previous document
func (t *Tab) release() {
	t.mu.Lock()
	groups := t.groups
	t.groups = nil
	t.mu.Unlock()

	t.releaseGroup(objectGroup)
	for _, g := range groups {
		t.releaseGroup(g)
	}
}

func (t *Tab) releaseGroup(group string) {
	if _, err := t.t.Runtime.ReleaseObjectGroup(group); err != nil {
		log.Debug().Err(err).Str("group", group).Msg("releasing object group")
	}
}
