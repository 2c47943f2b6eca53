package proxy

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dop251/goja"
	"golang.org/x/net/html"
)

const mdiskHeaderValue = "awvqjqohzeaeymhgfrpsgq"

// MDisk resolves mdisk-style share pages. Instead of a JSON API the page
// embeds its state as a window.__INITIAL_STATE__ script, so the page is
// fetched, the script located, and the state evaluated out of it.
type MDisk struct {
	client *http.Client
}

func NewMDisk(timeout time.Duration) *MDisk {
	return &MDisk{client: &http.Client{Timeout: timeout}}
}

func (m *MDisk) Name() string { return "MDisk" }

func (m *MDisk) Resolve(ctx context.Context, shareURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, shareURL, nil)
	if err != nil {
		return nil, upstreamErr(m.Name(), err)
	}
	req.Header.Set("msc", mdiskHeaderValue)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	body, err := send(m.client, req, m.Name())
	if err != nil {
		return nil, err
	}

	script, ok := findStateScript(string(body))
	if !ok {
		return nil, upstreamErr(m.Name(), fmt.Errorf("no initial state script in page"))
	}

	state, err := evalInitialState(script)
	if err != nil {
		return nil, upstreamErr(m.Name(), err)
	}
	return []byte(state), nil
}

// findStateScript walks the page and returns the text of the first script
// element that assigns window.__INITIAL_STATE__.
func findStateScript(page string) (string, bool) {
	doc, err := html.Parse(strings.NewReader(page))
	if err != nil {
		return "", false
	}

	var walk func(*html.Node) (string, bool)
	walk = func(n *html.Node) (string, bool) {
		if n.Type == html.ElementNode && n.Data == "script" {
			if n.FirstChild != nil && strings.Contains(n.FirstChild.Data, "window.__INITIAL_STATE__") {
				return n.FirstChild.Data, true
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if s, ok := walk(c); ok {
				return s, true
			}
		}
		return "", false
	}
	return walk(doc)
}

// evalInitialState runs the inline script in a sandboxed JS interpreter and
// serializes whatever it assigned to window.__INITIAL_STATE__. Running the
// script, rather than regexing it apart, keeps this working when the site
// changes how the assignment expression is built.
func evalInitialState(script string) (string, error) {
	vm := goja.New()
	if err := vm.Set("window", vm.NewObject()); err != nil {
		return "", err
	}
	if _, err := vm.RunString(script); err != nil {
		return "", fmt.Errorf("evaluate state script: %w", err)
	}

	out, err := vm.RunString("JSON.stringify(window.__INITIAL_STATE__)")
	if err != nil {
		return "", fmt.Errorf("serialize state: %w", err)
	}
	s, ok := out.Export().(string)
	if !ok || s == "" || s == "undefined" {
		return "", fmt.Errorf("state object missing from page script")
	}
	return s, nil
}
