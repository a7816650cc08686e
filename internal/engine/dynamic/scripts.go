// internal/engine/dynamic/scripts.go
package dynamic

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// helperScript installs window.__plexport, the page-side half of the
// viewport. It is a function expression taking the discovery options and
// returns false when the helpers were already installed.
const helperScript = `(function (opts) {
  if (window.__plexport) {
    return false;
  }

  var target = null;
  var overflowing = ["auto", "scroll", "hidden"];

  function describe(el) {
    if (el === document.scrollingElement || el === document.documentElement) {
      return "document";
    }
    var name = (el.tagName || "element").toLowerCase();
    if (el.id) {
      name += "#" + el.id;
    }
    var label = el.getAttribute ? el.getAttribute("aria-label") : null;
    if (label) {
      name += "[" + label + "]";
    }
    return name;
  }

  function findGrid() {
    var grids = Array.prototype.slice.call(document.querySelectorAll('div[role="grid"]'));
    for (var i = 0; i < grids.length; i++) {
      if (grids[i].getAttribute("aria-label") !== opts.libraryLabel && grids[i].clientWidth > opts.minWidth) {
        return grids[i];
      }
    }
    if (grids.length === 0) {
      return null;
    }
    return grids.reduce(function (prev, curr) {
      return prev.clientWidth > curr.clientWidth ? prev : curr;
    });
  }

  function locate() {
    var grid = findGrid();
    if (!grid) {
      target = null;
      return "";
    }
    var el = grid;
    while (el && el !== document.body) {
      var style = window.getComputedStyle(el);
      if (overflowing.indexOf(style.overflowY) !== -1 && el.scrollHeight > el.clientHeight) {
        target = el;
        return describe(el);
      }
      el = el.parentElement;
    }
    target = document.scrollingElement || document.documentElement;
    return describe(target);
  }

  function current() {
    if (!target || target.isConnected === false) {
      locate();
    }
    return target;
  }

  function metrics() {
    var el = current();
    if (!el) {
      return null;
    }
    return {
      scrollTop: el.scrollTop,
      clientHeight: el.clientHeight,
      scrollHeight: el.scrollHeight
    };
  }

  function scrollTo(top) {
    var el = current();
    if (!el) {
      return false;
    }
    el.scrollTop = top;
    return true;
  }

  function rows() {
    var nodes = document.querySelectorAll('div[role="row"]');
    var out = [];
    for (var i = 0; i < nodes.length; i++) {
      out.push(nodes[i].outerHTML);
    }
    return out.join("");
  }

  function notify(message) {
    window.setTimeout(function () {
      window.alert(message);
    }, 0);
    return true;
  }

  window.__plexport = {
    locate: locate,
    metrics: metrics,
    scrollTo: scrollTo,
    rows: rows,
    alert: notify
  };
  return true;
})`

// helperOptions are passed to helperScript
type helperOptions struct {
	MinWidth     int    `json:"minWidth"`
	LibraryLabel string `json:"libraryLabel"`
}

// installExpression invokes helperScript with opts
func installExpression(opts helperOptions) (string, error) {
	arg, err := json.Marshal(opts)
	if err != nil {
		return "", fmt.Errorf("failed to encode helper options: %w", err)
	}
	return fmt.Sprintf("%s(%s)", helperScript, arg), nil
}

const (
	locateExpression  = `window.__plexport.locate()`
	metricsExpression = `window.__plexport.metrics()`
	rowsExpression    = `window.__plexport.rows()`
)

func scrollExpression(top float64) string {
	return "window.__plexport.scrollTo(" + strconv.FormatFloat(top, 'f', -1, 64) + ")"
}

func alertExpression(message string) string {
	// strconv.Quote output is a valid JS string literal for printable text
	return "window.__plexport.alert(" + strconv.Quote(message) + ")"
}
