package extract

import (
	"fmt"
	"regexp"

	"github.com/PuerkitoBio/goquery"
	"github.com/dop251/goja"
)

var imageURLPattern = regexp.MustCompile(`https?://[^\s"'<>\\]+\.(?:jpe?g|png|gif|webp|bmp|avif)(?:\?[^\s"'<>\\]*)?`)

// SniffScriptAssets harvests image URLs from inline <script> blocks. Some
// gallery pages ship their image list as a JS state assignment instead of
// DOM elements, so when selectors match nothing we run each inline script
// in a sandboxed VM with a minimal window stub, then sweep both the
// exported globals and the raw script text for image URLs.
func SniffScriptAssets(doc *goquery.Document) []string {
	vm := goja.New()

	// Just enough browser environment to let state assignments run.
	vm.Set("window", vm.GlobalObject())
	vm.Set("self", vm.GlobalObject())
	vm.Set("document", map[string]interface{}{})
	vm.Set("console", map[string]interface{}{
		"log":   func(call goja.FunctionCall) goja.Value { return nil },
		"error": func(call goja.FunctionCall) goja.Value { return nil },
	})

	seen := make(map[string]bool)
	var urls []string
	collect := func(text string) {
		for _, m := range imageURLPattern.FindAllString(text, -1) {
			if !seen[m] {
				seen[m] = true
				urls = append(urls, m)
			}
		}
	}

	doc.Find("script").Each(func(i int, sel *goquery.Selection) {
		if _, external := sel.Attr("src"); external {
			return
		}
		script := sel.Text()
		if script == "" {
			return
		}
		// Most page scripts fail against the stub environment; that is
		// fine, the raw-text sweep below still sees their literals.
		_, _ = vm.RunString(script)
		collect(script)
	})

	for _, key := range vm.GlobalObject().Keys() {
		if isStandardGlobal(key) {
			continue
		}
		val := vm.Get(key)
		if val == nil {
			continue
		}
		if exported := val.Export(); exported != nil {
			collect(fmt.Sprintf("%v", exported))
		}
	}

	return urls
}

func isStandardGlobal(key string) bool {
	standards := map[string]bool{
		"window": true, "self": true, "document": true, "location": true, "console": true,
		"Object": true, "Array": true, "String": true, "Number": true, "Boolean": true,
		"Date": true, "Math": true, "JSON": true, "RegExp": true, "Error": true,
		"Function": true, "parseInt": true, "parseFloat": true, "isNaN": true,
		"isFinite": true, "encodeURI": true, "decodeURI": true, "encodeURIComponent": true,
		"decodeURIComponent": true, "undefined": true, "NaN": true, "Infinity": true,
	}
	return standards[key]
}
