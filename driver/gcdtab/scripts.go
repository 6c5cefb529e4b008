package gcdtab

// functions run with callFunctionOn, `this` being the scope or element

const findFn = `function(using, value, index) {
	var found = [];
	if (using === "xpath") {
		var doc = this.ownerDocument || this;
		var res = doc.evaluate(value, this, null, XPathResult.ORDERED_NODE_SNAPSHOT_TYPE, null);
		for (var i = 0; i < res.snapshotLength; i++) {
			if (res.snapshotItem(i).nodeType === 1) {
				found.push(res.snapshotItem(i));
			}
		}
	} else {
		found = Array.prototype.slice.call(this.querySelectorAll(value));
	}
	return index < 0 ? found.length : found[index];
}`

const displayedFn = `function() {
	if (!this.isConnected) {
		return false;
	}
	var style = window.getComputedStyle(this);
	if (style.display === "none" || style.visibility === "hidden" || style.opacity === "0") {
		return false;
	}
	var rect = this.getBoundingClientRect();
	return rect.width > 0 && rect.height > 0;
}`

const enabledFn = `function() { return !this.disabled; }`

const textFn = `function() { return (this.innerText || this.textContent || "").trim(); }`

const attributeFn = `function(name) { var v = this.getAttribute(name); return v === null ? "" : v; }`

const tagNameFn = `function() { return this.tagName.toLowerCase(); }`
