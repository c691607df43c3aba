// Package htmx detects htmx requests and speaks the htmx response header
// protocol, so handlers can serve partial swaps to htmx clients and whole
// pages to everyone else from the same code path.
//
// [IsHTMX] branches a handler; inside the anvil Context the same check is
// exposed as c.IsHTMX(). [Redirect], [Location], and friends pick the right
// navigation mechanism per client: HX-* headers with a 200 for htmx, a real
// 302 otherwise.
//
//	func save(w http.ResponseWriter, r *http.Request) {
//	    // ... persist ...
//	    htmx.Redirect(w, r, "/items")
//	}
//
// [Config] collects response headers (retarget, reswap, triggers, history
// updates) plus out-of-band fragments, then stamps them onto any header
// map:
//
//	cfg := htmx.NewConfig(
//	    htmx.WithRetarget("#item-list"),
//	    htmx.WithReswap(htmx.SwapOuterHTML),
//	    htmx.WithTrigger("items:changed"),
//	    htmx.WithOOB(counterBadge(n)),
//	)
//	cfg.Apply(w.Header())
//	list(items).Render(r.Context(), w)
//	cfg.RenderOOB(r.Context(), w)
//
// Out-of-band fragments are [Renderable], which templ components satisfy;
// each must carry id and hx-swap-oob attributes to land anywhere.
package htmx
