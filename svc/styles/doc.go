// Package styles connects the sanitizer to page storage.
//
// A page's CSS is parsed once when it is saved (Attach) and stored as an
// encoded tree. When a page is rendered, Compose merges the trees of the
// pages it transcludes from the configured namespaces, in page id order,
// with the page's own tree last, and renders the result under the current
// policy. Changing the policy therefore never requires re-saving pages.
//
//	svc := styles.New(store.NewMemory(), policy.Stylesheet(),
//	    styles.WithScopeSelector(policy.ScopeSelector),
//	    styles.WithNamespaces(policy.Namespaces...),
//	)
//	r.Mount("/styles", svc.Handle())
package styles
