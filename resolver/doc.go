// Package resolver follows indirect references in a parsed PDF and copies
// object graphs from one document into a [core.Writer].
//
// [Resolve] follows a chain of references to the direct object at its end.
// A [Copier] deep-copies objects, giving every reachable source object a
// new number in the output. Objects reachable along several paths are
// written once, and cycles such as /Parent back-links terminate because a
// reference is numbered before its target is copied:
//
//	c := resolver.NewCopier(doc, w)
//	c.Drop(unwantedPageRef)
//	pageCopy, err := c.Copy(pageDict)
package resolver
