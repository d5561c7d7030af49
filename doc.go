// Package grove maps declarative, versioned schemas onto hierarchical
// backing stores: trees of named groups holding scalar attributes, array
// datasets, nested groups, dynamically sized runs of homogeneous groups,
// and cross-tree links.
//
// A Schema is built once from immutable Node values (or from a YAML
// declaration via the decl subpackage) and carries a Registry of record
// types, one per distinct group shape. Opening a store against a version
// table yields a File whose root GroupView navigates the tree lazily:
// group-shaped fields return cached child views, link fields resolve to
// the live view they alias, and leaf fields read and write the store
// directly.
package grove
