package grove

// Store is the hierarchical backing store the engine maps schemas onto.
// It is consumed, never implemented, by this package; the memstore
// subpackage provides an in-memory implementation for tests and tooling.
//
// All methods address locations by Path. Implementations must provide:
// idempotent group creation, scalar attributes and array datasets keyed by
// (path, name), link entries storing a target path, enumeration of direct
// child group names (an empty list, not an error, for paths that do not
// exist yet), and an existence check. Views issue direct blocking calls on
// a single shared Store handle owned by the File that opened it.
type Store interface {
	// RequireGroup creates the group at path, and any missing ancestors,
	// if it does not already exist.
	RequireGroup(path Path) error

	// Exists reports whether a group exists at path.
	Exists(path Path) (bool, error)

	// Children returns the direct child group names under path. A path
	// with no stored group yields an empty list.
	Children(path Path) ([]string, error)

	ReadAttr(path Path, name string) (any, error)
	WriteAttr(path Path, name string, value any) error

	ReadDataset(path Path, name string) ([]float64, error)
	WriteDataset(path Path, name string, values []float64) error

	// ReadLink returns the target path stored for the link entry name
	// under path.
	ReadLink(path Path, name string) (Path, error)
	// WriteLink stores an aliasing entry from path+name to target.
	WriteLink(path Path, name string, target Path) error
}

// Provenance attribute names written to the store root by Create and read
// back during Open's version negotiation.
const (
	AttrVersion  = "version"
	AttrFiletype = "filetype"
)
