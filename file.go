package grove

import (
	"io"

	"github.com/sirupsen/logrus"
)

// fileHandle is the single shared binding between a tree of views and the
// backing store. It is owned by the File that opened the store; views
// never hold independent handles.
type fileHandle struct {
	store    Store
	registry *Registry
	log      logrus.FieldLogger
}

// File is the top-level wrapper binding one negotiated schema version to
// one backing store.
type File struct {
	store    Store
	schema   *Schema
	root     *GroupView
	version  string
	filetype string
	log      logrus.FieldLogger
}

// Option configures Open and Create.
type Option func(*fileConfig)

type fileConfig struct {
	log logrus.FieldLogger
}

// WithLogger attaches a logger for debug-level diagnostics. The default
// logger discards everything.
func WithLogger(log logrus.FieldLogger) Option {
	return func(cfg *fileConfig) {
		if log != nil {
			cfg.log = log
		}
	}
}

func newFileConfig(opts []Option) *fileConfig {
	l := logrus.New()
	l.SetOutput(io.Discard)
	cfg := &fileConfig{log: l}
	for _, o := range opts {
		o(cfg)
	}
	return cfg
}

// Create initializes store as a fresh file of the given filetype and
// version, writing the provenance attributes to the store root, and binds
// the schema registered for that version. The version table is plain
// caller-supplied configuration; no global registry exists.
func Create(store Store, filetype, version string, versions map[string]*Schema, opts ...Option) (*File, error) {
	cfg := newFileConfig(opts)
	sc, ok := versions[version]
	if !ok {
		return nil, errConfig("no schema registered for version %q", version)
	}
	if err := store.RequireGroup(RootPath()); err != nil {
		return nil, errStore(RootPath(), "", err)
	}
	if err := store.WriteAttr(RootPath(), AttrVersion, version); err != nil {
		return nil, errStore(RootPath(), AttrVersion, err)
	}
	if err := store.WriteAttr(RootPath(), AttrFiletype, filetype); err != nil {
		return nil, errStore(RootPath(), AttrFiletype, err)
	}
	return bind(store, sc, filetype, version, cfg)
}

// Open reads the provenance attributes from the store root, checks the
// filetype, and binds the schema registered for the stored version.
func Open(store Store, filetype string, versions map[string]*Schema, opts ...Option) (*File, error) {
	cfg := newFileConfig(opts)
	version, err := readProvenance(store, AttrVersion)
	if err != nil {
		return nil, err
	}
	ft, err := readProvenance(store, AttrFiletype)
	if err != nil {
		return nil, err
	}
	if ft != filetype {
		return nil, errConfig("store holds filetype %q, expected %q", ft, filetype)
	}
	sc, ok := versions[version]
	if !ok {
		return nil, errConfig("no schema registered for version %q", version)
	}
	return bind(store, sc, filetype, version, cfg)
}

func readProvenance(store Store, name string) (string, error) {
	v, err := store.ReadAttr(RootPath(), name)
	if err != nil {
		return "", errStore(RootPath(), name, err)
	}
	s, ok := v.(string)
	if !ok {
		return "", errConfig("provenance attribute %q is not a string", name)
	}
	return s, nil
}

func bind(store Store, sc *Schema, filetype, version string, cfg *fileConfig) (*File, error) {
	fh := &fileHandle{store: store, registry: sc.registry, log: cfg.log}
	root, err := newGroupView(fh, RootName, sc.root, nil, RootName)
	if err != nil {
		return nil, err
	}
	cfg.log.WithFields(logrus.Fields{"filetype": filetype, "version": version}).
		Debug("grove: file bound")
	return &File{
		store:    store,
		schema:   sc,
		root:     root,
		version:  version,
		filetype: filetype,
		log:      cfg.log,
	}, nil
}

// Root returns the root group view.
func (f *File) Root() *GroupView { return f.root }

// Schema returns the negotiated schema.
func (f *File) Schema() *Schema { return f.schema }

// Registry returns the negotiated schema's record-type registry.
func (f *File) Registry() *Registry { return f.schema.registry }

// Version returns the negotiated version string.
func (f *File) Version() string { return f.version }

// Filetype returns the file's provenance filetype.
func (f *File) Filetype() string { return f.filetype }
