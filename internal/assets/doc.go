// Package assets provides the print stylesheets and HTML templates used to
// assemble the merged site document.
//
// # Loader Architecture
//
//	AssetLoader (interface)
//	    │
//	    ├── EmbeddedLoader    - go:embed styles and templates shipped with the binary
//	    ├── FilesystemLoader  - a user directory with the same layout
//	    └── AssetResolver     - custom first, embedded as fallback
//
// # Directory Structure
//
//	{basePath}/
//	├── styles/
//	│   └── {name}.css
//	└── templates/
//	    └── {name}/
//	        ├── cover.html    # opening block (html/template)
//	        └── footer.html   # running footer fragment
//
// Asset names are validated before use and FilesystemLoader keeps every
// resolved path inside basePath, symlinks included.
package assets
