package assets

// AssetLoader loads stylesheets and template sets by name.
type AssetLoader interface {
	// LoadStyle returns the CSS of styles/{name}.css.
	LoadStyle(name string) (string, error)

	// LoadTemplateSet returns templates/{name}/cover.html and footer.html.
	LoadTemplateSet(name string) (*TemplateSet, error)
}
