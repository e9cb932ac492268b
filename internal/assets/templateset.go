package assets

// TemplateSet holds the templates that decorate a merged document.
type TemplateSet struct {
	Name   string // set name or directory
	Cover  string // html/template source of the cover block
	Footer string // html/template source of the running footer
}

// Built-in asset names.
const (
	DefaultTemplateSetName = "default"
	DefaultStyleName       = "default"
)

// templateFiles lists the files every set must provide.
var templateFiles = []string{"cover.html", "footer.html"}

// newTemplateSet assembles a set from file contents keyed by file name.
func newTemplateSet(name string, files map[string]string) *TemplateSet {
	return &TemplateSet{
		Name:   name,
		Cover:  files["cover.html"],
		Footer: files["footer.html"],
	}
}
