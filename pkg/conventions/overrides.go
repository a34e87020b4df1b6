package conventions

// Overrides holds the name-remapping tables for irregular modules. Each
// table maps a convention-derived default to its replacement; an override
// always wins over the default.
type Overrides struct {
	// RepoName maps a module name to its repository name when they differ.
	RepoName map[string]string `yaml:"repo_name"`
	// RepoOwner maps a default repository owner to a replacement owner.
	RepoOwner map[string]string `yaml:"repo_owner"`
	// SetName maps a build variable name to the prefix used when writing
	// version-descriptor files.
	SetName map[string]string `yaml:"set_name"`
}

// DefaultOverrides returns the override tables for the standard module tree.
func DefaultOverrides() *Overrides {
	return &Overrides{
		RepoName: map[string]string{
			"base": "epics-base",
		},
		RepoOwner: map[string]string{},
		SetName: map[string]string{
			"EPICS_BASE": "BASE",
		},
	}
}

// RepoNameFor returns the repository name for a module name.
func (o *Overrides) RepoNameFor(moduleName string) string {
	if o != nil {
		if name, ok := o.RepoName[moduleName]; ok {
			return name
		}
	}
	return moduleName
}

// RepoOwnerFor returns the repository owner, applying any owner override.
func (o *Overrides) RepoOwnerFor(defaultOwner string) string {
	if o != nil {
		if owner, ok := o.RepoOwner[defaultOwner]; ok {
			return owner
		}
	}
	return defaultOwner
}

// SetNameFor returns the descriptor-file prefix for a build variable.
func (o *Overrides) SetNameFor(variable string) string {
	if o != nil {
		if name, ok := o.SetName[variable]; ok {
			return name
		}
	}
	return variable
}
