package catalog

// Clone returns a deep copy of the application. Slice fields and the
// display order pointer are duplicated so callers cannot alias store
// internals.
func (a Application) Clone() Application {
	out := a
	if a.TechStack != nil {
		out.TechStack = append([]string(nil), a.TechStack...)
	}
	if a.Tags != nil {
		out.Tags = append([]string(nil), a.Tags...)
	}
	if a.DisplayOrder != nil {
		order := *a.DisplayOrder
		out.DisplayOrder = &order
	}
	return out
}

// Clone returns a deep copy of the dependency.
func (d Dependency) Clone() Dependency {
	out := d
	if d.ProviderID != nil {
		provider := *d.ProviderID
		out.ProviderID = &provider
	}
	return out
}

// Clone returns a deep copy of the route.
func (r Route) Clone() Route {
	out := r
	if r.RequiredRoles != nil {
		out.RequiredRoles = append([]string(nil), r.RequiredRoles...)
	}
	if r.Tags != nil {
		out.Tags = append([]string(nil), r.Tags...)
	}
	return out
}

// Clone returns a deep copy of the deployment.
func (d Deployment) Clone() Deployment {
	return d
}
