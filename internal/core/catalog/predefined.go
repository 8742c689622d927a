package catalog

// Predefined returns the compiled-in table of plugins known to exist even
// when not locally installed. They show up in help so users discover them;
// invoking one without the plugin installed produces the usual forwarding
// error with install guidance.
func Predefined() []Entry {
	return []Entry{
		{Name: "cloud", About: "Commands for publishing applications to Tether Cloud"},
		{Name: "kube", About: "Deploy and manage Tether applications on Kubernetes"},
	}
}
