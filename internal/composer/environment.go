package composer

// Environment is what the composer can observe about the page firing an event.
// Implementations return empty values for anything they cannot see.
type Environment interface {
	PageURL() string
	UserAgent() string
	Cookie(name string) (string, bool)
}

// NoopEnvironment is used outside a page context: every field is empty or absent.
type NoopEnvironment struct{}

func (NoopEnvironment) PageURL() string              { return "" }
func (NoopEnvironment) UserAgent() string            { return "" }
func (NoopEnvironment) Cookie(string) (string, bool) { return "", false }

// StaticEnvironment reports fixed values. Used by the CLI and tests.
type StaticEnvironment struct {
	URL     string
	Agent   string
	Cookies map[string]string
}

func (e StaticEnvironment) PageURL() string   { return e.URL }
func (e StaticEnvironment) UserAgent() string { return e.Agent }

func (e StaticEnvironment) Cookie(name string) (string, bool) {
	v, ok := e.Cookies[name]
	if !ok || v == "" {
		return "", false
	}
	return v, true
}
