package configs

// Configurable is a setting type read from a config path.
type Configurable interface {
	ConfigPath() string
}

// Get reads a Configurable setting from its own path.
func Get[T Configurable](loader Loader) T {
	var zero T
	return First[T](loader, zero.ConfigPath())
}
