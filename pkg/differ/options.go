package differ

// Option is a functional option for configuring Differ
type Option func(*differ)

// WithForce makes every comparison report needs-update
func WithForce(force bool) Option {
	return func(d *differ) {
		d.force = force
	}
}

// WithExternalIDField sets the custom field id that holds the roster id on the target
func WithExternalIDField(fieldID string) Option {
	return func(d *differ) {
		d.externalIDField = fieldID
	}
}
