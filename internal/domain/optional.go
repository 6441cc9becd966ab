package domain

// Optional is a string that may be absent. Presence is tracked explicitly so
// "not given" and "given as empty" stay distinguishable.
type Optional struct {
	value string
	set   bool
}

// Some returns a present value, even if v is empty.
func Some(v string) Optional { return Optional{value: v, set: true} }

// None returns an absent value.
func None() Optional { return Optional{} }

// FromQuery maps a raw query string value to an Optional: empty means absent.
func FromQuery(raw string) Optional {
	if raw == "" {
		return None()
	}
	return Some(raw)
}

// Get returns the value and whether it is present.
func (o Optional) Get() (string, bool) { return o.value, o.set }

// IsSet reports whether the value is present.
func (o Optional) IsSet() bool { return o.set }

// OrEmpty returns the value or "" when absent.
func (o Optional) OrEmpty() string { return o.value }
