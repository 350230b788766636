package bibfile

// Fields is an insertion-ordered map of field names to raw values.
// Setting an existing name replaces its value but keeps its position.
type Fields struct {
	names  []string
	values map[string]string
}

// NewFields returns an empty field map.
func NewFields() *Fields {
	return &Fields{values: make(map[string]string)}
}

// Get returns the value of name.
func (f *Fields) Get(name string) (string, bool) {
	v, ok := f.values[name]
	return v, ok
}

// Set stores value under name.
func (f *Fields) Set(name, value string) {
	if _, ok := f.values[name]; !ok {
		f.names = append(f.names, name)
	}
	f.values[name] = value
}

// Delete removes name and reports whether it was present.
func (f *Fields) Delete(name string) bool {
	if _, ok := f.values[name]; !ok {
		return false
	}
	delete(f.values, name)
	for i, n := range f.names {
		if n == name {
			f.names = append(f.names[:i], f.names[i+1:]...)
			break
		}
	}
	return true
}

// Names returns the field names in insertion order.
func (f *Fields) Names() []string {
	out := make([]string, len(f.names))
	copy(out, f.names)
	return out
}

// Len returns the number of fields.
func (f *Fields) Len() int {
	return len(f.names)
}

// Each calls fn for every field in insertion order.
func (f *Fields) Each(fn func(name, value string)) {
	for _, n := range f.names {
		fn(n, f.values[n])
	}
}
