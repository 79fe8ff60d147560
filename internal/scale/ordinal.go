package scale

// Categorical palettes.
var (
	Tableau10 = []string{
		"#4e79a7", "#f28e2c", "#e15759", "#76b7b2", "#59a14f",
		"#edc949", "#af7aa1", "#ff9da7", "#9c755f", "#bab0ab",
	}
	Set2 = []string{
		"#66c2a5", "#fc8d62", "#8da0cb", "#e78ac3",
		"#a6d854", "#ffd92f", "#e5c494", "#b3b3b3",
	}
)

// Ordinal assigns palette colors to keys. Keys of the initial domain get
// colors in domain order; unseen keys are appended on first use, so a key
// keeps its color for the life of the scale. The palette wraps around.
type Ordinal struct {
	index   map[string]int
	keys    []string
	palette []string
}

// NewOrdinal builds an ordinal scale.
func NewOrdinal(domain []string, palette []string) *Ordinal {
	o := &Ordinal{index: make(map[string]int), palette: palette}
	for _, k := range domain {
		o.add(k)
	}
	return o
}

// Color returns the color for key.
func (o *Ordinal) Color(key string) string {
	if len(o.palette) == 0 {
		return ""
	}
	i, ok := o.index[key]
	if !ok {
		i = o.add(key)
	}
	return o.palette[i%len(o.palette)]
}

// Domain returns the keys seen so far in assignment order.
func (o *Ordinal) Domain() []string {
	out := make([]string, len(o.keys))
	copy(out, o.keys)
	return out
}

func (o *Ordinal) add(key string) int {
	if i, ok := o.index[key]; ok {
		return i
	}
	i := len(o.keys)
	o.index[key] = i
	o.keys = append(o.keys, key)
	return i
}
